package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"gamehub/internal/auth"
	"gamehub/internal/domain"
	"gamehub/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// WebSocketHandler drives a connection through its lifecycle: ticket
// verification, upgrade, registration, read loop, teardown.
type WebSocketHandler struct {
	tokens   *auth.TokenManager
	tickets  domain.TicketStore
	registry domain.ConnectionRegistry
	log      logger.Logger
}

func NewWebSocketHandler(tokens *auth.TokenManager, tickets domain.TicketStore,
	registry domain.ConnectionRegistry, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		tokens:   tokens,
		tickets:  tickets,
		registry: registry,
		log:      log,
	}
}

// HandleConnection authenticates the upgrade request with a short-lived
// single-use ticket passed as a query parameter. Any verification failure
// rejects the upgrade; no connection object is ever created for it.
func (h *WebSocketHandler) HandleConnection(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "token required"})
	}

	userID, ticketID, err := h.tokens.VerifyTicket(token)
	if err != nil {
		h.log.Info("Rejected upgrade - bad ticket", "error", err)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	ticketUserID, err := h.tickets.ConsumeTicket(c.Request().Context(), ticketID)
	if err != nil || ticketUserID != userID {
		h.log.Info("Rejected upgrade - ticket not consumable", "ticket_id", ticketID, "error", err)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return nil
	}

	wsConn := newWSConnection(conn, userID, h.log)
	h.registry.Register(userID, wsConn)

	go h.readPump(wsConn)
	return nil
}

// readPump consumes inbound frames until the transport dies, then
// unregisters the connection exactly once. Malformed frames are answered
// with an error event and never kill the connection.
func (h *WebSocketHandler) readPump(conn *wsConnection) {
	defer func() {
		h.registry.Unregister(conn.userID, conn)
		conn.Close()
	}()

	conn.conn.SetReadLimit(4096)
	conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.conn.SetPongHandler(func(string) error {
		conn.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("Connection read error", "user_id", conn.userID, "error", err)
			}
			return
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.sendError(conn, "bad_message", "could not parse message")
			continue
		}

		switch msg.Type {
		case "ping":
			h.sendJSON(conn, map[string]string{"type": "pong"})
		default:
			// Unknown types are ignored, not fatal.
			h.log.Debug("Ignoring inbound message", "user_id", conn.userID, "type", msg.Type)
		}
	}
}

func (h *WebSocketHandler) sendError(conn *wsConnection, code, message string) {
	h.sendJSON(conn, domain.ErrorEvent{Type: domain.EventError, Code: code, Message: message})
}

func (h *WebSocketHandler) sendJSON(conn *wsConnection, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := conn.Send(data); err != nil {
		h.log.Debug("Failed to answer client", "user_id", conn.userID, "error", err)
	}
}
