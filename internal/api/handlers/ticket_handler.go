package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gamehub/internal/auth"
	"gamehub/internal/domain"
	"gamehub/pkg/logger"
)

// TicketHandler hands out short-lived single-use websocket upgrade tickets
// to authenticated users. The ticket id is stored server-side so the first
// upgrade consumes it.
type TicketHandler struct {
	tokens  *auth.TokenManager
	tickets domain.TicketStore
	log     logger.Logger
}

func NewTicketHandler(tokens *auth.TokenManager, tickets domain.TicketStore, log logger.Logger) *TicketHandler {
	return &TicketHandler{
		tokens:  tokens,
		tickets: tickets,
		log:     log,
	}
}

func (h *TicketHandler) Issue(c echo.Context) error {
	userID := UserID(c)

	token, ticketID, err := h.tokens.IssueTicket(userID)
	if err != nil {
		h.log.Error("Failed to issue ws ticket", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	if err := h.tickets.StoreTicket(c.Request().Context(), ticketID, userID, h.tokens.TicketTTL()); err != nil {
		h.log.Error("Failed to store ws ticket", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"token": token})
}
