package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"gamehub/pkg/logger"
)

const (
	outboundBuffer = 16
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
)

// ErrSlowConsumer is returned by Send when a connection's outbound buffer
// is full. The caller treats it like any other dead connection.
var ErrSlowConsumer = errors.New("outbound buffer full")

var errConnectionClosed = errors.New("connection closed")

// wsConnection wraps one gorilla websocket. All writes go through a
// buffered channel drained by writePump, so Send never blocks on the
// network and a stalled client cannot stall fan-out to other clients.
type wsConnection struct {
	conn      *websocket.Conn
	userID    string
	createdAt time.Time
	out       chan []byte
	closeOnce sync.Once
	done      chan struct{}
	log       logger.Logger
}

func newWSConnection(conn *websocket.Conn, userID string, log logger.Logger) *wsConnection {
	c := &wsConnection{
		conn:      conn,
		userID:    userID,
		createdAt: time.Now(),
		out:       make(chan []byte, outboundBuffer),
		done:      make(chan struct{}),
		log:       log,
	}
	go c.writePump()
	return c
}

func (c *wsConnection) UserID() string {
	return c.userID
}

// Send queues a message for delivery. It fails instead of blocking when
// the connection is closed or its buffer is full.
func (c *wsConnection) Send(message []byte) error {
	select {
	case <-c.done:
		return errConnectionClosed
	default:
	}

	select {
	case c.out <- message:
		return nil
	default:
		return ErrSlowConsumer
	}
}

func (c *wsConnection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *wsConnection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Debug("Write failed", "user_id", c.userID, "error", err)
				c.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
