package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"gamehub/internal/auth"
	"gamehub/internal/domain"
	"gamehub/pkg/logger"
)

// memoryTicketStore is the in-memory stand-in for the Redis ticket store.
type memoryTicketStore struct {
	mu      sync.Mutex
	tickets map[string]string
}

func newMemoryTicketStore() *memoryTicketStore {
	return &memoryTicketStore{tickets: make(map[string]string)}
}

func (s *memoryTicketStore) StoreTicket(_ context.Context, ticketID, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[ticketID] = userID
	return nil
}

func (s *memoryTicketStore) ConsumeTicket(_ context.Context, ticketID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.tickets[ticketID]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	delete(s.tickets, ticketID)
	return userID, nil
}

type handlerFixture struct {
	tokens  *auth.TokenManager
	tickets *memoryTicketStore
	cm      *ConnectionManager
	server  *httptest.Server
}

func setupHandler(t *testing.T, ticketTTL time.Duration) *handlerFixture {
	t.Helper()

	tokens := auth.NewTokenManager("test-secret", time.Hour, ticketTTL)
	tickets := newMemoryTicketStore()
	cm := NewConnectionManager(logger.NewNop())
	handler := NewWebSocketHandler(tokens, tickets, cm, logger.NewNop())

	e := echo.New()
	e.GET("/ws", handler.HandleConnection)

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	t.Cleanup(cm.CloseAll)

	return &handlerFixture{tokens: tokens, tickets: tickets, cm: cm, server: server}
}

func (f *handlerFixture) issueTicket(t *testing.T, userID string) string {
	t.Helper()
	token, ticketID, err := f.tokens.IssueTicket(userID)
	require.NoError(t, err)
	require.NoError(t, f.tickets.StoreTicket(context.Background(), ticketID, userID, time.Minute))
	return token
}

func (f *handlerFixture) wsURL(token string) string {
	return "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?token=" + token
}

func TestUpgradeRejectedWithoutToken(t *testing.T) {
	req := require.New(t)
	f := setupHandler(t, time.Minute)

	//nolint:bodyclose
	_, resp, err := websocket.DefaultDialer.Dial(f.wsURL(""), nil)
	req.Error(err)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func TestUpgradeRejectedWithExpiredTicket(t *testing.T) {
	req := require.New(t)
	f := setupHandler(t, -time.Minute) // tickets are born expired

	token := f.issueTicket(t, "alice")

	//nolint:bodyclose
	_, resp, err := websocket.DefaultDialer.Dial(f.wsURL(token), nil)
	req.Error(err)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	// No connection was ever created for the user.
	req.Empty(f.cm.ConnectionsFor("alice"))
}

func TestTicketIsSingleUse(t *testing.T) {
	req := require.New(t)
	f := setupHandler(t, time.Minute)

	token := f.issueTicket(t, "alice")

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(token), nil)
	req.NoError(err)
	defer conn.Close()

	//nolint:bodyclose
	_, resp, err := websocket.DefaultDialer.Dial(f.wsURL(token), nil)
	req.Error(err)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func TestLiveDelivery(t *testing.T) {
	req := require.New(t)
	f := setupHandler(t, time.Minute)

	token := f.issueTicket(t, "alice")
	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(token), nil)
	req.NoError(err)
	defer conn.Close()

	req.Eventually(func() bool {
		return len(f.cm.ConnectionsFor("alice")) == 1
	}, time.Second, 10*time.Millisecond)

	event := domain.FriendInviteEvent{
		Type:     domain.EventFriendInvite,
		InviteID: "i1",
		FromUser: domain.PublicUser{ID: "bob", Username: "bob"},
	}
	// Deliver the way business services do on a single instance.
	notifier := NewLocalNotifier(f.cm)
	req.NoError(notifier.NotifyUser(context.Background(), "alice", event))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := conn.ReadMessage()
	req.NoError(err)

	var got domain.FriendInviteEvent
	req.NoError(json.Unmarshal(raw, &got))
	req.Equal(event, got)
}

func TestMalformedInboundKeepsConnectionOpen(t *testing.T) {
	req := require.New(t)
	f := setupHandler(t, time.Minute)

	token := f.issueTicket(t, "alice")
	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(token), nil)
	req.NoError(err)
	defer conn.Close()

	req.NoError(conn.WriteMessage(websocket.TextMessage, []byte("this is not json")))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := conn.ReadMessage()
	req.NoError(err)

	var errEvent domain.ErrorEvent
	req.NoError(json.Unmarshal(raw, &errEvent))
	req.Equal(domain.EventError, errEvent.Type)

	// Connection survives: a ping still gets answered.
	req.NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err = conn.ReadMessage()
	req.NoError(err)
	req.JSONEq(`{"type":"pong"}`, string(raw))
}

func TestDisconnectUnregisters(t *testing.T) {
	req := require.New(t)
	f := setupHandler(t, time.Minute)

	token := f.issueTicket(t, "alice")
	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(token), nil)
	req.NoError(err)

	req.Eventually(func() bool {
		return len(f.cm.ConnectionsFor("alice")) == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	req.Eventually(func() bool {
		return len(f.cm.ConnectionsFor("alice")) == 0
	}, time.Second, 10*time.Millisecond)
}
