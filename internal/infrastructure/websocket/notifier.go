package websocket

import (
	"context"

	"gamehub/internal/domain"
)

// LocalNotifier adapts the connection registry to the UserNotifier
// interface business services depend on. Delivery is fire-and-forget:
// errors never reach the caller, whose database write has already
// committed.
type LocalNotifier struct {
	registry domain.ConnectionRegistry
}

func NewLocalNotifier(registry domain.ConnectionRegistry) *LocalNotifier {
	return &LocalNotifier{registry: registry}
}

func (n *LocalNotifier) NotifyUser(ctx context.Context, userID string, payload interface{}) error {
	n.registry.NotifyUser(userID, payload)
	return nil
}
