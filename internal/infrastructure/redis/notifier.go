package redis

import (
	"context"

	"gamehub/internal/domain"
	"gamehub/pkg/logger"
)

// RelayNotifier pushes user events through the pub/sub relay instead of
// the local registry, so the instance actually holding the user's
// connections delivers them. Best-effort: a relay failure is logged, never
// returned, because the caller's state change has already committed.
type RelayNotifier struct {
	publisher domain.EventPublisher
	log       logger.Logger
}

func NewRelayNotifier(publisher domain.EventPublisher, log logger.Logger) *RelayNotifier {
	return &RelayNotifier{
		publisher: publisher,
		log:       log,
	}
}

func (n *RelayNotifier) NotifyUser(ctx context.Context, userID string, payload interface{}) error {
	if err := n.publisher.PublishUserEvent(ctx, userID, payload); err != nil {
		n.log.Error("Failed to relay user event", "user_id", userID, "error", err)
	}
	return nil
}
