package domain

import (
	"context"
	"time"
)

// Repository interfaces
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateUsername(ctx context.Context, userID, username string) error
}

type FriendRepository interface {
	CreateInvite(ctx context.Context, invite *FriendInvite) error
	GetInvite(ctx context.Context, inviteID string) (*FriendInvite, error)
	GetInviteBetween(ctx context.Context, fromUserID, toUserID string) (*FriendInvite, error)
	UpdateInviteStatus(ctx context.Context, inviteID string, status InviteStatus) error
	ListPendingInvites(ctx context.Context, toUserID string) ([]*PendingInvite, error)

	CreateFriendship(ctx context.Context, friendship *Friendship) error
	GetFriendship(ctx context.Context, userAID, userBID string) (*Friendship, error)
	DeleteFriendship(ctx context.Context, userAID, userBID string) error
	ListFriends(ctx context.Context, userID string) ([]*User, error)
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *Notification) error
	ListNotifications(ctx context.Context, userID string) ([]*NotificationItem, error)
	GetNotification(ctx context.Context, notificationID string) (*Notification, error)
	MarkRead(ctx context.Context, notificationID string) error
	PurgeRead(ctx context.Context, olderThan time.Time) (int64, error)
}

type MatchRepository interface {
	CreateMatch(ctx context.Context, match *Match) error
	GetMatch(ctx context.Context, matchID string) (*Match, error)
	UpdateMatch(ctx context.Context, match *Match) error
	ListMatchesForUser(ctx context.Context, userID string, status MatchStatus, limit int) ([]*Match, error)
	AbandonStaleWaiting(ctx context.Context, olderThan time.Time) (int64, error)

	CreateMove(ctx context.Context, move *Move) error
	ListMoves(ctx context.Context, matchID string) ([]*Move, error)
}

type StatsRepository interface {
	RecordUserResult(ctx context.Context, userID, gameType string, wins, losses, draws int) error
	RecordPairResult(ctx context.Context, userAID, userBID, gameType string, winsA, winsB, draws int) error
	Leaderboard(ctx context.Context, gameType string, limit int) ([]*LeaderboardEntry, error)
}

// Ticket interface: single-use websocket upgrade credentials.
type TicketStore interface {
	StoreTicket(ctx context.Context, ticketID, userID string, ttl time.Duration) error
	ConsumeTicket(ctx context.Context, ticketID string) (string, error)
}

// Event interfaces
type UserEventHandler func(userID string, payload []byte) error

type EventPublisher interface {
	PublishUserEvent(ctx context.Context, userID string, payload interface{}) error
}

type EventSubscriber interface {
	SubscribeToUserEvents(ctx context.Context, handler UserEventHandler) error
}

// Leader election interface
type LeaderElection interface {
	BecomeLeader(ctx context.Context, instanceID string) (bool, error)
	IsLeader(ctx context.Context, instanceID string) (bool, error)
	ReleaseLeadership(ctx context.Context, instanceID string) error
}

// Notification interface consumed by business services: fire-and-forget
// live push toward one user.
type UserNotifier interface {
	NotifyUser(ctx context.Context, userID string, payload interface{}) error
}

// WebSocket interfaces
type Connection interface {
	Send(message []byte) error
	Close() error
	UserID() string
}

type ConnectionRegistry interface {
	Register(userID string, conn Connection)
	Unregister(userID string, conn Connection)
	ConnectionsFor(userID string) []Connection
	NotifyUser(userID string, payload interface{})
	CloseAll()
}
