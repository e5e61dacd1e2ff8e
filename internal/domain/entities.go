package domain

import (
	"time"
)

type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the subset of User safe to embed in responses and events.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteRejected InviteStatus = "rejected"
)

type FriendInvite struct {
	ID         string
	FromUserID string
	ToUserID   string
	Status     InviteStatus
	CreatedAt  time.Time
}

// PendingInvite is the inbound-invite read model: the invite row joined
// with the sender.
type PendingInvite struct {
	ID        string     `json:"id"`
	FromUser  PublicUser `json:"fromUser"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Friendship stores the pair sorted, user_a_id < user_b_id, so one row
// covers both directions.
type Friendship struct {
	ID        string
	UserAID   string
	UserBID   string
	CreatedAt time.Time
}

type NotificationType string

const (
	NotificationFriendInvite NotificationType = "friend_invite"
	NotificationGameInvite   NotificationType = "game_invite"
)

type Notification struct {
	ID             string
	UserID         string
	Type           NotificationType
	FriendInviteID *string
	MatchID        *string
	Read           bool
	CreatedAt      time.Time
}

// NotificationItem is the read model for the notification list: the raw
// row joined with the data a client needs to render it.
type NotificationItem struct {
	ID           string            `json:"id"`
	Type         NotificationType  `json:"type"`
	Read         bool              `json:"read"`
	CreatedAt    time.Time         `json:"createdAt"`
	FriendInvite *InviteDetails    `json:"friendInvite,omitempty"`
	GameInvite   *GameInviteDetail `json:"gameInvite,omitempty"`
}

type InviteDetails struct {
	ID       string       `json:"id"`
	Status   InviteStatus `json:"status"`
	FromUser PublicUser   `json:"fromUser"`
}

type GameInviteDetail struct {
	MatchID  string     `json:"matchId"`
	FromUser PublicUser `json:"fromUser"`
	GameType string     `json:"gameType"`
}

const GameTypeTicTacToe = "tic_tac_toe"

type MatchStatus string

const (
	MatchWaiting    MatchStatus = "waiting"
	MatchInProgress MatchStatus = "in_progress"
	MatchFinished   MatchStatus = "finished"
	MatchAbandoned  MatchStatus = "abandoned"
)

type Match struct {
	ID         string
	GameType   string
	PlayerXID  string
	PlayerOID  *string
	Status     MatchStatus
	WinnerID   *string
	CreatedAt  time.Time
	FinishedAt *time.Time
}

type Move struct {
	ID        string
	MatchID   string
	PlayerID  string
	Position  int
	CreatedAt time.Time
}

type UserGameStats struct {
	UserID    string
	GameType  string
	Wins      int
	Losses    int
	Draws     int
	UpdatedAt time.Time
}

// FriendGameRecord is the head-to-head tally for a pair of friends,
// pair sorted the same way as Friendship.
type FriendGameRecord struct {
	UserAID   string
	UserBID   string
	GameType  string
	WinsA     int
	WinsB     int
	Draws     int
	UpdatedAt time.Time
}

type LeaderboardEntry struct {
	User  PublicUser `json:"user"`
	Wins  int        `json:"wins"`
	Draws int        `json:"draws"`
}
