package domain

// Live event payloads pushed over the websocket channel. Events are
// transient: durability, where needed, is the Notification row written by
// the service before the push.

type EventType string

const (
	EventFriendInvite   EventType = "friend_invite"
	EventFriendAccepted EventType = "friend_accepted"
	EventFriendRemoved  EventType = "friend_removed"
	EventGameInvite     EventType = "game_invite"
	EventMatchStarted   EventType = "match_started"
	EventMovePlayed     EventType = "move_played"
	EventMatchFinished  EventType = "match_finished"
	EventError          EventType = "error"
)

type FriendInviteEvent struct {
	Type     EventType  `json:"type"`
	InviteID string     `json:"inviteId"`
	FromUser PublicUser `json:"fromUser"`
}

type FriendAcceptedEvent struct {
	Type   EventType  `json:"type"`
	Friend PublicUser `json:"friend"`
}

type FriendRemovedEvent struct {
	Type     EventType `json:"type"`
	FriendID string    `json:"friendId"`
}

type GameInviteEvent struct {
	Type     EventType  `json:"type"`
	MatchID  string     `json:"matchId"`
	FromUser PublicUser `json:"fromUser"`
	GameType string     `json:"gameType"`
}

type MatchStartedEvent struct {
	Type     EventType  `json:"type"`
	MatchID  string     `json:"matchId"`
	Opponent PublicUser `json:"opponent"`
}

type MovePlayedEvent struct {
	Type     EventType `json:"type"`
	MatchID  string    `json:"matchId"`
	PlayerID string    `json:"playerId"`
	Position int       `json:"position"`
	NextTurn string    `json:"nextTurn"`
}

type MatchFinishedEvent struct {
	Type     EventType `json:"type"`
	MatchID  string    `json:"matchId"`
	WinnerID *string   `json:"winnerId"`
	Draw     bool      `json:"draw"`
}

// ErrorEvent answers a client whose inbound frame failed to parse. The
// connection stays open.
type ErrorEvent struct {
	Type    EventType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}
