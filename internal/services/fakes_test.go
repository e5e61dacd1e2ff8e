package services

import (
	"context"
	"sync"
	"time"

	"gamehub/internal/domain"
)

// In-memory repositories backing the service tests.

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*domain.User)}
}

func (r *memoryUserRepo) CreateUser(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *memoryUserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memoryUserRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memoryUserRepo) UpdateUsername(ctx context.Context, userID, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Username = username
	return nil
}

type memoryFriendRepo struct {
	mu          sync.Mutex
	invites     map[string]*domain.FriendInvite
	friendships map[string]*domain.Friendship
	users       *memoryUserRepo
}

func newMemoryFriendRepo(users *memoryUserRepo) *memoryFriendRepo {
	return &memoryFriendRepo{
		invites:     make(map[string]*domain.FriendInvite),
		friendships: make(map[string]*domain.Friendship),
		users:       users,
	}
}

func pairKey(a, b string) string { return a + "|" + b }

func (r *memoryFriendRepo) CreateInvite(ctx context.Context, invite *domain.FriendInvite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invites[invite.ID] = invite
	return nil
}

func (r *memoryFriendRepo) GetInvite(ctx context.Context, inviteID string) (*domain.FriendInvite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invite, ok := r.invites[inviteID]
	if !ok {
		return nil, domain.ErrInviteNotFound
	}
	return invite, nil
}

func (r *memoryFriendRepo) GetInviteBetween(ctx context.Context, fromUserID, toUserID string) (*domain.FriendInvite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, invite := range r.invites {
		same := invite.FromUserID == fromUserID && invite.ToUserID == toUserID
		reversed := invite.FromUserID == toUserID && invite.ToUserID == fromUserID
		if same || reversed {
			return invite, nil
		}
	}
	return nil, domain.ErrInviteNotFound
}

func (r *memoryFriendRepo) UpdateInviteStatus(ctx context.Context, inviteID string, status domain.InviteStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	invite, ok := r.invites[inviteID]
	if !ok {
		return domain.ErrInviteNotFound
	}
	invite.Status = status
	return nil
}

func (r *memoryFriendRepo) ListPendingInvites(ctx context.Context, toUserID string) ([]*domain.PendingInvite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []*domain.PendingInvite
	for _, invite := range r.invites {
		if invite.ToUserID != toUserID || invite.Status != domain.InvitePending {
			continue
		}
		sender, ok := r.users.users[invite.FromUserID]
		if !ok {
			continue
		}
		pending = append(pending, &domain.PendingInvite{
			ID:        invite.ID,
			FromUser:  sender.Public(),
			CreatedAt: invite.CreatedAt,
		})
	}
	return pending, nil
}

func (r *memoryFriendRepo) CreateFriendship(ctx context.Context, friendship *domain.Friendship) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.friendships[pairKey(friendship.UserAID, friendship.UserBID)] = friendship
	return nil
}

func (r *memoryFriendRepo) GetFriendship(ctx context.Context, userAID, userBID string) (*domain.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	friendship, ok := r.friendships[pairKey(userAID, userBID)]
	if !ok {
		return nil, domain.ErrNotFriends
	}
	return friendship, nil
}

func (r *memoryFriendRepo) DeleteFriendship(ctx context.Context, userAID, userBID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.friendships, pairKey(userAID, userBID))
	return nil
}

func (r *memoryFriendRepo) ListFriends(ctx context.Context, userID string) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var friends []*domain.User
	for _, friendship := range r.friendships {
		otherID := ""
		switch userID {
		case friendship.UserAID:
			otherID = friendship.UserBID
		case friendship.UserBID:
			otherID = friendship.UserAID
		default:
			continue
		}
		if friend, ok := r.users.users[otherID]; ok {
			friends = append(friends, friend)
		}
	}
	return friends, nil
}

type memoryNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]*domain.Notification
}

func newMemoryNotificationRepo() *memoryNotificationRepo {
	return &memoryNotificationRepo{notifications: make(map[string]*domain.Notification)}
}

func (r *memoryNotificationRepo) CreateNotification(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications[n.ID] = n
	return nil
}

func (r *memoryNotificationRepo) ListNotifications(ctx context.Context, userID string) ([]*domain.NotificationItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*domain.NotificationItem
	for _, n := range r.notifications {
		if n.UserID == userID {
			items = append(items, &domain.NotificationItem{
				ID:        n.ID,
				Type:      n.Type,
				Read:      n.Read,
				CreatedAt: n.CreatedAt,
			})
		}
	}
	return items, nil
}

func (r *memoryNotificationRepo) GetNotification(ctx context.Context, notificationID string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[notificationID]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	return n, nil
}

func (r *memoryNotificationRepo) MarkRead(ctx context.Context, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[notificationID]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

func (r *memoryNotificationRepo) PurgeRead(ctx context.Context, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	for id, n := range r.notifications {
		if n.Read && n.CreatedAt.Before(olderThan) {
			delete(r.notifications, id)
			purged++
		}
	}
	return purged, nil
}

type memoryMatchRepo struct {
	mu      sync.Mutex
	matches map[string]*domain.Match
	moves   map[string][]*domain.Move
}

func newMemoryMatchRepo() *memoryMatchRepo {
	return &memoryMatchRepo{
		matches: make(map[string]*domain.Match),
		moves:   make(map[string][]*domain.Move),
	}
}

func (r *memoryMatchRepo) CreateMatch(ctx context.Context, match *domain.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[match.ID] = match
	return nil
}

func (r *memoryMatchRepo) GetMatch(ctx context.Context, matchID string) (*domain.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.matches[matchID]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	return match, nil
}

func (r *memoryMatchRepo) UpdateMatch(ctx context.Context, match *domain.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[match.ID]; !ok {
		return domain.ErrMatchNotFound
	}
	r.matches[match.ID] = match
	return nil
}

func (r *memoryMatchRepo) ListMatchesForUser(ctx context.Context, userID string, status domain.MatchStatus, limit int) ([]*domain.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matches []*domain.Match
	for _, match := range r.matches {
		if match.PlayerXID != userID && (match.PlayerOID == nil || *match.PlayerOID != userID) {
			continue
		}
		if status != "" && match.Status != status {
			continue
		}
		matches = append(matches, match)
		if limit > 0 && len(matches) == limit {
			break
		}
	}
	return matches, nil
}

func (r *memoryMatchRepo) AbandonStaleWaiting(ctx context.Context, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var abandoned int64
	for _, match := range r.matches {
		if match.Status == domain.MatchWaiting && match.CreatedAt.Before(olderThan) {
			match.Status = domain.MatchAbandoned
			abandoned++
		}
	}
	return abandoned, nil
}

func (r *memoryMatchRepo) CreateMove(ctx context.Context, move *domain.Move) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves[move.MatchID] = append(r.moves[move.MatchID], move)
	return nil
}

func (r *memoryMatchRepo) ListMoves(ctx context.Context, matchID string) ([]*domain.Move, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Move(nil), r.moves[matchID]...), nil
}

type statsCall struct {
	userID string
	wins   int
	losses int
	draws  int
}

type memoryStatsRepo struct {
	mu        sync.Mutex
	userCalls []statsCall
	pairCalls []statsCall
}

func (r *memoryStatsRepo) RecordUserResult(ctx context.Context, userID, gameType string, wins, losses, draws int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userCalls = append(r.userCalls, statsCall{userID: userID, wins: wins, losses: losses, draws: draws})
	return nil
}

func (r *memoryStatsRepo) RecordPairResult(ctx context.Context, userAID, userBID, gameType string, winsA, winsB, draws int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairCalls = append(r.pairCalls, statsCall{userID: pairKey(userAID, userBID), wins: winsA, losses: winsB, draws: draws})
	return nil
}

func (r *memoryStatsRepo) Leaderboard(ctx context.Context, gameType string, limit int) ([]*domain.LeaderboardEntry, error) {
	return nil, nil
}

// recordingNotifier captures every live push per target user.
type recordingNotifier struct {
	mu     sync.Mutex
	events map[string][]interface{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(map[string][]interface{})}
}

func (n *recordingNotifier) NotifyUser(ctx context.Context, userID string, payload interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[userID] = append(n.events[userID], payload)
	return nil
}

func (n *recordingNotifier) eventsFor(userID string) []interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]interface{}(nil), n.events[userID]...)
}
