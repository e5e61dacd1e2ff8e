package services

import (
	"context"
	"errors"
	"time"

	"gamehub/internal/domain"
	"gamehub/pkg/logger"
	"gamehub/pkg/utils"
)

type FriendService struct {
	friends       domain.FriendRepository
	users         domain.UserRepository
	notifications domain.NotificationRepository
	notifier      domain.UserNotifier
	log           logger.Logger
}

func NewFriendService(
	friends domain.FriendRepository,
	users domain.UserRepository,
	notifications domain.NotificationRepository,
	notifier domain.UserNotifier,
	log logger.Logger,
) *FriendService {
	return &FriendService{
		friends:       friends,
		users:         users,
		notifications: notifications,
		notifier:      notifier,
		log:           log,
	}
}

// sortPair orders two user ids so a friendship pair always has one
// canonical row.
func sortPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]domain.PublicUser, error) {
	users, err := s.friends.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		friends = append(friends, u.Public())
	}
	return friends, nil
}

func (s *FriendService) ListInvites(ctx context.Context, userID string) ([]*domain.PendingInvite, error) {
	return s.friends.ListPendingInvites(ctx, userID)
}

// Invite sends a friend invite to a target identified by username or
// user id. A previously rejected invite for the pair is re-opened.
func (s *FriendService) Invite(ctx context.Context, fromUserID, toUsername, toUserID string) (*domain.FriendInvite, *domain.User, error) {
	var target *domain.User
	var err error
	if toUserID != "" {
		target, err = s.users.GetUser(ctx, toUserID)
	} else {
		target, err = s.users.GetUserByUsername(ctx, toUsername)
	}
	if err != nil {
		return nil, nil, err
	}

	if target.ID == fromUserID {
		return nil, nil, domain.ErrSelfInvite
	}

	userAID, userBID := sortPair(fromUserID, target.ID)
	if _, err := s.friends.GetFriendship(ctx, userAID, userBID); err == nil {
		return nil, nil, domain.ErrAlreadyFriends
	} else if !errors.Is(err, domain.ErrNotFriends) {
		return nil, nil, err
	}

	invite, err := s.friends.GetInviteBetween(ctx, fromUserID, target.ID)
	switch {
	case err == nil && invite.Status == domain.InvitePending:
		return nil, nil, domain.ErrInviteAlreadySent
	case err == nil:
		// Re-open a previously processed invite for this pair.
		if err := s.friends.UpdateInviteStatus(ctx, invite.ID, domain.InvitePending); err != nil {
			return nil, nil, err
		}
		invite.Status = domain.InvitePending
	case errors.Is(err, domain.ErrInviteNotFound):
		invite = &domain.FriendInvite{
			ID:         utils.GenerateID("invite"),
			FromUserID: fromUserID,
			ToUserID:   target.ID,
			Status:     domain.InvitePending,
			CreatedAt:  time.Now(),
		}
		if err := s.friends.CreateInvite(ctx, invite); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, err
	}

	sender, err := s.users.GetUser(ctx, fromUserID)
	if err != nil {
		return nil, nil, err
	}

	// Persist first, then push: a failed push never loses the record.
	inviteID := invite.ID
	notification := &domain.Notification{
		ID:             utils.GenerateID("notif"),
		UserID:         target.ID,
		Type:           domain.NotificationFriendInvite,
		FriendInviteID: &inviteID,
		CreatedAt:      time.Now(),
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		s.log.Error("Failed to persist invite notification", "invite_id", invite.ID, "error", err)
	}

	s.notifier.NotifyUser(ctx, target.ID, domain.FriendInviteEvent{
		Type:     domain.EventFriendInvite,
		InviteID: invite.ID,
		FromUser: sender.Public(),
	})

	s.log.Info("Friend invite sent", "invite_id", invite.ID, "from", fromUserID, "to", target.ID)
	return invite, target, nil
}

// Accept turns a pending invite addressed to userID into a friendship
// and tells the inviter over the live channel.
func (s *FriendService) Accept(ctx context.Context, userID, inviteID string) (*domain.PublicUser, error) {
	invite, err := s.friends.GetInvite(ctx, inviteID)
	if err != nil || invite.ToUserID != userID {
		return nil, domain.ErrInviteNotFound
	}
	if invite.Status != domain.InvitePending {
		return nil, domain.ErrInviteProcessed
	}

	if err := s.friends.UpdateInviteStatus(ctx, inviteID, domain.InviteAccepted); err != nil {
		return nil, err
	}

	userAID, userBID := sortPair(invite.FromUserID, invite.ToUserID)
	friendship := &domain.Friendship{
		ID:        utils.GenerateID("friendship"),
		UserAID:   userAID,
		UserBID:   userBID,
		CreatedAt: time.Now(),
	}
	if err := s.friends.CreateFriendship(ctx, friendship); err != nil {
		return nil, err
	}

	inviter, err := s.users.GetUser(ctx, invite.FromUserID)
	if err != nil {
		return nil, err
	}
	accepter, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyUser(ctx, inviter.ID, domain.FriendAcceptedEvent{
		Type:   domain.EventFriendAccepted,
		Friend: accepter.Public(),
	})

	s.log.Info("Friend invite accepted", "invite_id", inviteID, "by", userID)
	friend := inviter.Public()
	return &friend, nil
}

func (s *FriendService) Reject(ctx context.Context, userID, inviteID string) error {
	invite, err := s.friends.GetInvite(ctx, inviteID)
	if err != nil || invite.ToUserID != userID {
		return domain.ErrInviteNotFound
	}
	if invite.Status != domain.InvitePending {
		return domain.ErrInviteProcessed
	}

	return s.friends.UpdateInviteStatus(ctx, inviteID, domain.InviteRejected)
}

// RemoveFriend deletes the friendship and tells the removed side so
// open clients can drop the entry.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	userAID, userBID := sortPair(userID, friendID)
	if _, err := s.friends.GetFriendship(ctx, userAID, userBID); err != nil {
		return err
	}

	if err := s.friends.DeleteFriendship(ctx, userAID, userBID); err != nil {
		return err
	}

	s.notifier.NotifyUser(ctx, friendID, domain.FriendRemovedEvent{
		Type:     domain.EventFriendRemoved,
		FriendID: userID,
	})

	s.log.Info("Friendship removed", "user_id", userID, "friend_id", friendID)
	return nil
}
