package services

import (
	"context"
	"errors"
	"time"

	"gamehub/internal/domain"
	"gamehub/pkg/logger"
	"gamehub/pkg/utils"
)

type MatchService struct {
	matches       domain.MatchRepository
	friends       domain.FriendRepository
	users         domain.UserRepository
	stats         domain.StatsRepository
	notifications domain.NotificationRepository
	notifier      domain.UserNotifier
	log           logger.Logger
}

func NewMatchService(
	matches domain.MatchRepository,
	friends domain.FriendRepository,
	users domain.UserRepository,
	stats domain.StatsRepository,
	notifications domain.NotificationRepository,
	notifier domain.UserNotifier,
	log logger.Logger,
) *MatchService {
	return &MatchService{
		matches:       matches,
		friends:       friends,
		users:         users,
		stats:         stats,
		notifications: notifications,
		notifier:      notifier,
		log:           log,
	}
}

// CreateMatch opens a tic-tac-toe match. With an opponent id the match is
// a direct challenge to a friend, who gets a durable game_invite
// notification plus a live event; without one it waits for anyone to join.
func (s *MatchService) CreateMatch(ctx context.Context, userID string, opponentID string) (*domain.Match, error) {
	match := &domain.Match{
		ID:        utils.GenerateID("match"),
		GameType:  domain.GameTypeTicTacToe,
		PlayerXID: userID,
		Status:    domain.MatchWaiting,
		CreatedAt: time.Now(),
	}

	if opponentID != "" {
		if opponentID == userID {
			return nil, domain.ErrSelfInvite
		}
		userAID, userBID := sortPair(userID, opponentID)
		if _, err := s.friends.GetFriendship(ctx, userAID, userBID); err != nil {
			return nil, err
		}
		match.PlayerOID = &opponentID
	}

	if err := s.matches.CreateMatch(ctx, match); err != nil {
		return nil, err
	}

	if opponentID != "" {
		creator, err := s.users.GetUser(ctx, userID)
		if err != nil {
			return nil, err
		}

		matchID := match.ID
		notification := &domain.Notification{
			ID:        utils.GenerateID("notif"),
			UserID:    opponentID,
			Type:      domain.NotificationGameInvite,
			MatchID:   &matchID,
			CreatedAt: time.Now(),
		}
		if err := s.notifications.CreateNotification(ctx, notification); err != nil {
			s.log.Error("Failed to persist game invite notification", "match_id", match.ID, "error", err)
		}

		s.notifier.NotifyUser(ctx, opponentID, domain.GameInviteEvent{
			Type:     domain.EventGameInvite,
			MatchID:  match.ID,
			FromUser: creator.Public(),
			GameType: match.GameType,
		})
	}

	s.log.Info("Match created", "match_id", match.ID, "player_x", userID, "opponent", opponentID)
	return match, nil
}

// JoinMatch seats userID as player O. A direct challenge can only be
// joined by the challenged friend; an open match by anyone but the creator.
func (s *MatchService) JoinMatch(ctx context.Context, matchID, userID string) (*domain.Match, error) {
	match, err := s.matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != domain.MatchWaiting {
		return nil, domain.ErrMatchNotJoinable
	}
	if match.PlayerXID == userID {
		return nil, domain.ErrMatchNotJoinable
	}
	if match.PlayerOID != nil && *match.PlayerOID != userID {
		return nil, domain.ErrMatchNotJoinable
	}

	match.PlayerOID = &userID
	match.Status = domain.MatchInProgress
	if err := s.matches.UpdateMatch(ctx, match); err != nil {
		return nil, err
	}

	joiner, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyUser(ctx, match.PlayerXID, domain.MatchStartedEvent{
		Type:     domain.EventMatchStarted,
		MatchID:  match.ID,
		Opponent: joiner.Public(),
	})

	s.log.Info("Match started", "match_id", match.ID, "player_o", userID)
	return match, nil
}

// PlayMove validates and records one move, finishing the match when it
// completes a line or fills the board.
func (s *MatchService) PlayMove(ctx context.Context, matchID, userID string, position int) (*domain.Match, error) {
	match, err := s.matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != domain.MatchInProgress {
		return nil, domain.ErrMatchNotActive
	}
	if !isParticipant(match, userID) {
		return nil, domain.ErrNotYourMatch
	}
	if position < 0 || position >= boardCells {
		return nil, domain.ErrInvalidPosition
	}

	moves, err := s.matches.ListMoves(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if nextPlayer(match, moves) != userID {
		return nil, domain.ErrNotYourTurn
	}

	board := buildBoard(moves)
	if board[position] != "" {
		return nil, domain.ErrCellOccupied
	}

	move := &domain.Move{
		ID:        utils.GenerateID("move"),
		MatchID:   matchID,
		PlayerID:  userID,
		Position:  position,
		CreatedAt: time.Now(),
	}
	if err := s.matches.CreateMove(ctx, move); err != nil {
		return nil, err
	}

	board[position] = userID
	moves = append(moves, move)

	switch {
	case winnerOn(board) == userID:
		if err := s.finishMatch(ctx, match, &userID); err != nil {
			return nil, err
		}
	case len(moves) == boardCells:
		if err := s.finishMatch(ctx, match, nil); err != nil {
			return nil, err
		}
	default:
		event := domain.MovePlayedEvent{
			Type:     domain.EventMovePlayed,
			MatchID:  matchID,
			PlayerID: userID,
			Position: position,
			NextTurn: nextPlayer(match, moves),
		}
		s.notifyParticipants(ctx, match, event)
	}

	return match, nil
}

// Forfeit ends an in-progress match, awarding the win to the opponent.
func (s *MatchService) Forfeit(ctx context.Context, matchID, userID string) (*domain.Match, error) {
	match, err := s.matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != domain.MatchInProgress {
		return nil, domain.ErrMatchNotActive
	}
	if !isParticipant(match, userID) {
		return nil, domain.ErrNotYourMatch
	}

	winnerID := match.PlayerXID
	if winnerID == userID && match.PlayerOID != nil {
		winnerID = *match.PlayerOID
	}

	if err := s.finishMatch(ctx, match, &winnerID); err != nil {
		return nil, err
	}

	s.log.Info("Match forfeited", "match_id", matchID, "by", userID)
	return match, nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID, userID string) (*domain.Match, []*domain.Move, error) {
	match, err := s.matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	if !isParticipant(match, userID) {
		return nil, nil, domain.ErrNotYourMatch
	}

	moves, err := s.matches.ListMoves(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	return match, moves, nil
}

func (s *MatchService) ListMatches(ctx context.Context, userID string, status domain.MatchStatus, limit int) ([]*domain.Match, error) {
	return s.matches.ListMatchesForUser(ctx, userID, status, limit)
}

func (s *MatchService) Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	return s.stats.Leaderboard(ctx, domain.GameTypeTicTacToe, limit)
}

func (s *MatchService) finishMatch(ctx context.Context, match *domain.Match, winnerID *string) error {
	now := time.Now()
	match.Status = domain.MatchFinished
	match.WinnerID = winnerID
	match.FinishedAt = &now

	if err := s.matches.UpdateMatch(ctx, match); err != nil {
		return err
	}

	if err := s.recordResult(ctx, match, winnerID); err != nil {
		// Stats are bookkeeping; the match result itself is committed.
		s.log.Error("Failed to record match result", "match_id", match.ID, "error", err)
	}

	s.notifyParticipants(ctx, match, domain.MatchFinishedEvent{
		Type:     domain.EventMatchFinished,
		MatchID:  match.ID,
		WinnerID: winnerID,
		Draw:     winnerID == nil,
	})

	s.log.Info("Match finished", "match_id", match.ID, "draw", winnerID == nil)
	return nil
}

func (s *MatchService) recordResult(ctx context.Context, match *domain.Match, winnerID *string) error {
	if match.PlayerOID == nil {
		return nil
	}
	playerX, playerO := match.PlayerXID, *match.PlayerOID

	var errs []error
	if winnerID == nil {
		errs = append(errs,
			s.stats.RecordUserResult(ctx, playerX, match.GameType, 0, 0, 1),
			s.stats.RecordUserResult(ctx, playerO, match.GameType, 0, 0, 1))
	} else {
		loserID := playerX
		if *winnerID == playerX {
			loserID = playerO
		}
		errs = append(errs,
			s.stats.RecordUserResult(ctx, *winnerID, match.GameType, 1, 0, 0),
			s.stats.RecordUserResult(ctx, loserID, match.GameType, 0, 1, 0))
	}

	userAID, userBID := sortPair(playerX, playerO)
	winsA, winsB, draws := 0, 0, 0
	switch {
	case winnerID == nil:
		draws = 1
	case *winnerID == userAID:
		winsA = 1
	default:
		winsB = 1
	}
	errs = append(errs, s.stats.RecordPairResult(ctx, userAID, userBID, match.GameType, winsA, winsB, draws))

	return errors.Join(errs...)
}

func (s *MatchService) notifyParticipants(ctx context.Context, match *domain.Match, event interface{}) {
	s.notifier.NotifyUser(ctx, match.PlayerXID, event)
	if match.PlayerOID != nil {
		s.notifier.NotifyUser(ctx, *match.PlayerOID, event)
	}
}

func isParticipant(match *domain.Match, userID string) bool {
	if match.PlayerXID == userID {
		return true
	}
	return match.PlayerOID != nil && *match.PlayerOID == userID
}
