package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gamehub/internal/domain"
	"gamehub/pkg/logger"
)

type matchFixture struct {
	users    *memoryUserRepo
	friends  *memoryFriendRepo
	matches  *memoryMatchRepo
	stats    *memoryStatsRepo
	notifier *recordingNotifier
	service  *MatchService
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()

	users := newMemoryUserRepo()
	friends := newMemoryFriendRepo(users)
	matches := newMemoryMatchRepo()
	stats := &memoryStatsRepo{}
	notifications := newMemoryNotificationRepo()
	notifier := newRecordingNotifier()

	return &matchFixture{
		users:    users,
		friends:  friends,
		matches:  matches,
		stats:    stats,
		notifier: notifier,
		service:  NewMatchService(matches, friends, users, stats, notifications, notifier, logger.NewNop()),
	}
}

func (f *matchFixture) addUser(t *testing.T, id, username string) {
	t.Helper()
	err := f.users.CreateUser(context.Background(), &domain.User{
		ID:       id,
		Email:    username + "@example.com",
		Username: username,
	})
	require.NoError(t, err)
}

func (f *matchFixture) befriend(t *testing.T, a, b string) {
	t.Helper()
	userAID, userBID := sortPair(a, b)
	err := f.friends.CreateFriendship(context.Background(), &domain.Friendship{
		ID:        "friendship_" + userAID + userBID,
		UserAID:   userAID,
		UserBID:   userBID,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

// startedMatch creates an open match as alice and joins it as bob.
func (f *matchFixture) startedMatch(t *testing.T) *domain.Match {
	t.Helper()
	ctx := context.Background()

	match, err := f.service.CreateMatch(ctx, "alice", "")
	require.NoError(t, err)

	match, err = f.service.JoinMatch(ctx, match.ID, "bob")
	require.NoError(t, err)
	require.Equal(t, domain.MatchInProgress, match.Status)
	return match
}

func TestCreateOpenMatch(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")

	match, err := f.service.CreateMatch(context.Background(), "alice", "")
	require.NoError(t, err)
	require.Equal(t, domain.MatchWaiting, match.Status)
	require.Equal(t, "alice", match.PlayerXID)
	require.Nil(t, match.PlayerOID)
}

func TestDirectChallengeRequiresFriendship(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")
	f.addUser(t, "bob", "bob")

	_, err := f.service.CreateMatch(context.Background(), "alice", "bob")
	require.ErrorIs(t, err, domain.ErrNotFriends)
}

func TestDirectChallengeNotifiesOpponent(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")
	f.addUser(t, "bob", "bob")
	f.befriend(t, "alice", "bob")

	match, err := f.service.CreateMatch(context.Background(), "alice", "bob")
	require.NoError(t, err)
	require.NotNil(t, match.PlayerOID)
	require.Equal(t, "bob", *match.PlayerOID)

	events := f.notifier.eventsFor("bob")
	require.Len(t, events, 1)
	invite, ok := events[0].(domain.GameInviteEvent)
	require.True(t, ok)
	require.Equal(t, match.ID, invite.MatchID)
	require.Equal(t, "alice", invite.FromUser.ID)
}

func TestCreatorCannotJoinOwnMatch(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")

	match, err := f.service.CreateMatch(context.Background(), "alice", "")
	require.NoError(t, err)

	_, err = f.service.JoinMatch(context.Background(), match.ID, "alice")
	require.ErrorIs(t, err, domain.ErrMatchNotJoinable)
}

func TestDirectChallengeOnlyJoinableByTarget(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")
	f.addUser(t, "bob", "bob")
	f.addUser(t, "carol", "carol")
	f.befriend(t, "alice", "bob")

	match, err := f.service.CreateMatch(context.Background(), "alice", "bob")
	require.NoError(t, err)

	_, err = f.service.JoinMatch(context.Background(), match.ID, "carol")
	require.ErrorIs(t, err, domain.ErrMatchNotJoinable)

	_, err = f.service.JoinMatch(context.Background(), match.ID, "bob")
	require.NoError(t, err)
}

func TestJoinNotifiesCreator(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")
	f.addUser(t, "bob", "bob")

	match := f.startedMatch(t)

	events := f.notifier.eventsFor("alice")
	require.Len(t, events, 1)
	started, ok := events[0].(domain.MatchStartedEvent)
	require.True(t, ok)
	require.Equal(t, match.ID, started.MatchID)
	require.Equal(t, "bob", started.Opponent.ID)
}

func TestPlayMoveEnforcesTurnOrder(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")
	f.addUser(t, "bob", "bob")
	match := f.startedMatch(t)
	ctx := context.Background()

	// X opens; O cannot go first.
	_, err := f.service.PlayMove(ctx, match.ID, "bob", 0)
	require.ErrorIs(t, err, domain.ErrNotYourTurn)

	_, err = f.service.PlayMove(ctx, match.ID, "alice", 0)
	require.NoError(t, err)

	_, err = f.service.PlayMove(ctx, match.ID, "alice", 1)
	require.ErrorIs(t, err, domain.ErrNotYourTurn)
}

func TestPlayMoveRejectsOccupiedCell(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")
	f.addUser(t, "bob", "bob")
	match := f.startedMatch(t)
	ctx := context.Background()

	_, err := f.service.PlayMove(ctx, match.ID, "alice", 4)
	require.NoError(t, err)

	_, err = f.service.PlayMove(ctx, match.ID, "bob", 4)
	require.ErrorIs(t, err, domain.ErrCellOccupied)
}

func TestPlayMoveRejectsOutOfRangePosition(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")
	f.addUser(t, "bob", "bob")
	match := f.startedMatch(t)
	ctx := context.Background()

	_, err := f.service.PlayMove(ctx, match.ID, "alice", 9)
	require.ErrorIs(t, err, domain.ErrInvalidPosition)

	_, err = f.service.PlayMove(ctx, match.ID, "alice", -1)
	require.ErrorIs(t, err, domain.ErrInvalidPosition)
}

func TestPlayMoveRejectsNonParticipant(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")
	f.addUser(t, "bob", "bob")
	f.addUser(t, "carol", "carol")
	match := f.startedMatch(t)

	_, err := f.service.PlayMove(context.Background(), match.ID, "carol", 0)
	require.ErrorIs(t, err, domain.ErrNotYourMatch)
}

func TestWinningLineFinishesMatch(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")
	f.addUser(t, "bob", "bob")
	match := f.startedMatch(t)
	ctx := context.Background()

	// alice takes the top row.
	plays := []struct {
		player   string
		position int
	}{
		{"alice", 0}, {"bob", 3}, {"alice", 1}, {"bob", 4}, {"alice", 2},
	}
	for _, p := range plays {
		_, err := f.service.PlayMove(ctx, match.ID, p.player, p.position)
		require.NoError(t, err)
	}

	stored, err := f.matches.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MatchFinished, stored.Status)
	require.NotNil(t, stored.WinnerID)
	require.Equal(t, "alice", *stored.WinnerID)
	require.NotNil(t, stored.FinishedAt)

	// Both participants hear about the result.
	for _, userID := range []string{"alice", "bob"} {
		events := f.notifier.eventsFor(userID)
		finished, ok := events[len(events)-1].(domain.MatchFinishedEvent)
		require.True(t, ok)
		require.False(t, finished.Draw)
		require.Equal(t, "alice", *finished.WinnerID)
	}

	require.Len(t, f.stats.userCalls, 2)
	require.Len(t, f.stats.pairCalls, 1)
}

func TestFullBoardWithoutLineIsDraw(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")
	f.addUser(t, "bob", "bob")
	match := f.startedMatch(t)
	ctx := context.Background()

	// X: 0 1 5 6 8, O: 2 3 4 7 — no completed line.
	plays := []struct {
		player   string
		position int
	}{
		{"alice", 0}, {"bob", 2}, {"alice", 1}, {"bob", 3}, {"alice", 5},
		{"bob", 4}, {"alice", 6}, {"bob", 7}, {"alice", 8},
	}
	for _, p := range plays {
		_, err := f.service.PlayMove(ctx, match.ID, p.player, p.position)
		require.NoError(t, err)
	}

	stored, err := f.matches.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MatchFinished, stored.Status)
	require.Nil(t, stored.WinnerID)

	events := f.notifier.eventsFor("bob")
	finished, ok := events[len(events)-1].(domain.MatchFinishedEvent)
	require.True(t, ok)
	require.True(t, finished.Draw)
}

func TestMoveAfterFinishRejected(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")
	f.addUser(t, "bob", "bob")
	match := f.startedMatch(t)
	ctx := context.Background()

	plays := []struct {
		player   string
		position int
	}{
		{"alice", 0}, {"bob", 3}, {"alice", 1}, {"bob", 4}, {"alice", 2},
	}
	for _, p := range plays {
		_, err := f.service.PlayMove(ctx, match.ID, p.player, p.position)
		require.NoError(t, err)
	}

	_, err := f.service.PlayMove(ctx, match.ID, "bob", 5)
	require.ErrorIs(t, err, domain.ErrMatchNotActive)
}

func TestForfeitAwardsOpponent(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")
	f.addUser(t, "bob", "bob")
	match := f.startedMatch(t)
	ctx := context.Background()

	_, err := f.service.Forfeit(ctx, match.ID, "alice")
	require.NoError(t, err)

	stored, err := f.matches.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MatchFinished, stored.Status)
	require.NotNil(t, stored.WinnerID)
	require.Equal(t, "bob", *stored.WinnerID)
}

func TestForfeitRequiresActiveMatch(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")

	match, err := f.service.CreateMatch(context.Background(), "alice", "")
	require.NoError(t, err)

	_, err = f.service.Forfeit(context.Background(), match.ID, "alice")
	require.ErrorIs(t, err, domain.ErrMatchNotActive)
}

func TestGetMatchHiddenFromOutsiders(t *testing.T) {
	f := newMatchFixture(t)
	f.addUser(t, "alice", "alice")
	f.addUser(t, "bob", "bob")
	f.addUser(t, "carol", "carol")
	match := f.startedMatch(t)

	_, _, err := f.service.GetMatch(context.Background(), match.ID, "carol")
	require.ErrorIs(t, err, domain.ErrNotYourMatch)

	_, moves, err := f.service.GetMatch(context.Background(), match.ID, "alice")
	require.NoError(t, err)
	require.Empty(t, moves)
}
