package mysql

import (
	"context"
	"database/sql"
	"time"

	"gamehub/internal/domain"
)

type MySQLStatsRepository struct {
	db *sql.DB
}

func NewMySQLStatsRepository(db *sql.DB) *MySQLStatsRepository {
	return &MySQLStatsRepository{db: db}
}

func (r *MySQLStatsRepository) RecordUserResult(ctx context.Context, userID, gameType string, wins, losses, draws int) error {
	query := `
        INSERT INTO user_game_stats (user_id, game_type, wins, losses, draws, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE
            wins = wins + VALUES(wins),
            losses = losses + VALUES(losses),
            draws = draws + VALUES(draws),
            updated_at = VALUES(updated_at)
    `
	_, err := r.db.ExecContext(ctx, query, userID, gameType, wins, losses, draws, time.Now())
	return err
}

func (r *MySQLStatsRepository) RecordPairResult(ctx context.Context, userAID, userBID, gameType string, winsA, winsB, draws int) error {
	query := `
        INSERT INTO friend_game_records (user_a_id, user_b_id, game_type, wins_a, wins_b, draws, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE
            wins_a = wins_a + VALUES(wins_a),
            wins_b = wins_b + VALUES(wins_b),
            draws = draws + VALUES(draws),
            updated_at = VALUES(updated_at)
    `
	_, err := r.db.ExecContext(ctx, query, userAID, userBID, gameType, winsA, winsB, draws, time.Now())
	return err
}

func (r *MySQLStatsRepository) Leaderboard(ctx context.Context, gameType string, limit int) ([]*domain.LeaderboardEntry, error) {
	query := `
        SELECT u.id, u.username, s.wins, s.draws
        FROM user_game_stats s
        JOIN users u ON u.id = s.user_id
        WHERE s.game_type = ?
        ORDER BY s.wins DESC, s.draws DESC
        LIMIT ?
    `

	rows, err := r.db.QueryContext(ctx, query, gameType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LeaderboardEntry
	for rows.Next() {
		var entry domain.LeaderboardEntry
		err := rows.Scan(&entry.User.ID, &entry.User.Username, &entry.Wins, &entry.Draws)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
