package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gamehub/internal/domain"
)

type MySQLMatchRepository struct {
	db *sql.DB
}

func NewMySQLMatchRepository(db *sql.DB) *MySQLMatchRepository {
	return &MySQLMatchRepository{db: db}
}

func (r *MySQLMatchRepository) CreateMatch(ctx context.Context, match *domain.Match) error {
	query := `
        INSERT INTO matches (id, game_type, player_x_id, player_o_id, status, winner_id, created_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		match.ID, match.GameType, match.PlayerXID, match.PlayerOID,
		string(match.Status), match.WinnerID, match.CreatedAt, match.FinishedAt)
	return err
}

func (r *MySQLMatchRepository) GetMatch(ctx context.Context, matchID string) (*domain.Match, error) {
	query := `
        SELECT id, game_type, player_x_id, player_o_id, status, winner_id, created_at, finished_at
        FROM matches WHERE id = ?
    `

	var match domain.Match
	var status string

	err := r.db.QueryRowContext(ctx, query, matchID).Scan(
		&match.ID, &match.GameType, &match.PlayerXID, &match.PlayerOID,
		&status, &match.WinnerID, &match.CreatedAt, &match.FinishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}

	match.Status = domain.MatchStatus(status)
	return &match, nil
}

func (r *MySQLMatchRepository) UpdateMatch(ctx context.Context, match *domain.Match) error {
	query := `
        UPDATE matches
        SET player_o_id = ?, status = ?, winner_id = ?, finished_at = ?
        WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query,
		match.PlayerOID, string(match.Status), match.WinnerID, match.FinishedAt, match.ID)
	return err
}

func (r *MySQLMatchRepository) ListMatchesForUser(ctx context.Context, userID string, status domain.MatchStatus, limit int) ([]*domain.Match, error) {
	query := `
        SELECT id, game_type, player_x_id, player_o_id, status, winner_id, created_at, finished_at
        FROM matches
        WHERE (player_x_id = ? OR player_o_id = ?)
    `
	args := []interface{}{userID, userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*domain.Match
	for rows.Next() {
		var match domain.Match
		var matchStatus string

		err := rows.Scan(&match.ID, &match.GameType, &match.PlayerXID, &match.PlayerOID,
			&matchStatus, &match.WinnerID, &match.CreatedAt, &match.FinishedAt)
		if err != nil {
			return nil, err
		}

		match.Status = domain.MatchStatus(matchStatus)
		matches = append(matches, &match)
	}

	return matches, rows.Err()
}

func (r *MySQLMatchRepository) AbandonStaleWaiting(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `UPDATE matches SET status = 'abandoned' WHERE status = 'waiting' AND created_at < ?`
	result, err := r.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *MySQLMatchRepository) CreateMove(ctx context.Context, move *domain.Move) error {
	query := `
        INSERT INTO moves (id, match_id, player_id, position, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		move.ID, move.MatchID, move.PlayerID, move.Position, move.CreatedAt)
	return err
}

func (r *MySQLMatchRepository) ListMoves(ctx context.Context, matchID string) ([]*domain.Move, error) {
	query := `
        SELECT id, match_id, player_id, position, created_at
        FROM moves WHERE match_id = ?
        ORDER BY created_at ASC
    `

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moves []*domain.Move
	for rows.Next() {
		var move domain.Move
		err := rows.Scan(&move.ID, &move.MatchID, &move.PlayerID, &move.Position, &move.CreatedAt)
		if err != nil {
			return nil, err
		}
		moves = append(moves, &move)
	}

	return moves, rows.Err()
}
