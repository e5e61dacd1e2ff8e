package mysql

import (
	"context"
	"database/sql"
	"errors"

	"gamehub/internal/domain"
)

type MySQLFriendRepository struct {
	db *sql.DB
}

func NewMySQLFriendRepository(db *sql.DB) *MySQLFriendRepository {
	return &MySQLFriendRepository{db: db}
}

func (r *MySQLFriendRepository) CreateInvite(ctx context.Context, invite *domain.FriendInvite) error {
	query := `
        INSERT INTO friend_invites (id, from_user_id, to_user_id, status, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		invite.ID, invite.FromUserID, invite.ToUserID,
		string(invite.Status), invite.CreatedAt)
	return err
}

func (r *MySQLFriendRepository) GetInvite(ctx context.Context, inviteID string) (*domain.FriendInvite, error) {
	query := `
        SELECT id, from_user_id, to_user_id, status, created_at
        FROM friend_invites WHERE id = ?
    `
	return r.scanInvite(r.db.QueryRowContext(ctx, query, inviteID))
}

// GetInviteBetween finds the invite for a pair in either direction, so a
// pending invite cannot be duplicated from the other side.
func (r *MySQLFriendRepository) GetInviteBetween(ctx context.Context, fromUserID, toUserID string) (*domain.FriendInvite, error) {
	query := `
        SELECT id, from_user_id, to_user_id, status, created_at
        FROM friend_invites
        WHERE (from_user_id = ? AND to_user_id = ?)
           OR (from_user_id = ? AND to_user_id = ?)
    `
	return r.scanInvite(r.db.QueryRowContext(ctx, query, fromUserID, toUserID, toUserID, fromUserID))
}

func (r *MySQLFriendRepository) scanInvite(row *sql.Row) (*domain.FriendInvite, error) {
	var invite domain.FriendInvite
	var status string

	err := row.Scan(&invite.ID, &invite.FromUserID, &invite.ToUserID,
		&status, &invite.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, err
	}

	invite.Status = domain.InviteStatus(status)
	return &invite, nil
}

func (r *MySQLFriendRepository) UpdateInviteStatus(ctx context.Context, inviteID string, status domain.InviteStatus) error {
	query := `UPDATE friend_invites SET status = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, string(status), inviteID)
	return err
}

func (r *MySQLFriendRepository) ListPendingInvites(ctx context.Context, toUserID string) ([]*domain.PendingInvite, error) {
	query := `
        SELECT i.id, u.id, u.username, i.created_at
        FROM friend_invites i
        JOIN users u ON u.id = i.from_user_id
        WHERE i.to_user_id = ? AND i.status = 'pending'
        ORDER BY i.created_at DESC
    `

	rows, err := r.db.QueryContext(ctx, query, toUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []*domain.PendingInvite
	for rows.Next() {
		var invite domain.PendingInvite
		err := rows.Scan(&invite.ID, &invite.FromUser.ID, &invite.FromUser.Username,
			&invite.CreatedAt)
		if err != nil {
			return nil, err
		}
		invites = append(invites, &invite)
	}

	return invites, rows.Err()
}

func (r *MySQLFriendRepository) CreateFriendship(ctx context.Context, friendship *domain.Friendship) error {
	// INSERT IGNORE keeps accept idempotent when the friendship row
	// already exists for the sorted pair.
	query := `
        INSERT IGNORE INTO friendships (id, user_a_id, user_b_id, created_at)
        VALUES (?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		friendship.ID, friendship.UserAID, friendship.UserBID, friendship.CreatedAt)
	return err
}

func (r *MySQLFriendRepository) GetFriendship(ctx context.Context, userAID, userBID string) (*domain.Friendship, error) {
	query := `
        SELECT id, user_a_id, user_b_id, created_at
        FROM friendships WHERE user_a_id = ? AND user_b_id = ?
    `

	var friendship domain.Friendship
	err := r.db.QueryRowContext(ctx, query, userAID, userBID).Scan(
		&friendship.ID, &friendship.UserAID, &friendship.UserBID, &friendship.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFriends
		}
		return nil, err
	}

	return &friendship, nil
}

func (r *MySQLFriendRepository) DeleteFriendship(ctx context.Context, userAID, userBID string) error {
	query := `DELETE FROM friendships WHERE user_a_id = ? AND user_b_id = ?`
	_, err := r.db.ExecContext(ctx, query, userAID, userBID)
	return err
}

func (r *MySQLFriendRepository) ListFriends(ctx context.Context, userID string) ([]*domain.User, error) {
	query := `
        SELECT u.id, u.email, u.username, u.password_hash, u.created_at, u.updated_at
        FROM friendships f
        JOIN users u ON u.id = IF(f.user_a_id = ?, f.user_b_id, f.user_a_id)
        WHERE f.user_a_id = ? OR f.user_b_id = ?
        ORDER BY u.username ASC
    `

	rows, err := r.db.QueryContext(ctx, query, userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []*domain.User
	for rows.Next() {
		var user domain.User
		err := rows.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash,
			&user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return nil, err
		}
		friends = append(friends, &user)
	}

	return friends, rows.Err()
}
