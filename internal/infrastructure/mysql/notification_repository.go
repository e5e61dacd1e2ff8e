package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gamehub/internal/domain"
)

type MySQLNotificationRepository struct {
	db *sql.DB
}

func NewMySQLNotificationRepository(db *sql.DB) *MySQLNotificationRepository {
	return &MySQLNotificationRepository{db: db}
}

func (r *MySQLNotificationRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	query := `
        INSERT INTO notifications (id, user_id, type, friend_invite_id, match_id, is_read, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.UserID, string(n.Type), n.FriendInviteID, n.MatchID,
		n.Read, n.CreatedAt)
	return err
}

func (r *MySQLNotificationRepository) GetNotification(ctx context.Context, notificationID string) (*domain.Notification, error) {
	query := `
        SELECT id, user_id, type, friend_invite_id, match_id, is_read, created_at
        FROM notifications WHERE id = ?
    `

	var n domain.Notification
	var notificationType string

	err := r.db.QueryRowContext(ctx, query, notificationID).Scan(
		&n.ID, &n.UserID, &notificationType, &n.FriendInviteID, &n.MatchID,
		&n.Read, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}

	n.Type = domain.NotificationType(notificationType)
	return &n, nil
}

// ListNotifications returns the user's notifications newest first, each
// joined with whatever the client needs to render it: the invite and its
// sender, or the match and its initiator.
func (r *MySQLNotificationRepository) ListNotifications(ctx context.Context, userID string) ([]*domain.NotificationItem, error) {
	query := `
        SELECT n.id, n.type, n.is_read, n.created_at,
               fi.id, fi.status, fu.id, fu.username,
               m.id, m.game_type, xu.id, xu.username
        FROM notifications n
        LEFT JOIN friend_invites fi ON fi.id = n.friend_invite_id
        LEFT JOIN users fu ON fu.id = fi.from_user_id
        LEFT JOIN matches m ON m.id = n.match_id
        LEFT JOIN users xu ON xu.id = m.player_x_id
        WHERE n.user_id = ?
        ORDER BY n.created_at DESC
    `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.NotificationItem
	for rows.Next() {
		var item domain.NotificationItem
		var notificationType string
		var inviteID, inviteStatus, fromID, fromUsername sql.NullString
		var matchID, gameType, xID, xUsername sql.NullString

		err := rows.Scan(&item.ID, &notificationType, &item.Read, &item.CreatedAt,
			&inviteID, &inviteStatus, &fromID, &fromUsername,
			&matchID, &gameType, &xID, &xUsername)
		if err != nil {
			return nil, err
		}

		item.Type = domain.NotificationType(notificationType)
		if inviteID.Valid {
			item.FriendInvite = &domain.InviteDetails{
				ID:     inviteID.String,
				Status: domain.InviteStatus(inviteStatus.String),
				FromUser: domain.PublicUser{
					ID:       fromID.String,
					Username: fromUsername.String,
				},
			}
		}
		if item.Type == domain.NotificationGameInvite && matchID.Valid {
			item.GameInvite = &domain.GameInviteDetail{
				MatchID:  matchID.String,
				GameType: gameType.String,
				FromUser: domain.PublicUser{
					ID:       xID.String,
					Username: xUsername.String,
				},
			}
		}

		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *MySQLNotificationRepository) MarkRead(ctx context.Context, notificationID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, notificationID)
	return err
}

func (r *MySQLNotificationRepository) PurgeRead(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM notifications WHERE is_read = TRUE AND created_at < ?`
	result, err := r.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
