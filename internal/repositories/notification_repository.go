package repositories

import (
	"database/sql"
	"fmt"

	"github.com/dong279/mumu-express/internal/models"
)

type NotificationRepository interface {
	Create(n *models.Notification) error
	List(userID, limit, offset int, unreadOnly bool) ([]*models.Notification, error)
	UnreadCount(userID int) (int, error)
	MarkRead(notificationID int64, userID int) (bool, error)
	MarkAllRead(userID int) (int64, error)
	Delete(notificationID int64, userID int) (bool, error)

	UpsertDeviceToken(t *models.DeviceToken) error
	DeactivateDeviceToken(userID int, fcmToken string) (bool, error)
	DeactivateTokenValue(fcmToken string) error
	ListActiveTokens(userID int) ([]*models.DeviceToken, error)
}

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) Create(n *models.Notification) error {
	const q = `
		INSERT INTO notifications (user_id, type, title, content, related_type, related_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING notification_id, created_at
	`
	var relatedID sql.NullInt64
	if n.RelatedID != nil {
		relatedID = sql.NullInt64{Int64: *n.RelatedID, Valid: true}
	}
	err := r.DB.QueryRow(q, n.UserID, n.Type, n.Title, n.Content, nullString(n.RelatedType), relatedID).
		Scan(&n.NotificationID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) List(userID, limit, offset int, unreadOnly bool) ([]*models.Notification, error) {
	q := `
		SELECT notification_id, user_id, type, title, content,
		       COALESCE(related_type, ''), related_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1`
	if unreadOnly {
		q += ` AND is_read = FALSE`
	}
	q += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.Query(q, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var res []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		var relatedID sql.NullInt64
		if err := rows.Scan(&n.NotificationID, &n.UserID, &n.Type, &n.Title, &n.Content,
			&n.RelatedType, &relatedID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if relatedID.Valid {
			v := relatedID.Int64
			n.RelatedID = &v
		}
		res = append(res, n)
	}
	return res, rows.Err()
}

func (r *notificationRepository) UnreadCount(userID int) (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(notificationID int64, userID int) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE notifications SET is_read = TRUE
		WHERE notification_id = $1 AND user_id = $2 AND is_read = FALSE
	`, notificationID, userID)
	if err != nil {
		return false, fmt.Errorf("mark read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *notificationRepository) MarkAllRead(userID int) (int64, error) {
	res, err := r.DB.Exec(`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *notificationRepository) Delete(notificationID int64, userID int) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM notifications WHERE notification_id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return false, fmt.Errorf("delete notification: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// UpsertDeviceToken — один токен может переезжать между пользователями
// (переустановка приложения, смена аккаунта), поэтому конфликт по
// fcm_token переписывает владельца и реактивирует запись.
func (r *notificationRepository) UpsertDeviceToken(t *models.DeviceToken) error {
	const q = `
		INSERT INTO user_device_tokens (user_id, device_type, fcm_token, device_name, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (fcm_token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			device_type = EXCLUDED.device_type,
			device_name = EXCLUDED.device_name,
			is_active = TRUE
		RETURNING device_token_id, created_at
	`
	err := r.DB.QueryRow(q, t.UserID, t.DeviceType, t.FCMToken, nullString(t.DeviceName)).
		Scan(&t.DeviceTokenID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert device token: %w", err)
	}
	t.IsActive = true
	return nil
}

func (r *notificationRepository) DeactivateDeviceToken(userID int, fcmToken string) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE user_device_tokens SET is_active = FALSE
		WHERE user_id = $1 AND fcm_token = $2 AND is_active = TRUE
	`, userID, fcmToken)
	if err != nil {
		return false, fmt.Errorf("deactivate device token: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeactivateTokenValue — гасит токен, который FCM признал мёртвым.
func (r *notificationRepository) DeactivateTokenValue(fcmToken string) error {
	if _, err := r.DB.Exec(`UPDATE user_device_tokens SET is_active = FALSE WHERE fcm_token = $1`, fcmToken); err != nil {
		return fmt.Errorf("deactivate token value: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListActiveTokens(userID int) ([]*models.DeviceToken, error) {
	const q = `
		SELECT device_token_id, user_id, device_type, fcm_token, COALESCE(device_name, ''), is_active, created_at
		FROM user_device_tokens
		WHERE user_id = $1 AND is_active = TRUE
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	defer rows.Close()

	var res []*models.DeviceToken
	for rows.Next() {
		t := &models.DeviceToken{}
		if err := rows.Scan(&t.DeviceTokenID, &t.UserID, &t.DeviceType, &t.FCMToken, &t.DeviceName, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan device token: %w", err)
		}
		res = append(res, t)
	}
	return res, rows.Err()
}
