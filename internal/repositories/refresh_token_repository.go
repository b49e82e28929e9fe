package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dong279/mumu-express/internal/models"
)

// RefreshTokenWithOwner — живой токен вместе со статусом владельца;
// статус нужен, чтобы отличить 401 (нет токена) от 403 (аккаунт неактивен).
type RefreshTokenWithOwner struct {
	models.RefreshToken
	OwnerStatus string
}

type RefreshTokenRepository interface {
	Create(userID int, token, deviceType, deviceInfo string, expiresAt time.Time) (int64, error)
	GetLive(token string) (*RefreshTokenWithOwner, error)
	TouchLastUsed(refreshTokenID int64) error
	Revoke(token string) error
	RevokeAllForUser(userID int) error
}

type refreshTokenRepository struct {
	DB *sql.DB
}

func NewRefreshTokenRepository(db *sql.DB) RefreshTokenRepository {
	return &refreshTokenRepository{DB: db}
}

func (r *refreshTokenRepository) Create(userID int, token, deviceType, deviceInfo string, expiresAt time.Time) (int64, error) {
	const q = `
		INSERT INTO refresh_tokens (user_id, token, device_type, device_info, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING refresh_token_id
	`
	var id int64
	err := r.DB.QueryRow(q, userID, token, nullString(deviceType), nullString(deviceInfo), expiresAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create refresh token: %w", err)
	}
	return id, nil
}

// GetLive возвращает токен, который ещё можно использовать: не отозван,
// не истёк, владелец не удалён. Статус владельца проверяет сервис.
func (r *refreshTokenRepository) GetLive(token string) (*RefreshTokenWithOwner, error) {
	const q = `
		SELECT rt.refresh_token_id, rt.user_id, rt.token,
		       COALESCE(rt.device_type, ''), COALESCE(rt.device_info, ''),
		       rt.revoked, rt.expires_at, rt.last_used_at, rt.created_at,
		       u.status
		FROM refresh_tokens rt
		JOIN users u ON u.user_id = rt.user_id
		WHERE rt.token = $1 AND rt.revoked = FALSE AND rt.expires_at > NOW()
		  AND u.deleted_at IS NULL
	`
	row := r.DB.QueryRow(q, token)

	var rt RefreshTokenWithOwner
	var lastUsed sql.NullTime
	err := row.Scan(
		&rt.RefreshTokenID, &rt.UserID, &rt.Token,
		&rt.DeviceType, &rt.DeviceInfo,
		&rt.Revoked, &rt.ExpiresAt, &lastUsed, &rt.CreatedAt,
		&rt.OwnerStatus,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get live refresh token: %w", err)
	}
	if lastUsed.Valid {
		t := lastUsed.Time
		rt.LastUsedAt = &t
	}
	return &rt, nil
}

func (r *refreshTokenRepository) TouchLastUsed(refreshTokenID int64) error {
	_, err := r.DB.Exec(`UPDATE refresh_tokens SET last_used_at = NOW() WHERE refresh_token_id = $1`, refreshTokenID)
	return err
}

func (r *refreshTokenRepository) Revoke(token string) error {
	if _, err := r.DB.Exec(`UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) RevokeAllForUser(userID int) error {
	if _, err := r.DB.Exec(`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	return nil
}
