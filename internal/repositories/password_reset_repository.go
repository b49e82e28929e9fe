package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dong279/mumu-express/internal/models"
)

type PasswordResetRepository interface {
	Create(userID int, token string, expiresAt time.Time) (*models.PasswordReset, error)
	InvalidateUnusedForUser(userID int) error
	GetByToken(token string) (*models.PasswordReset, error)
	MarkUsed(id int64) error
}

type passwordResetRepository struct {
	DB *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &passwordResetRepository{DB: db}
}

func (r *passwordResetRepository) Create(userID int, token string, expiresAt time.Time) (*models.PasswordReset, error) {
	const q = `
		INSERT INTO password_resets (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING password_reset_id, created_at
	`
	pr := &models.PasswordReset{UserID: userID, Token: token, ExpiresAt: expiresAt}
	if err := r.DB.QueryRow(q, userID, token, expiresAt).Scan(&pr.PasswordResetID, &pr.CreatedAt); err != nil {
		return nil, fmt.Errorf("create password reset: %w", err)
	}
	return pr, nil
}

// InvalidateUnusedForUser — новый токен гасит все прежние неиспользованные.
func (r *passwordResetRepository) InvalidateUnusedForUser(userID int) error {
	const q = `
		UPDATE password_resets SET used_at = NOW()
		WHERE user_id = $1 AND used_at IS NULL
	`
	if _, err := r.DB.Exec(q, userID); err != nil {
		return fmt.Errorf("invalidate password resets: %w", err)
	}
	return nil
}

func (r *passwordResetRepository) GetByToken(token string) (*models.PasswordReset, error) {
	const q = `
		SELECT password_reset_id, user_id, token, expires_at, used_at, created_at
		FROM password_resets
		WHERE token = $1
	`
	pr := &models.PasswordReset{}
	var usedAt sql.NullTime
	err := r.DB.QueryRow(q, token).Scan(&pr.PasswordResetID, &pr.UserID, &pr.Token, &pr.ExpiresAt, &usedAt, &pr.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get password reset: %w", err)
	}
	if usedAt.Valid {
		pr.UsedAt = &usedAt.Time
	}
	return pr, nil
}

func (r *passwordResetRepository) MarkUsed(id int64) error {
	if _, err := r.DB.Exec(`UPDATE password_resets SET used_at = NOW() WHERE password_reset_id = $1`, id); err != nil {
		return fmt.Errorf("mark password reset used: %w", err)
	}
	return nil
}
