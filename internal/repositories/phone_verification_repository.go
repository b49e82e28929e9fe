package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dong279/mumu-express/internal/models"
)

type PhoneVerificationRepository interface {
	Create(phone, code string, expiresAt time.Time) (int64, error)
	HasRecent(phone string, since time.Time) (bool, error)
	GetLatestUsable(phone string) (*models.PhoneVerification, error)
	IncrementAttempts(id int64) (int, error)
	MarkVerified(id int64) error
	Invalidate(id int64) error
}

type phoneVerificationRepository struct {
	DB *sql.DB
}

func NewPhoneVerificationRepository(db *sql.DB) PhoneVerificationRepository {
	return &phoneVerificationRepository{DB: db}
}

// Create — каждая отправка кода создаёт новую строку.
func (r *phoneVerificationRepository) Create(phone, code string, expiresAt time.Time) (int64, error) {
	const q = `
		INSERT INTO phone_verifications (phone, code, expires_at)
		VALUES ($1, $2, $3)
		RETURNING phone_verification_id
	`
	var id int64
	if err := r.DB.QueryRow(q, phone, code, expiresAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("create phone verification: %w", err)
	}
	return id, nil
}

// HasRecent — была ли отправка на этот номер после since (кулдаун 1 минута).
func (r *phoneVerificationRepository) HasRecent(phone string, since time.Time) (bool, error) {
	const q = `
		SELECT EXISTS(
			SELECT 1 FROM phone_verifications
			WHERE phone = $1 AND created_at > $2
		)
	`
	var exists bool
	if err := r.DB.QueryRow(q, phone, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("check recent verification: %w", err)
	}
	return exists, nil
}

// GetLatestUsable — последняя неподтверждённая и непросроченная запись.
func (r *phoneVerificationRepository) GetLatestUsable(phone string) (*models.PhoneVerification, error) {
	const q = `
		SELECT phone_verification_id, phone, code, attempts, verified, verified_at, expires_at, created_at
		FROM phone_verifications
		WHERE phone = $1 AND verified = FALSE AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.DB.QueryRow(q, phone)

	var v models.PhoneVerification
	var verifiedAt sql.NullTime
	err := row.Scan(&v.PhoneVerificationID, &v.Phone, &v.Code, &v.Attempts, &v.Verified, &verifiedAt, &v.ExpiresAt, &v.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest verification: %w", err)
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		v.VerifiedAt = &t
	}
	return &v, nil
}

func (r *phoneVerificationRepository) IncrementAttempts(id int64) (int, error) {
	const q = `
		UPDATE phone_verifications
		SET attempts = attempts + 1
		WHERE phone_verification_id = $1
		RETURNING attempts
	`
	var attempts int
	if err := r.DB.QueryRow(q, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("increment attempts: %w", err)
	}
	return attempts, nil
}

func (r *phoneVerificationRepository) MarkVerified(id int64) error {
	const q = `
		UPDATE phone_verifications
		SET verified = TRUE, verified_at = NOW()
		WHERE phone_verification_id = $1
	`
	if _, err := r.DB.Exec(q, id); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// Invalidate — терминально гасим запись (исчерпаны попытки): ставим verified
// без verified_at, чтобы она больше не попадала в GetLatestUsable.
func (r *phoneVerificationRepository) Invalidate(id int64) error {
	if _, err := r.DB.Exec(`UPDATE phone_verifications SET verified = TRUE WHERE phone_verification_id = $1`, id); err != nil {
		return fmt.Errorf("invalidate verification: %w", err)
	}
	return nil
}
