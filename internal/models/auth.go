package models

import "time"

// RefreshToken — opaque-токен на устройство; у одного пользователя
// может быть несколько живых токенов одновременно.
type RefreshToken struct {
	RefreshTokenID int64      `json:"refresh_token_id"`
	UserID         int        `json:"user_id"`
	Token          string     `json:"-"`
	DeviceType     string     `json:"device_type,omitempty"`
	DeviceInfo     string     `json:"device_info,omitempty"`
	Revoked        bool       `json:"revoked"`
	ExpiresAt      time.Time  `json:"expires_at"`
	LastUsedAt     *time.Time `json:"last_used_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type PhoneVerification struct {
	PhoneVerificationID int64      `json:"phone_verification_id"`
	Phone               string     `json:"phone"`
	Code                string     `json:"-"`
	Attempts            int        `json:"attempts"`
	Verified            bool       `json:"verified"`
	VerifiedAt          *time.Time `json:"verified_at,omitempty"`
	ExpiresAt           time.Time  `json:"expires_at"`
	CreatedAt           time.Time  `json:"created_at"`
}

type PasswordReset struct {
	PasswordResetID int64      `json:"password_reset_id"`
	UserID          int        `json:"user_id"`
	Token           string     `json:"-"`
	ExpiresAt       time.Time  `json:"expires_at"`
	UsedAt          *time.Time `json:"used_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
