package models

import "time"

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

type User struct {
	UserID        int    `json:"user_id"`
	LoginID       string `json:"id"`
	PasswordHash  string `json:"-"` // наружу не отдаём
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	PhoneVerified bool   `json:"phone_verified"`
	Email         string `json:"email,omitempty"`
	ProfileImage  string `json:"profile_image,omitempty"`
	Address       string `json:"address,omitempty"`
	DetailAddress string `json:"detail_address,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	Role          string `json:"role"`
	Status        string `json:"status"`

	TermsAgreed     bool `json:"terms_agreed"`
	PrivacyAgreed   bool `json:"privacy_agreed"`
	MarketingAgreed bool `json:"marketing_agreed"`

	// денормализованные счётчики, поддерживаются вместе с join-таблицами
	FollowerCount  int `json:"follower_count"`
	FollowingCount int `json:"following_count"`
	CommunityCount int `json:"community_count"`

	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	DeletedAt   *time.Time `json:"-"`
}

type RegisterRequest struct {
	LoginID         string `json:"id" binding:"required"`
	Password        string `json:"password" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	DetailAddress   string `json:"detail_address"`
	PostalCode      string `json:"postal_code"`
	TermsAgreed     *bool  `json:"terms_agreed"`
	PrivacyAgreed   *bool  `json:"privacy_agreed"`
	MarketingAgreed *bool  `json:"marketing_agreed"`
}

type LoginRequest struct {
	LoginID    string `json:"id" binding:"required"`
	Password   string `json:"password" binding:"required"`
	DeviceType string `json:"device_type"`
	DeviceInfo string `json:"device_info"`
}

// PublicUser — укороченная карточка для списков (подписчики, блокировки).
type PublicUser struct {
	UserID       int       `json:"user_id"`
	LoginID      string    `json:"id"`
	Name         string    `json:"name"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
