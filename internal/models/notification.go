package models

import "time"

type Notification struct {
	NotificationID int64     `json:"notification_id"`
	UserID         int       `json:"user_id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	RelatedType    string    `json:"related_type,omitempty"`
	RelatedID      *int64    `json:"related_id,omitempty"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// DeviceToken — FCM-токен устройства, по одному на (user, token).
type DeviceToken struct {
	DeviceTokenID int64     `json:"device_token_id"`
	UserID        int       `json:"user_id"`
	DeviceType    string    `json:"device_type"` // ios | android
	FCMToken      string    `json:"fcm_token"`
	DeviceName    string    `json:"device_name,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}
