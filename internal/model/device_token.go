package model

import (
	"errors"
	"time"
)

// DeviceToken represents a user's registered device for push notifications.
// A user may register several devices; zero rows means push is disabled for
// that user and the due-soon sweep simply skips their tasks.
type DeviceToken struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	Token     string    `db:"token" json:"-"` // Expo push token, hidden from JSON
	Platform  string    `db:"platform" json:"platform"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RegisterTokenRequest is the request body for registering a device token.
type RegisterTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"` // "expo", "ios", or "android"
}

// Platform constants
const (
	PlatformExpo    = "expo"
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// ErrInvalidPushToken is returned when a registered token does not match the
// Expo push token format
var ErrInvalidPushToken = errors.New("invalid push token format")
