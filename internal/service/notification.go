package service

import (
	"context"

	"taskly_backend/internal/model"
	"taskly_backend/internal/repository"
)

// NotificationService manages device push token registration. Delivery
// itself happens in the due-task sweep worker.
type NotificationService struct {
	tokenRepo repository.DeviceTokenRepository
}

func NewNotificationService(tokenRepo repository.DeviceTokenRepository) *NotificationService {
	return &NotificationService{tokenRepo: tokenRepo}
}

// RegisterDeviceToken stores or updates a device's Expo push token.
// This is called when:
// - User logs in on a new device
// - Expo push token is refreshed by the mobile app
//
// The token is unique, so if the same token exists for a different user,
// it will be reassigned to the current user (device changed hands).
func (s *NotificationService) RegisterDeviceToken(ctx context.Context, userID int64, token, platform string) error {
	if !IsExpoPushToken(token) {
		return model.ErrInvalidPushToken
	}

	if platform == "" {
		platform = model.PlatformExpo
	}

	return s.tokenRepo.Upsert(ctx, userID, token, platform)
}

// RemoveDeviceToken removes a device token (e.g., on logout).
func (s *NotificationService) RemoveDeviceToken(ctx context.Context, token string) error {
	return s.tokenRepo.Delete(ctx, token)
}
