package service

import (
	"context"
	"errors"
	"testing"

	"taskly_backend/internal/model"
)

type upsertCall struct {
	userID   int64
	token    string
	platform string
}

type mockDeviceTokenRepository struct {
	upsertCalls []upsertCall
	deleted     []string
}

func (m *mockDeviceTokenRepository) Upsert(ctx context.Context, userID int64, token, platform string) error {
	m.upsertCalls = append(m.upsertCalls, upsertCall{userID, token, platform})
	return nil
}

func (m *mockDeviceTokenRepository) GetByUserID(ctx context.Context, userID int64) ([]model.DeviceToken, error) {
	return nil, nil
}

func (m *mockDeviceTokenRepository) Delete(ctx context.Context, token string) error {
	m.deleted = append(m.deleted, token)
	return nil
}

func TestNotificationService_RegisterDeviceToken(t *testing.T) {
	repo := &mockDeviceTokenRepository{}
	svc := NewNotificationService(repo)

	err := svc.RegisterDeviceToken(context.Background(), 10, "ExponentPushToken[abc123]", "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(repo.upsertCalls) != 1 {
		t.Fatalf("upsert calls = %d, want 1", len(repo.upsertCalls))
	}
	call := repo.upsertCalls[0]
	if call.userID != 10 || call.token != "ExponentPushToken[abc123]" {
		t.Errorf("unexpected upsert: %+v", call)
	}
	if call.platform != model.PlatformExpo {
		t.Errorf("platform = %q, want default %q", call.platform, model.PlatformExpo)
	}
}

func TestNotificationService_RegisterDeviceToken_InvalidFormat(t *testing.T) {
	repo := &mockDeviceTokenRepository{}
	svc := NewNotificationService(repo)

	err := svc.RegisterDeviceToken(context.Background(), 10, "fcm-token-123", "android")
	if !errors.Is(err, model.ErrInvalidPushToken) {
		t.Fatalf("err = %v, want ErrInvalidPushToken", err)
	}
	if len(repo.upsertCalls) != 0 {
		t.Error("invalid token reached the repository")
	}
}

func TestNotificationService_RemoveDeviceToken(t *testing.T) {
	repo := &mockDeviceTokenRepository{}
	svc := NewNotificationService(repo)

	if err := svc.RemoveDeviceToken(context.Background(), "ExpoPushToken[xyz]"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "ExpoPushToken[xyz]" {
		t.Errorf("deleted = %v", repo.deleted)
	}
}

func TestIsExpoPushToken(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"ExponentPushToken[abc]", true},
		{"ExpoPushToken[abc]", true},
		{"fcm:abc", false},
		{"", false},
		{"exponentpushtoken[abc]", false},
	}

	for _, tt := range tests {
		if got := IsExpoPushToken(tt.token); got != tt.want {
			t.Errorf("IsExpoPushToken(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}
