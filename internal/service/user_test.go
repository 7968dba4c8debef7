package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskly_backend/internal/model"
)

// =============================================================================
// MOCK REPOSITORY
// =============================================================================
//
// In unit tests, we don't want to hit a real database. Instead, we create a
// "mock" that implements the same interface but returns controlled responses.
//
// This is the KEY insight: because UserService depends on the UserRepository
// INTERFACE (not the concrete implementation), we can swap in a mock.

type mockUserRepository struct {
	// These functions let each test define custom behavior
	createFn        func(ctx context.Context, user *model.User) error
	getByIDFn       func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*model.User, error)
	existsByEmailFn func(ctx context.Context, email string) (bool, error)

	// Track calls for assertions
	createCalls []createCall
}

type createCall struct {
	User *model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, createCall{User: user})
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

// =============================================================================
// REGISTER TESTS
// =============================================================================

func TestUserService_Register_Success(t *testing.T) {
	// ARRANGE: Set up test data and mocks
	mockRepo := &mockUserRepository{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return false, nil // Email doesn't exist
		},
		createFn: func(ctx context.Context, user *model.User) error {
			// Simulate database setting ID and timestamps
			user.ID = 1
			user.CreatedAt = time.Now()
			user.UpdatedAt = time.Now()
			return nil
		},
	}
	svc := NewUserService(mockRepo)

	req := &model.RegisterRequest{
		Name:     "Test User",
		Email:    "Test@Example.com",
		Password: "securepassword123",
	}

	// ACT: Call the method we're testing
	user, err := svc.Register(context.Background(), req)

	// ASSERT: Check the results
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if user == nil {
		t.Fatal("expected user, got nil")
	}

	if user.Name != "Test User" {
		t.Errorf("name = %q, want %q", user.Name, "Test User")
	}

	// Email is normalized to lowercase
	if user.Email != "test@example.com" {
		t.Errorf("email = %q, want %q", user.Email, "test@example.com")
	}

	// Verify password was hashed (not stored in plain text!)
	if user.PasswordHashed == req.Password {
		t.Error("password should be hashed, not stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestUserService_Register_EmailExists(t *testing.T) {
	mockRepo := &mockUserRepository{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(mockRepo)

	req := &model.RegisterRequest{
		Name:     "Test User",
		Email:    "taken@example.com",
		Password: "securepassword123",
	}

	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, model.ErrEmailExists) {
		t.Fatalf("err = %v, want ErrEmailExists", err)
	}

	if len(mockRepo.createCalls) != 0 {
		t.Error("Create should not be called when email exists")
	}
}

func TestUserService_Register_MissingFields(t *testing.T) {
	svc := NewUserService(&mockUserRepository{})

	tests := []struct {
		name string
		req  *model.RegisterRequest
	}{
		{"empty name", &model.RegisterRequest{Email: "a@b.c", Password: "pw"}},
		{"empty email", &model.RegisterRequest{Name: "A", Password: "pw"}},
		{"empty password", &model.RegisterRequest{Name: "A", Email: "a@b.c"}},
		{"whitespace name", &model.RegisterRequest{Name: "   ", Email: "a@b.c", Password: "pw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tt.req); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestUserService_Login_Success(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("securepassword123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	mockRepo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID:             1,
				Name:           "Test User",
				Email:          email,
				PasswordHashed: string(hashed),
			}, nil
		},
	}
	svc := NewUserService(mockRepo)

	user, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "test@example.com",
		Password: "securepassword123",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("user ID = %d, want 1", user.ID)
	}
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	mockRepo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 1, Email: email, PasswordHashed: string(hashed)}, nil
		},
	}
	svc := NewUserService(mockRepo)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "test@example.com",
		Password: "wrongpassword",
	})
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	svc := NewUserService(&mockUserRepository{})

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	// Unknown email returns the same error as a wrong password, so the
	// response never reveals which accounts exist.
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}
