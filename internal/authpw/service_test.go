package authpw

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"groundwork/api/internal/store"
)

type fakeUserStore struct {
	GetUserByEmailFunc       func(ctx context.Context, email string) (store.User, error)
	GetUserByIDFunc          func(ctx context.Context, id string) (store.User, error)
	CreateUserFunc           func(ctx context.Context, displayName, email, passwordHash, role, chapter string) (store.User, error)
	SetVerificationTokenFunc func(ctx context.Context, userID, token string, expiresAt time.Time) error
	VerifyEmailFunc          func(ctx context.Context, token string) (store.User, error)
	UpdatePasswordFunc       func(ctx context.Context, userID, passwordHash string) error
	CreatePasswordResetFunc  func(ctx context.Context, token, userID string, expiresAt time.Time) error
	ConsumePasswordResetFunc func(ctx context.Context, token string) (string, error)
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	return f.GetUserByEmailFunc(ctx, email)
}
func (f *fakeUserStore) GetUserByID(ctx context.Context, id string) (store.User, error) {
	return f.GetUserByIDFunc(ctx, id)
}
func (f *fakeUserStore) CreateUser(ctx context.Context, displayName, email, passwordHash, role, chapter string) (store.User, error) {
	return f.CreateUserFunc(ctx, displayName, email, passwordHash, role, chapter)
}
func (f *fakeUserStore) SetVerificationToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	return f.SetVerificationTokenFunc(ctx, userID, token, expiresAt)
}
func (f *fakeUserStore) VerifyEmail(ctx context.Context, token string) (store.User, error) {
	return f.VerifyEmailFunc(ctx, token)
}
func (f *fakeUserStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return f.UpdatePasswordFunc(ctx, userID, passwordHash)
}
func (f *fakeUserStore) CreatePasswordReset(ctx context.Context, token, userID string, expiresAt time.Time) error {
	return f.CreatePasswordResetFunc(ctx, token, userID, expiresAt)
}
func (f *fakeUserStore) ConsumePasswordReset(ctx context.Context, token string) (string, error) {
	return f.ConsumePasswordResetFunc(ctx, token)
}

func newFakeStore() *fakeUserStore {
	return &fakeUserStore{
		GetUserByEmailFunc: func(ctx context.Context, email string) (store.User, error) {
			return store.User{}, store.ErrNotFound
		},
		CreateUserFunc: func(ctx context.Context, displayName, email, passwordHash, role, chapter string) (store.User, error) {
			return store.User{ID: "usr_1", DisplayName: displayName, Email: email, PasswordHash: passwordHash, Role: role, Chapter: chapter}, nil
		},
		SetVerificationTokenFunc: func(ctx context.Context, userID, token string, expiresAt time.Time) error {
			return nil
		},
	}
}

func TestSignUpCreatesViewer(t *testing.T) {
	fs := newFakeStore()
	var createdRole string
	base := fs.CreateUserFunc
	fs.CreateUserFunc = func(ctx context.Context, displayName, email, passwordHash, role, chapter string) (store.User, error) {
		createdRole = role
		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte("hunter2hunter2")); err != nil {
			t.Errorf("stored hash does not match password: %v", err)
		}
		return base(ctx, displayName, email, passwordHash, role, chapter)
	}

	svc := NewService(fs)
	resp, err := svc.SignUp(context.Background(), SignUpRequest{
		Email:       "rosa@example.org",
		Password:    "hunter2hunter2",
		DisplayName: "Rosa Linden",
		Chapter:     "Eastside",
	})
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if !resp.RequiresEmailVerify || resp.VerificationToken == "" {
		t.Errorf("expected verification required with token, got %+v", resp)
	}
	if createdRole != "viewer" {
		t.Errorf("new accounts must start as viewer, got %q", createdRole)
	}
}

func TestSignUpRejectsShortPassword(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Email: "a@b.c", Password: "short", DisplayName: "A",
	})
	if err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	fs := newFakeStore()
	fs.GetUserByEmailFunc = func(ctx context.Context, email string) (store.User, error) {
		return store.User{ID: "usr_1", Email: email}, nil
	}
	svc := NewService(fs)
	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Email: "taken@example.org", Password: "hunter2hunter2", DisplayName: "A",
	})
	if err == nil {
		t.Fatal("expected error for duplicate email")
	}
}

func signInStore(t *testing.T, verified bool, deactivated bool) *fakeUserStore {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := store.User{
		ID:              "usr_1",
		Email:           "rosa@example.org",
		PasswordHash:    string(hash),
		IsEmailVerified: verified,
	}
	if deactivated {
		now := time.Now()
		user.DeactivatedAt = &now
	}
	fs := newFakeStore()
	fs.GetUserByEmailFunc = func(ctx context.Context, email string) (store.User, error) {
		return user, nil
	}
	return fs
}

func TestSignIn(t *testing.T) {
	svc := NewService(signInStore(t, true, false))
	resp, err := svc.SignIn(context.Background(), SignInRequest{Email: "rosa@example.org", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if resp.RequiresVerify {
		t.Error("verified user should not require verification")
	}
}

func TestSignInWrongPassword(t *testing.T) {
	svc := NewService(signInStore(t, true, false))
	if _, err := svc.SignIn(context.Background(), SignInRequest{Email: "rosa@example.org", Password: "wrong-password"}); err == nil {
		t.Fatal("expected error for wrong password")
	}
}

func TestSignInUnverifiedFlagsVerify(t *testing.T) {
	svc := NewService(signInStore(t, false, false))
	resp, err := svc.SignIn(context.Background(), SignInRequest{Email: "rosa@example.org", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if !resp.RequiresVerify {
		t.Error("unverified user must be flagged")
	}
}

func TestSignInDeactivated(t *testing.T) {
	svc := NewService(signInStore(t, true, true))
	if _, err := svc.SignIn(context.Background(), SignInRequest{Email: "rosa@example.org", Password: "hunter2hunter2"}); err == nil {
		t.Fatal("deactivated accounts must not sign in")
	}
}

func TestRequestPasswordResetHidesUnknownEmail(t *testing.T) {
	fs := newFakeStore()
	fs.GetUserByEmailFunc = func(ctx context.Context, email string) (store.User, error) {
		return store.User{}, store.ErrNotFound
	}
	svc := NewService(fs)
	token, err := svc.RequestPasswordReset(context.Background(), "nobody@example.org")
	if err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	if token != "" {
		t.Error("unknown email must yield empty token, not an error")
	}
}

func TestResetPassword(t *testing.T) {
	fs := newFakeStore()
	fs.ConsumePasswordResetFunc = func(ctx context.Context, token string) (string, error) {
		if token != "tok-1" {
			return "", store.ErrNotFound
		}
		return "usr_1", nil
	}
	var updated string
	fs.UpdatePasswordFunc = func(ctx context.Context, userID, passwordHash string) error {
		updated = userID
		return nil
	}

	svc := NewService(fs)
	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{Token: "tok-1", NewPassword: "new-password-1"})
	if err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if updated != "usr_1" {
		t.Errorf("password not updated for usr_1, got %q", updated)
	}

	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{Token: "bad", NewPassword: "new-password-1"})
	if err == nil || errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected generic error for bad token, got %v", err)
	}
}
