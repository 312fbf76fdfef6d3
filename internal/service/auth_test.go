package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/auth"
)

func newAuthStack(t *testing.T) (*AuthService, *auth.SessionService, *mockUserRepo) {
	t.Helper()
	sessions, err := auth.NewSessionService("test-secret-at-least-16-chars", time.Hour)
	if err != nil {
		t.Fatalf("setup: NewSessionService() error = %v", err)
	}
	users := newMockUserRepo()
	passwords := auth.NewPasswordServiceForTest(4)
	svc := NewAuthService(users, sessions, passwords, testLogger())
	return svc, sessions, users
}

func registerUser(t *testing.T, users *mockUserRepo, email, password string) string {
	t.Helper()
	hash, err := auth.NewPasswordServiceForTest(4).Hash(password)
	if err != nil {
		t.Fatalf("setup: hashing password: %v", err)
	}
	u := mustCreateUser(t, users, "Test User", email)
	u.PasswordHash = hash
	users.users[u.ID].PasswordHash = hash
	return u.ID
}

func TestLogin_Success(t *testing.T) {
	svc, sessions, users := newAuthStack(t)
	userID := registerUser(t, users, "alice@example.com", "correct horse battery")

	result, err := svc.Login(context.Background(), "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.User.ID != userID {
		t.Errorf("User.ID = %q, want %q", result.User.ID, userID)
	}

	// The issued token must validate back to the same principal.
	principal, err := sessions.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if principal.UserID != userID {
		t.Errorf("principal.UserID = %q, want %q", principal.UserID, userID)
	}
	if principal.Email != "alice@example.com" {
		t.Errorf("principal.Email = %q, want alice@example.com", principal.Email)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, users := newAuthStack(t)
	registerUser(t, users, "alice@example.com", "correct horse battery")

	_, err := svc.Login(context.Background(), "alice@example.com", "wrong password!!")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, users := newAuthStack(t)
	registerUser(t, users, "alice@example.com", "correct horse battery")

	wrongUser, errUser := svc.Login(context.Background(), "nobody@example.com", "correct horse battery")
	wrongPass, errPass := svc.Login(context.Background(), "alice@example.com", "wrong password!!")

	if wrongUser != nil || wrongPass != nil {
		t.Fatal("failed logins must not return a result")
	}
	if !errors.Is(errUser, apperror.ErrUnauthorized) {
		t.Errorf("unknown email error = %v, want ErrUnauthorized", errUser)
	}
	// Unknown email and wrong password must be indistinguishable so the
	// endpoint can't enumerate registered addresses.
	if errUser.Error() != errPass.Error() {
		t.Errorf("error messages differ: %q vs %q", errUser.Error(), errPass.Error())
	}
}

func TestLogin_EmptyCredentials(t *testing.T) {
	svc, _, _ := newAuthStack(t)

	if _, err := svc.Login(context.Background(), "", "whatever"); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("empty email error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Login(context.Background(), "a@example.com", ""); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("empty password error = %v, want ErrUnauthorized", err)
	}
}

func TestGetUserByID(t *testing.T) {
	svc, _, users := newAuthStack(t)
	userID := registerUser(t, users, "alice@example.com", "correct horse battery")

	user, err := svc.GetUserByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q, want alice@example.com", user.Email)
	}

	if _, err := svc.GetUserByID(context.Background(), "ghost"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
