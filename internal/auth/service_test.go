package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"outgo/internal/core"
	"outgo/internal/log"
	"outgo/internal/store/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	tokens := NewTokenIssuer("test-secret-at-least-16", time.Hour)
	logger := log.New(log.DefaultConfig())
	return NewService(st, st, tokens, logger), st
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "mario", "mario@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if user.ID == 0 {
		t.Error("Signup() returned zero user id")
	}
	if token == "" {
		t.Error("Signup() returned empty token")
	}
	if user.PasswordHash == "hunter22" {
		t.Error("password stored in plain text")
	}

	got, loginToken, err := svc.Login(ctx, "mario@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Login() user id = %d, want %d", got.ID, user.ID)
	}
	if loginToken == "" {
		t.Error("Login() returned empty token")
	}
}

func TestSignupSeedsDefaultPaymentMethod(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	user, _, err := svc.Signup(ctx, "mario", "mario@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	methods, err := st.ListPaymentMethods(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListPaymentMethods() error = %v", err)
	}
	if len(methods) != 1 || methods[0] != "Cash" {
		t.Errorf("payment methods after signup = %v, want [Cash]", methods)
	}
}

func TestSignupDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Signup(ctx, "mario", "mario@example.com", "hunter22"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if _, _, err := svc.Signup(ctx, "luigi", "mario@example.com", "hunter22"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email error = %v, want ErrEmailTaken", err)
	}
	if _, _, err := svc.Signup(ctx, "mario", "luigi@example.com", "hunter22"); !errors.Is(err, ErrNameTaken) {
		t.Errorf("duplicate name error = %v, want ErrNameTaken", err)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Signup(ctx, "mario", "mario@example.com", "hunter22"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if _, _, err := svc.Login(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "mario@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenIssuer("test-secret-at-least-16", time.Hour)
	user := core.User{ID: 42, Name: "mario", Email: "mario@example.com"}

	raw, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	session, err := tokens.Verify(raw)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if session.UserID != 42 || session.Name != "mario" || session.Email != "mario@example.com" {
		t.Errorf("session = %+v", session)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	tokens := NewTokenIssuer("test-secret-at-least-16", time.Hour)
	other := NewTokenIssuer("another-secret-at-least-16", time.Hour)

	raw, err := other.Issue(core.User{ID: 1, Name: "mario", Email: "mario@example.com"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := tokens.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(foreign token) error = %v, want ErrInvalidToken", err)
	}
	if _, err := tokens.Verify("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(garbage) error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tokens := NewTokenIssuer("test-secret-at-least-16", -time.Minute)

	raw, err := tokens.Issue(core.User{ID: 1, Name: "mario", Email: "mario@example.com"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := tokens.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(expired) error = %v, want ErrInvalidToken", err)
	}
}
