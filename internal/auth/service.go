// Package auth implements signup, login and session verification.
package auth

import (
	"context"
	"errors"
	"fmt"

	"outgo/internal/core"
	"outgo/internal/log"
	"outgo/internal/store"
)

var (
	// ErrInvalidCredentials is returned for every login failure so callers
	// cannot distinguish an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailTaken = errors.New("email already registered")
	ErrNameTaken  = errors.New("name already registered")
)

// defaultPaymentMethod is seeded for every new account.
const defaultPaymentMethod = "Cash"

type Service struct {
	users    store.UserStore
	taxonomy store.TaxonomyStore
	tokens   *TokenIssuer
	logger   *log.Logger
}

func NewService(users store.UserStore, taxonomy store.TaxonomyStore, tokens *TokenIssuer, logger *log.Logger) *Service {
	return &Service{
		users:    users,
		taxonomy: taxonomy,
		tokens:   tokens,
		logger:   logger.WithComponent(log.ComponentAuth),
	}
}

// Signup registers a new account and returns the user with a session token.
func (s *Service) Signup(ctx context.Context, name, email, password string) (core.User, string, error) {
	if _, err := s.users.UserByEmail(ctx, email); err == nil {
		return core.User{}, "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return core.User{}, "", fmt.Errorf("checking email: %w", err)
	}

	if _, err := s.users.UserByName(ctx, name); err == nil {
		return core.User{}, "", ErrNameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return core.User{}, "", fmt.Errorf("checking name: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return core.User{}, "", err
	}

	user, err := s.users.InsertUser(ctx, core.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return core.User{}, "", fmt.Errorf("creating user: %w", err)
	}

	// Seeding the starter payment method is best effort; the account is
	// already created.
	if err := s.taxonomy.UpsertPaymentMethod(ctx, defaultPaymentMethod, user.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to seed default payment method",
			log.FieldUserID, user.ID, log.FieldError, err.Error())
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return core.User{}, "", err
	}

	s.logger.InfoContext(ctx, "user registered", log.FieldUserID, user.ID)
	return user, token, nil
}

// Login verifies credentials and returns the user with a session token.
func (s *Service) Login(ctx context.Context, email, password string) (core.User, string, error) {
	user, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return core.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, "", fmt.Errorf("looking up user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		return core.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return core.User{}, "", err
	}

	s.logger.InfoContext(ctx, "user logged in", log.FieldUserID, user.ID)
	return user, token, nil
}

// VerifyToken resolves a raw bearer token into a Session.
func (s *Service) VerifyToken(raw string) (Session, error) {
	return s.tokens.Verify(raw)
}
