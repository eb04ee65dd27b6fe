package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/topevent/topevent-go/internal/api/request"
	"github.com/topevent/topevent-go/internal/domain"
	"github.com/topevent/topevent-go/internal/query"
)

type UserRepositoryAPI interface {
	Register(ctx context.Context, input request.RegisterInput) (domain.AuthSession, error)
	Login(ctx context.Context, input request.LoginInput) (domain.AuthSession, error)
	Update(ctx context.Context, userID int, input request.UserUpdateInput) (domain.AuthUser, error)
}

// SessionStore is the full read/write surface of the auth state store.
type SessionStore interface {
	SessionReader
	Login(sess domain.AuthSession) error
	Logout() error
	UpdateUser(user domain.AuthUser) error
	IsAuthenticated() bool
}

type AuthService struct {
	repo     UserRepositoryAPI
	sessions SessionStore
	cache    *query.Cache
}

func NewAuthService(repo UserRepositoryAPI, sessions SessionStore, cache *query.Cache) *AuthService {
	return &AuthService{
		repo:     repo,
		sessions: sessions,
		cache:    cache,
	}
}

// Register creates the account and opens a session with the returned
// token and user.
func (s *AuthService) Register(ctx context.Context, input request.RegisterInput) (domain.AuthSession, error) {
	sess, err := s.repo.Register(ctx, input)
	if err != nil {
		return domain.AuthSession{}, fmt.Errorf("s.repo.Register -> %w", err)
	}

	if err = s.sessions.Login(sess); err != nil {
		return domain.AuthSession{}, fmt.Errorf("s.sessions.Login -> %w", err)
	}

	zap.L().Info("registered", zap.Int("userId", sess.User.ID))

	return sess, nil
}

func (s *AuthService) Login(ctx context.Context, input request.LoginInput) (domain.AuthSession, error) {
	sess, err := s.repo.Login(ctx, input)
	if err != nil {
		return domain.AuthSession{}, fmt.Errorf("s.repo.Login -> %w", err)
	}

	if err = s.sessions.Login(sess); err != nil {
		return domain.AuthSession{}, fmt.Errorf("s.sessions.Login -> %w", err)
	}

	zap.L().Info("logged in", zap.Int("userId", sess.User.ID))

	return sess, nil
}

// Logout clears the session and drops the cache: per-user reads must not
// survive into the next session.
func (s *AuthService) Logout() error {
	if err := s.sessions.Logout(); err != nil {
		return fmt.Errorf("s.sessions.Logout -> %w", err)
	}

	s.cache.Clear()

	return nil
}

// UpdateProfile patches the current user's profile and mirrors the result
// into the session store, leaving the token untouched.
func (s *AuthService) UpdateProfile(ctx context.Context, input request.UserUpdateInput) (domain.AuthUser, error) {
	user := s.sessions.User()
	if user == nil {
		return domain.AuthUser{}, ErrNotAuthenticated
	}

	updated, err := s.repo.Update(ctx, user.ID, input)
	if err != nil {
		return domain.AuthUser{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	if err = s.sessions.UpdateUser(updated); err != nil {
		return domain.AuthUser{}, fmt.Errorf("s.sessions.UpdateUser -> %w", err)
	}

	return updated, nil
}
