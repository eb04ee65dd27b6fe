// Package session holds the single source of truth for "who is logged in".
// State is mirrored into durable storage and re-read on external change, so
// concurrent client processes observe each other's logins and logouts.
package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/topevent/topevent-go/internal/domain"
	"github.com/topevent/topevent-go/internal/storage"
)

var (
	tokenKey = storage.Key("auth_token")
	userKey  = storage.Key("auth_user")
)

// noticeKey holds the one-shot "toast to show after next navigation"
// payload; it lives in the process-scoped storage layer only.
const noticeKey = "app:post-redirect-toast"

type NoticeType string

const (
	NoticeSuccess NoticeType = "success"
	NoticeError   NoticeType = "error"
)

type Notice struct {
	Type    NoticeType `json:"type"`
	Message string     `json:"message"`
}

type Store struct {
	storage *storage.Store

	mu    sync.RWMutex
	token string
	user  *domain.AuthUser
}

// NewStore hydrates the in-memory state from durable storage synchronously,
// falling back to logged-out on absent or unparsable values.
func NewStore(st *storage.Store) *Store {
	s := &Store{storage: st}
	s.token = s.readToken()
	s.user = s.readUser()

	return s
}

// StartSync subscribes to external key changes so that a login or logout
// performed by another process is reflected here.
func (s *Store) StartSync() error {
	err := s.storage.Watch(func(key string) {
		switch key {
		case tokenKey:
			s.mu.Lock()
			s.token = s.readToken()
			s.mu.Unlock()
		case userKey:
			s.mu.Lock()
			s.user = s.readUser()
			s.mu.Unlock()
		}
	})
	if err != nil {
		return fmt.Errorf("s.storage.Watch -> %w", err)
	}

	return nil
}

// Login persists the session and updates in-memory state.
func (s *Store) Login(sess domain.AuthSession) error {
	raw, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}
	if err = s.storage.Set(tokenKey, sess.Token); err != nil {
		return fmt.Errorf("s.storage.Set -> %w", err)
	}
	if err = s.storage.Set(userKey, string(raw)); err != nil {
		return fmt.Errorf("s.storage.Set -> %w", err)
	}

	s.mu.Lock()
	s.token = sess.Token
	user := sess.User
	s.user = &user
	s.mu.Unlock()

	return nil
}

// Logout clears both durable keys and the in-memory state.
func (s *Store) Logout() error {
	if err := s.storage.Delete(tokenKey); err != nil {
		return fmt.Errorf("s.storage.Delete -> %w", err)
	}
	if err := s.storage.Delete(userKey); err != nil {
		return fmt.Errorf("s.storage.Delete -> %w", err)
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	return nil
}

// UpdateUser replaces the stored user, leaving the token untouched.
// Used after profile edits.
func (s *Store) UpdateUser(user domain.AuthUser) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}
	if err = s.storage.Set(userKey, string(raw)); err != nil {
		return fmt.Errorf("s.storage.Set -> %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	return nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

func (s *Store) User() *domain.AuthUser {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	user := *s.user

	return &user
}

// IsAuthenticated is true only when both user and token are present; a
// stored user with a cleared token (or vice versa) counts as logged out.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token != "" && s.user != nil
}

func (s *Store) Session() domain.AuthSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := domain.AuthSession{Token: s.token}
	if s.user != nil {
		sess.User = *s.user
	}

	return sess
}

// TokenExpiry reports the expiry claim of the stored token without
// verifying its signature. Zero when logged out or the token is opaque.
func (s *Store) TokenExpiry() time.Time {
	token := s.Token()
	if token == "" {
		return time.Time{}
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}

	return claims.ExpiresAt.Time
}

// QueueNotice stores a one-shot message to surface on the next startup.
func (s *Store) QueueNotice(n Notice) {
	raw, err := json.Marshal(n)
	if err != nil {
		zap.L().Warn("failed to queue notice", zap.Error(err))
		return
	}

	s.storage.SetSession(noticeKey, string(raw))
}

// ConsumeNotice returns the queued notice, if any, removing it so it is
// shown at most once.
func (s *Store) ConsumeNotice() (Notice, bool) {
	raw, ok := s.storage.TakeSession(noticeKey)
	if !ok {
		return Notice{}, false
	}

	var n Notice
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return Notice{}, false
	}

	return n, true
}

func (s *Store) readToken() string {
	v, _ := s.storage.Get(tokenKey)

	return v
}

func (s *Store) readUser() *domain.AuthUser {
	raw, ok := s.storage.Get(userKey)
	if !ok {
		return nil
	}

	var user domain.AuthUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}

	return &user
}
