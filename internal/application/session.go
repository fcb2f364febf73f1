package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/port/driven"
)

// ErrNoCredential is returned by Session.Token when no bearer token is held.
var ErrNoCredential = errors.New("no access token")

// Compile-time interface satisfaction check.
var _ oauth2.TokenSource = (*Session)(nil)

// Session owns the process-wide bearer credential. It keeps the current token
// in memory behind a mutex and writes every change through to the durable
// CredentialStore slot, so readers always observe the latest value and the
// token survives restarts.
type Session struct {
	// writeMu orders writes so the durable slot ends up matching memory.
	writeMu sync.Mutex
	mu      sync.RWMutex
	store   driven.CredentialStore
	token   string
}

// NewSession creates a Session backed by store. Call Load to pick up a token
// persisted by a previous run.
func NewSession(store driven.CredentialStore) *Session {
	return &Session{store: store}
}

// Load reads the persisted token into memory.
func (s *Session) Load(ctx context.Context) error {
	token, err := s.store.Get(ctx, model.SlotAccessToken)
	if err != nil {
		return fmt.Errorf("load access token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// AccessToken returns the current bearer token, or "" when logged out.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a bearer token is held.
func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

// Store replaces the current token. The in-memory value is updated even when
// persisting fails so in-flight requests keep working; the error is returned
// for the caller to log.
func (s *Session) Store(ctx context.Context, token string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.set(ctx, token)
}

// CompareAndStore replaces the token only while the session still holds old.
// It reports whether the token was replaced; a session cleared or changed in
// the meantime is left alone.
func (s *Session) CompareAndStore(ctx context.Context, old, token string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.AccessToken() != old {
		return false, nil
	}
	return true, s.set(ctx, token)
}

func (s *Session) set(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.store.Set(ctx, model.SlotAccessToken, token); err != nil {
		return fmt.Errorf("persist access token: %w", err)
	}
	return nil
}

// Clear destroys the current token in memory and in durable storage.
func (s *Session) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.store.Delete(ctx, model.SlotAccessToken); err != nil {
		return fmt.Errorf("delete access token: %w", err)
	}
	return nil
}

// Token implements oauth2.TokenSource so the session can drive any
// oauth2-aware transport.
func (s *Session) Token() (*oauth2.Token, error) {
	token := s.AccessToken()
	if token == "" {
		return nil, ErrNoCredential
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
