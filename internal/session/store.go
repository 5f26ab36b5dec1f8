// Package session keeps the logged-in identity and bearer token, and runs the
// inactivity logout timer.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/store"
)

const (
	keyUser  = "currentUser"
	keyToken = "sessionToken"
)

var ErrNoSession = errors.New("session: not logged in")

// Store persists the identity/credential pair. It is written only at login,
// logout and on credential rejection, and read before every request.
type Store struct {
	kv store.KV
}

func NewStore(kv store.KV) *Store {
	return &Store{kv: kv}
}

// Save records a successful login.
func (s *Store) Save(ctx context.Context, user domain.User, token string) error {
	raw, err := json.Marshal(user.WithoutPassword())
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}
	if err := s.kv.Set(ctx, keyUser, string(raw), 0); err != nil {
		return fmt.Errorf("failed to store identity: %w", err)
	}
	if err := s.kv.Set(ctx, keyToken, token, 0); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Identity returns the stored user, or ErrNoSession. A corrupt record is
// removed and reported as ErrNoSession.
func (s *Store) Identity(ctx context.Context) (*domain.User, error) {
	raw, err := s.kv.Get(ctx, keyUser)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.Username == "" {
		_ = s.kv.Delete(ctx, keyUser)
		return nil, ErrNoSession
	}
	return &u, nil
}

// Token returns the bearer token, or "" when none is stored.
func (s *Store) Token(ctx context.Context) (string, error) {
	tok, err := s.kv.Get(ctx, keyToken)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return "", nil
		}
		return "", err
	}
	return tok, nil
}

// Clear removes both identity and token.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, keyUser, keyToken)
}
