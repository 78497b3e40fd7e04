package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"rescue-revolution/internal/domain/auth"
)

type sessionRepo struct {
	mu      sync.RWMutex
	byToken map[string]auth.Session
}

func NewSessionRepo() auth.SessionRepository {
	return &sessionRepo{
		byToken: make(map[string]auth.Session),
	}
}

func (r *sessionRepo) Create(ctx context.Context, s auth.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.Token) == "" {
		return errors.New("session token required")
	}
	r.byToken[s.Token] = s
	return nil
}

func (r *sessionRepo) GetByToken(ctx context.Context, token string) (auth.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byToken[token]
	if !ok {
		return auth.Session{}, ErrNotFound
	}
	return s, nil
}

func (r *sessionRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byToken[token]; !ok {
		return ErrNotFound
	}
	delete(r.byToken, token)
	return nil
}
