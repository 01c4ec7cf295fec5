// Package ledger is the state-consistency engine of the point-of-sale
// system. It owns the catalog, per-store stock counts and the append-only
// transaction and cash logs, and computes the joined views served to the
// admin and store screens.
//
// All state lives in memory behind one RWMutex and is written through to a
// store.DocumentStore as a single JSON document after every mutation. A
// mutation is applied to a copy of the state and only swapped in once the
// document has been saved, so a failed save leaves the ledger unchanged.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"mobilepos/internal/auth"
	"mobilepos/internal/domain"
	"mobilepos/internal/store"
)

type Ledger struct {
	mu       sync.RWMutex
	docs     store.DocumentStore
	state    *state
	now      func() time.Time
	hashCost int
	log      zerolog.Logger
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(l *Ledger) {
		l.log = log
	}
}

// WithHashCost sets the bcrypt cost used for stored secrets.
func WithHashCost(cost int) Option {
	return func(l *Ledger) {
		l.hashCost = cost
	}
}

// New loads the ledger document from docs, falling back to the seed dataset
// (and saving it) when nothing has been stored yet.
func New(ctx context.Context, docs store.DocumentStore, opts ...Option) (*Ledger, error) {
	if docs == nil {
		return nil, fmt.Errorf("document store is required")
	}
	l := &Ledger{
		docs:     docs,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	body, err := docs.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		l.log.Info().Msg("no ledger document found, starting from seed dataset")
		if err := l.resetLocked(ctx); err != nil {
			return nil, err
		}
		return l, nil
	case err != nil:
		return nil, fmt.Errorf("load ledger document: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	loaded := newState(snap)
	upgraded, err := l.hashPlainSecrets(loaded)
	if err != nil {
		return nil, err
	}
	if upgraded > 0 {
		if err := l.save(ctx, loaded); err != nil {
			return nil, err
		}
		l.log.Info().Int("users", upgraded).Msg("upgraded plain-text secrets")
	}
	l.state = loaded
	l.log.Debug().
		Int("stores", len(loaded.stores)).
		Int("products", len(loaded.products)).
		Int("transactions", len(loaded.transactions)).
		Msg("ledger document loaded")
	return l, nil
}

// Reset discards all state and reinstalls the seed dataset.
func (l *Ledger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.resetLocked(ctx); err != nil {
		return err
	}
	l.log.Warn().Msg("ledger reset to seed dataset")
	return nil
}

func (l *Ledger) resetLocked(ctx context.Context) error {
	next := newState(seedSnapshot())
	if _, err := l.hashPlainSecrets(next); err != nil {
		return err
	}
	if err := l.save(ctx, next); err != nil {
		return err
	}
	l.state = next
	return nil
}

// Login returns the user whose credentials match and records it as the
// current session. A failed match returns nil without an error.
func (l *Ledger) Login(ctx context.Context, username string, secret string) (*domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.state.usernameIdx[strings.TrimSpace(username)]
	if !ok {
		return nil, nil
	}
	user := l.state.users[i]
	if !auth.VerifySecret(user.Secret, secret) {
		return nil, nil
	}

	next := l.state.clone()
	session := user
	next.session = &session
	if err := l.commit(ctx, next); err != nil {
		return nil, err
	}
	out := publicUser(user)
	return &out, nil
}

// Logout clears the current session if it belongs to userID. An empty
// userID clears whichever session is current.
func (l *Ledger) Logout(ctx context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.session == nil {
		return nil
	}
	if userID != "" && l.state.session.ID != userID {
		return nil
	}
	next := l.state.clone()
	next.session = nil
	return l.commit(ctx, next)
}

func (l *Ledger) CurrentUser(_ context.Context) *domain.User {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.state.session == nil {
		return nil
	}
	out := publicUser(*l.state.session)
	return &out
}

func (l *Ledger) FindUser(_ context.Context, userID string) (*domain.User, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.state.userIdx[userID]
	if !ok {
		return nil, false
	}
	out := publicUser(l.state.users[i])
	return &out, true
}

// commit persists next and makes it the live state. Callers hold l.mu.
func (l *Ledger) commit(ctx context.Context, next *state) error {
	if err := l.save(ctx, next); err != nil {
		l.log.Error().Err(err).Msg("ledger write rejected")
		return err
	}
	l.state = next
	return nil
}

func (l *Ledger) save(ctx context.Context, s *state) error {
	body, err := json.Marshal(s.snapshot())
	if err != nil {
		return fmt.Errorf("encode ledger document: %w", err)
	}
	if err := l.docs.Save(ctx, body); err != nil {
		return fmt.Errorf("save ledger document: %w", err)
	}
	return nil
}

func (l *Ledger) hashPlainSecrets(s *state) (int, error) {
	upgraded := 0
	for i := range s.users {
		if s.users[i].Secret == "" || auth.IsSecretHash(s.users[i].Secret) {
			continue
		}
		hashed, err := auth.HashSecret(s.users[i].Secret, l.hashCost)
		if err != nil {
			return 0, fmt.Errorf("hash secret for %s: %w", s.users[i].Username, err)
		}
		s.users[i].Secret = hashed
		upgraded++
	}
	if s.session != nil {
		if i, ok := s.userIdx[s.session.ID]; ok {
			s.session.Secret = s.users[i].Secret
		}
	}
	return upgraded, nil
}

func publicUser(u domain.User) domain.User {
	u.Secret = ""
	return u
}
