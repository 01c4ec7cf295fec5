package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"mobilepos/internal/cache"
	"mobilepos/internal/domain"
	"mobilepos/internal/xid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// UserDirectory is the subset of the ledger the manager authenticates against.
type UserDirectory interface {
	Login(ctx context.Context, username string, secret string) (*domain.User, error)
	Logout(ctx context.Context, userID string) error
	FindUser(ctx context.Context, userID string) (*domain.User, bool)
}

type Manager struct {
	secret       []byte
	tokenTTL     time.Duration
	users        UserDirectory
	sessions     cache.SessionRegistry
	loginLimiter *attemptLimiter
	log          zerolog.Logger
}

type ledgerClaims struct {
	jwtlib.RegisteredClaims
	Role    string `json:"role"`
	StoreID string `json:"store_id,omitempty"`
}

func NewManager(secret string, tokenTTL time.Duration, users UserDirectory, sessions cache.SessionRegistry, log zerolog.Logger) *Manager {
	if secret == "" {
		secret = "dev-change-me"
	}
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	if sessions == nil {
		sessions = cache.NewMemorySessionRegistry()
	}

	return &Manager{
		secret:       []byte(secret),
		tokenTTL:     tokenTTL,
		users:        users,
		sessions:     sessions,
		loginLimiter: newAttemptLimiter(5, time.Minute),
		log:          log,
	}
}

func (a *Manager) Login(ctx context.Context, username string, secret string) (domain.LoginResponse, error) {
	username = strings.TrimSpace(username)
	if !a.loginLimiter.Allow(strings.ToLower(username)) {
		return domain.LoginResponse{}, ErrTooManyAttempts
	}

	user, err := a.users.Login(ctx, username, secret)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	if user == nil {
		a.log.Warn().Str("username", username).Msg("login rejected")
		return domain.LoginResponse{}, ErrInvalidCredentials
	}

	sessionID := xid.New("sess")
	if err := a.sessions.Put(ctx, sessionID, user.ID, a.tokenTTL); err != nil {
		return domain.LoginResponse{}, fmt.Errorf("register session: %w", err)
	}

	expiresAt := time.Now().UTC().Add(a.tokenTTL)
	token, err := a.sign(*user, sessionID, expiresAt)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	a.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("session opened")
	return domain.LoginResponse{
		AccessToken: token,
		Role:        user.Role,
		StoreID:     user.StoreID,
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	}, nil
}

// Authenticate validates the token signature, checks the session is still
// registered and re-reads the user so role changes take effect immediately.
func (a *Manager) Authenticate(ctx context.Context, tokenStr string) (domain.Actor, error) {
	claims, err := a.parse(tokenStr)
	if err != nil {
		return domain.Actor{}, err
	}

	userID, ok, err := a.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("lookup session: %w", err)
	}
	if !ok || userID != claims.Subject {
		return domain.Actor{}, ErrInvalidToken
	}

	user, ok := a.users.FindUser(ctx, claims.Subject)
	if !ok {
		return domain.Actor{}, ErrInvalidToken
	}

	return domain.Actor{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		StoreID:   user.StoreID,
		SessionID: claims.ID,
	}, nil
}

func (a *Manager) Logout(ctx context.Context, tokenStr string) error {
	claims, err := a.parse(tokenStr)
	if err != nil {
		return err
	}
	if err := a.sessions.Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return a.users.Logout(ctx, claims.Subject)
}

func (a *Manager) parse(tokenStr string) (*ledgerClaims, error) {
	claims := &ledgerClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (a *Manager) sign(user domain.User, sessionID string, expiresAt time.Time) (string, error) {
	claims := ledgerClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        sessionID,
			Subject:   user.ID,
			IssuedAt:  jwtlib.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    "posledger",
		},
		Role:    user.Role,
		StoreID: user.StoreID,
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

type attemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string][]time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{max: max, window: window, entries: make(map[string][]time.Time)}
}

func (l *attemptLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.entries[key]
	kept := make([]time.Time, 0, len(history)+1)
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.entries[key] = kept
		return false
	}
	kept = append(kept, now)
	l.entries[key] = kept
	return true
}
