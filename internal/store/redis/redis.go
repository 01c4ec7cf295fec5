package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"mobilepos/internal/store"
)

// Store keeps the ledger document under a single Redis key.
type Store struct {
	client *goredis.Client
	key    string
}

func New(addr string, password string, db int, key string) (*Store, error) {
	if key == "" {
		return nil, fmt.Errorf("document key is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{client: client, key: key}, nil
}

// NewWithClient shares an existing client, e.g. with the session registry.
func NewWithClient(client *goredis.Client, key string) *Store {
	return &Store{client: client, key: key}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Load(ctx context.Context) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *Store) Save(ctx context.Context, document []byte) error {
	return s.client.Set(ctx, s.key, document, 0).Err()
}
