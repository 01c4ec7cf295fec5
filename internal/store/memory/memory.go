package memory

import (
	"context"
	"sync"

	"mobilepos/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	document []byte
	saves    int
}

func New() *Store {
	return &Store{}
}

// NewWithDocument returns a store that already holds document, as if a
// previous process had saved it.
func NewWithDocument(document []byte) *Store {
	return &Store{document: cloneBytes(document)}
}

func (s *Store) Load(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.document == nil {
		return nil, store.ErrNotFound
	}
	return cloneBytes(s.document), nil
}

func (s *Store) Save(_ context.Context, document []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.document = cloneBytes(document)
	s.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
