package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

// DocumentStore persists the ledger as one serialized document.
// Load returns ErrNotFound when nothing has been saved yet.
type DocumentStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, document []byte) error
}
