package ledger

import "errors"

var (
	ErrInvalidInput      = errors.New("ledger: invalid input")
	ErrUnknownReference  = errors.New("ledger: unknown reference")
	ErrDuplicateUsername = errors.New("ledger: username already exists")
	ErrInsufficientStock = errors.New("ledger: insufficient stock")
	ErrCorruptDocument   = errors.New("ledger: corrupt document")
)
