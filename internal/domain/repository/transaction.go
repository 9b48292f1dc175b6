package repository

import (
	"context"
	"errors"
)

// ErrDuplicateKey is returned by repositories when a write violates a unique constraint
var ErrDuplicateKey = errors.New("duplicate key")

// Transactor runs fn inside one database transaction. Repository calls made
// with the ctx passed to fn join that transaction; a returned error rolls it back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
