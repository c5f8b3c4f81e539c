// Package slots persists named key/value slots that outlive a client process.
// The session store keeps the serialized current user in one of them.
package slots

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the slot holds no value.
var ErrNotFound = errors.New("slot not found")

type Repository interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, value []byte) error
	// Delete erases the slot. Erasing an absent slot is not an error.
	Delete(ctx context.Context, name string) error
}
