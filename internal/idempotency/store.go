// Package idempotency remembers which client request keys were already
// processed so retried submissions are answered without repeating side
// effects.
package idempotency

import (
	"context"
	"errors"
	"time"
)

const (
	processing = "PROCESSING"

	DefaultLockTTL   = 30 * time.Second
	DefaultResultTTL = 24 * time.Hour
)

// ErrInProgress means another request with the same key has not finished.
var ErrInProgress = errors.New("request with this idempotency key is in progress")

type Store interface {
	// Begin claims key. It returns the stored result and true when the key
	// already completed, and ErrInProgress while another holder works on it.
	Begin(ctx context.Context, key string) (result string, done bool, err error)
	Complete(ctx context.Context, key, result string) error
	// Release drops a claim whose work failed so the client may retry.
	Release(ctx context.Context, key string) error
}

func storageKey(key string) string {
	return "idempotency:" + key
}
