package adapter

import (
	"context"
	"time"
)

// Lock is a held run lock.
type Lock interface {
	// Release frees the lock if it is still held by this owner.
	Release(ctx context.Context) error
}

// Locker hands out mutually exclusive, expiring locks.
type Locker interface {
	// TryAcquire attempts to take the named lock without waiting. It returns false
	// when another owner holds it.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (Lock, bool, error)
}
