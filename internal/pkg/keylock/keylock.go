// Package keylock serializes work per key, e.g. one clock-in/out per staff
// member and date at a time.
package keylock

import (
	"context"
	"errors"
)

var ErrLockTimeout = errors.New("timed out waiting for lock")

type Locker interface {
	// Lock blocks until key is held or ctx is done. The returned func
	// releases the key and must be called exactly once.
	Lock(ctx context.Context, key string) (func(), error)
}
