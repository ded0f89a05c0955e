package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes snapshot writes for one session across server replicas
// sharing a store. session.Manager takes it inside its in-process lock.
type DistributedLocker interface {
	// Lock blocks until the session key is held or ctx ends. The lock expires after
	// ttl even if never released, so a crashed replica cannot wedge a session.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
