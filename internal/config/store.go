package config

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/jsonms/pkg/adapters/file"
	"github.com/aretw0/jsonms/pkg/adapters/memory"
	"github.com/aretw0/jsonms/pkg/adapters/redis"
	"github.com/aretw0/jsonms/pkg/adapters/sqlite"
	"github.com/aretw0/jsonms/pkg/persistence/middleware"
	"github.com/aretw0/jsonms/pkg/ports"
)

// Stores is the persistence selected by a Persistence config.
type Stores struct {
	Snapshots ports.SnapshotStore
	// Locker is set for drivers shared between processes.
	Locker ports.DistributedLocker
	closer io.Closer
}

// Close releases the driver connection.
func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Open connects the configured driver and wraps it with the encryption and
// masking middleware. Masking runs before encryption.
func (p Persistence) Open(ctx context.Context) (*Stores, error) {
	stores := &Stores{}

	switch p.Driver {
	case DriverMemory, "":
		stores.Snapshots = memory.NewStore()
	case DriverFile:
		stores.Snapshots = file.New(p.Dir)
	case DriverSQLite:
		st, err := sqlite.Open(p.SQLite)
		if err != nil {
			return nil, err
		}
		stores.Snapshots, stores.closer = st, st
	case DriverRedis:
		var opts []redis.Option
		if p.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(p.Redis.Prefix))
		}
		if p.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(p.Redis.TTL.Std()))
		}
		st := redis.New(p.Redis.Addr, p.Redis.Password, p.Redis.DB, opts...)
		if err := st.Ping(ctx); err != nil {
			st.Client().Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", p.Redis.Addr, err)
		}
		stores.Snapshots, stores.closer = st, st.Client()
		stores.Locker = redis.NewLocker(st.Client(), prefixOr(p.Redis.Prefix))
	default:
		return nil, fmt.Errorf("%w: unknown persistence driver %q", ErrInvalidConfig, p.Driver)
	}

	var mws []middleware.Middleware
	if len(p.MaskKeys) > 0 {
		mw, err := middleware.NewPIIMiddleware(p.MaskKeys)
		if err != nil {
			stores.Close()
			return nil, err
		}
		mws = append(mws, mw)
	}
	active, fallback, err := p.Keys()
	if err != nil {
		stores.Close()
		return nil, err
	}
	if active != nil {
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
		if err != nil {
			stores.Close()
			return nil, err
		}
		mws = append(mws, mw)
	}
	stores.Snapshots = middleware.Chain(stores.Snapshots, mws...)

	return stores, nil
}

func prefixOr(prefix string) string {
	if prefix == "" {
		return redis.DefaultPrefix
	}
	return prefix
}
