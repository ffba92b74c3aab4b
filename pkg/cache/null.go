package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. It backs --no-cache, a disabled [cache] section,
// and unreachable backends.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache creates a null cache.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }
