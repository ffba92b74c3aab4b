package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters implements every hook interface by keeping running totals.
// It is safe for concurrent use.
type Counters struct {
	conversions atomic.Int64
	failures    atomic.Int64
	regions     atomic.Int64
	busyNanos   atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	requests    atomic.Int64
	serverErrs  atomic.Int64
}

// CounterSnapshot is a point-in-time copy of Counters.
type CounterSnapshot struct {
	Conversions  int64         `json:"conversions"`
	Failures     int64         `json:"failures"`
	Regions      int64         `json:"regions"`
	ConvertTime  time.Duration `json:"convert_time_ns"`
	CacheHits    int64         `json:"cache_hits"`
	CacheMisses  int64         `json:"cache_misses"`
	Requests     int64         `json:"requests"`
	ServerErrors int64         `json:"server_errors"`
}

// NewCounters creates zeroed counters.
func NewCounters() *Counters {
	return &Counters{}
}

// Snapshot returns the current totals.
func (c *Counters) Snapshot() CounterSnapshot {
	return CounterSnapshot{
		Conversions:  c.conversions.Load(),
		Failures:     c.failures.Load(),
		Regions:      c.regions.Load(),
		ConvertTime:  time.Duration(c.busyNanos.Load()),
		CacheHits:    c.cacheHits.Load(),
		CacheMisses:  c.cacheMisses.Load(),
		Requests:     c.requests.Load(),
		ServerErrors: c.serverErrs.Load(),
	}
}

func (c *Counters) OnConvertStart(context.Context, string) {}

func (c *Counters) OnConvertComplete(_ context.Context, _ string, regions int, d time.Duration, err error) {
	if err != nil {
		c.failures.Add(1)
		return
	}
	c.conversions.Add(1)
	c.regions.Add(int64(regions))
	c.busyNanos.Add(int64(d))
}

func (c *Counters) OnCacheHit(context.Context, string)      { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)     { c.cacheMisses.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int) {}

func (c *Counters) OnRequest(context.Context, string, string) { c.requests.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status >= 500 {
		c.serverErrs.Add(1)
	}
}

var (
	_ ConvertHooks = (*Counters)(nil)
	_ CacheHooks   = (*Counters)(nil)
	_ HTTPHooks    = (*Counters)(nil)
)
