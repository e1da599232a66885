// Package memory implements the in-process cache provider: a key→entry map
// with absolute per-entry expiry, lazy eviction on read and a periodic
// background sweep. Entries are local to one process, which is exactly why
// this provider is gated to development, tests and emergency fallback.
package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/harborline/saas-cache/internal/core/domain/cachekey"
	"github.com/harborline/saas-cache/internal/core/ports"
)

// DefaultSweepInterval bounds memory growth between reads when the caller
// does not configure its own interval.
const DefaultSweepInterval = time.Minute

type entry struct {
	value     []byte
	createdAt time.Time
	// zero expiresAt means the entry never expires on its own
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Provider is the in-process cache backend.
type Provider struct {
	mu      sync.RWMutex
	entries map[cachekey.Key]*entry

	hits   atomic.Int64
	misses atomic.Int64

	sweepInterval time.Duration
	stopSweep     chan struct{}
	stopOnce      sync.Once
	started       bool
}

var _ ports.CacheProvider = (*Provider)(nil)

// New creates a provider sweeping at the given interval (<= 0 selects
// DefaultSweepInterval). The sweeper starts on Initialize.
func New(sweepInterval time.Duration) *Provider {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	return &Provider{
		entries:       make(map[cachekey.Key]*entry),
		sweepInterval: sweepInterval,
		stopSweep:     make(chan struct{}),
	}
}

// Initialize starts the expiry sweeper. Safe to call more than once.
func (p *Provider) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	p.started = true
	go p.sweepLoop(p.stopSweep)
	return nil
}

func (p *Provider) sweepLoop(stop chan struct{}) {
	ticker := time.NewTicker(p.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.sweep(time.Now())
		case <-stop:
			return
		}
	}
}

// sweep removes expired entries in a single pass over the map.
func (p *Provider) sweep(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, e := range p.entries {
		if e.expired(now) {
			delete(p.entries, k)
		}
	}
}

// Get returns the value for key, lazily evicting an expired entry even if
// the sweeper has not reached it yet.
func (p *Provider) Get(ctx context.Context, key cachekey.Key) ([]byte, bool, error) {
	now := time.Now()

	p.mu.RLock()
	e, ok := p.entries[key]
	p.mu.RUnlock()

	if ok && e.expired(now) {
		p.mu.Lock()
		// re-check under the write lock; a concurrent Set may have replaced it
		if cur, still := p.entries[key]; still && cur.expired(now) {
			delete(p.entries, key)
		}
		p.mu.Unlock()
		ok = false
	}

	if !ok {
		p.misses.Add(1)
		return nil, false, nil
	}
	p.hits.Add(1)
	return e.value, true, nil
}

// Set stores value with absolute expiry now+ttl; ttl <= 0 stores the entry
// without expiry.
func (p *Provider) Set(ctx context.Context, key cachekey.Key, value []byte, ttl time.Duration) error {
	now := time.Now()
	e := &entry{value: value, createdAt: now}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	p.mu.Lock()
	p.entries[key] = e
	p.mu.Unlock()
	return nil
}

func (p *Provider) Delete(ctx context.Context, key cachekey.Key) error {
	p.mu.Lock()
	delete(p.entries, key)
	p.mu.Unlock()
	return nil
}

func (p *Provider) Has(ctx context.Context, key cachekey.Key) (bool, error) {
	now := time.Now()
	p.mu.RLock()
	e, ok := p.entries[key]
	p.mu.RUnlock()
	return ok && !e.expired(now), nil
}

// Clear drops every entry and resets the hit/miss counters.
func (p *Provider) Clear(ctx context.Context) error {
	p.mu.Lock()
	p.entries = make(map[cachekey.Key]*entry)
	p.mu.Unlock()
	p.hits.Store(0)
	p.misses.Store(0)
	return nil
}

// InvalidatePattern deletes every key the pattern matches in one O(n) pass,
// acceptable at process-local scale.
func (p *Provider) InvalidatePattern(ctx context.Context, pattern cachekey.Pattern) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	removed := 0
	for k := range p.entries {
		if pattern.Matches(k) {
			delete(p.entries, k)
			removed++
		}
	}
	return removed, nil
}

func (p *Provider) Stats(ctx context.Context) (ports.CacheStats, error) {
	p.mu.RLock()
	keyCount := int64(len(p.entries))
	p.mu.RUnlock()

	hits := p.hits.Load()
	misses := p.misses.Load()
	stats := ports.CacheStats{Hits: hits, Misses: misses, KeyCount: keyCount}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats, nil
}

// Disconnect stops the sweeper. Idempotent; entries stay readable so a
// fallback swap can still drain them if it wants to.
func (p *Provider) Disconnect() error {
	p.stopOnce.Do(func() { close(p.stopSweep) })
	return nil
}
