// Package cache implements the engine's two-tier cache: a fast in-process
// LRU/TTL tier backed by a durable external key/value tier. Values cross the
// durable boundary as JSON strings; the coordinator owns (de)serialization.
//
// Durable-tier failures never surface to callers: every read, write, or
// serialization error at that boundary degrades to "recompute". Compute
// failures always propagate.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"dashgen/internal/log"
)

// DurableStore is the port for the external durable tier. Implementations
// store string-serialized values only and may drop entries at any time; the
// coordinator treats the tier as eventually consistent.
type DurableStore interface {
	// Get returns the stored value and whether a live entry exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put stores a value with a TTL.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Remove deletes one key.
	Remove(ctx context.Context, key string) error

	// RemoveAll deletes an enumerated set of keys. The durable tier has no
	// pattern invalidation, so the caller must know its keys.
	RemoveAll(ctx context.Context, keys []string) error
}

// Store coordinates the two tiers. When disabled, Get always computes and
// Put/Invalidate are no-ops, so the rest of the engine stays correct with
// caching fully off.
type Store struct {
	enabled    bool
	defaultTTL time.Duration
	memory     *MemoryCache[any]
	durable    DurableStore
	knownKeys  []string
	logger     *log.Logger
}

// NewStore builds a coordinator over an optional durable tier. knownKeys is
// the enumerated durable key set cleared by InvalidateAll.
func NewStore(enabled bool, defaultTTL time.Duration, durable DurableStore, knownKeys []string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Store{
		enabled:    enabled,
		defaultTTL: defaultTTL,
		memory:     NewMemoryCache[any](256, defaultTTL),
		durable:    durable,
		knownKeys:  knownKeys,
		logger:     logger.WithComponent(log.ComponentCache),
	}
}

// Enabled reports whether the cache is globally on.
func (s *Store) Enabled() bool { return s.enabled }

// Get returns the cached value for key, computing and storing it on miss.
// The memory tier is checked first, then the durable tier; a durable hit is
// promoted back into memory. ttl <= 0 uses the store default.
func Get[T any](ctx context.Context, s *Store, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	if !s.enabled {
		return compute()
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	if v, ok := s.memory.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
		// Wrong type under this key; drop it and recompute.
		s.memory.Delete(key)
	}

	if s.durable != nil {
		raw, ok, err := s.durable.Get(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "Durable cache read failed, recomputing",
				log.FieldCacheKey, key, log.FieldError, err.Error())
		} else if ok {
			var typed T
			if err := json.Unmarshal([]byte(raw), &typed); err != nil {
				s.logger.WarnContext(ctx, "Durable cache entry unreadable, recomputing",
					log.FieldCacheKey, key, log.FieldError, err.Error())
			} else {
				s.memory.SetWithTTL(key, typed, ttl)
				return typed, nil
			}
		}
	}

	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}

	put(ctx, s, key, value, ttl)
	return value, nil
}

// Put unconditionally writes through both tiers.
func Put[T any](ctx context.Context, s *Store, key string, value T, ttl time.Duration) {
	if !s.enabled {
		return
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	put(ctx, s, key, value, ttl)
}

func put[T any](ctx context.Context, s *Store, key string, value T, ttl time.Duration) {
	s.memory.SetWithTTL(key, value, ttl)

	if s.durable == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.WarnContext(ctx, "Durable cache serialization failed",
			log.FieldCacheKey, key, log.FieldError, err.Error())
		return
	}
	if err := s.durable.Put(ctx, key, string(raw), ttl); err != nil {
		s.logger.WarnContext(ctx, "Durable cache write failed",
			log.FieldCacheKey, key, log.FieldError, err.Error())
	}
}

// Invalidate removes the key from both tiers.
func (s *Store) Invalidate(ctx context.Context, key string) {
	if !s.enabled {
		return
	}
	s.memory.Delete(key)
	if s.durable != nil {
		if err := s.durable.Remove(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "Durable cache remove failed",
				log.FieldCacheKey, key, log.FieldError, err.Error())
		}
	}
}

// InvalidateAll clears the whole memory tier and the enumerated known key
// set in the durable tier.
func (s *Store) InvalidateAll(ctx context.Context) {
	if !s.enabled {
		return
	}
	s.memory.Clear()
	if s.durable != nil && len(s.knownKeys) > 0 {
		if err := s.durable.RemoveAll(ctx, s.knownKeys); err != nil {
			s.logger.WarnContext(ctx, "Durable cache clear failed",
				log.FieldError, err.Error())
		}
	}
}

// CleanExpired removes expired memory-tier entries. Used by the periodic
// cleanup manager.
func (s *Store) CleanExpired() int {
	return s.memory.CleanExpired()
}
