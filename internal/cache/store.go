package cache

import (
	"context"
	"errors"
	"time"
)

// Store is the cache as the services see it: Redis behind a circuit
// breaker, with every outcome counted. A miss is not a failure.
type Store struct {
	redis   *RedisCache
	breaker *CircuitBreaker
	metrics *CacheMetrics
}

func NewStore(redis *RedisCache, breaker *CircuitBreaker, metrics *CacheMetrics) *Store {
	if breaker == nil {
		breaker = NewCircuitBreaker(nil)
	}
	if metrics == nil {
		metrics = NewCacheMetrics()
	}
	return &Store{redis: redis, breaker: breaker, metrics: metrics}
}

func (s *Store) Get(ctx context.Context, key string, dest interface{}) error {
	var miss bool
	err := s.breaker.Execute(func() error {
		err := s.redis.Get(ctx, key, dest)
		if errors.Is(err, ErrCacheMiss) {
			miss = true
			return nil
		}
		return err
	})

	switch {
	case miss:
		s.metrics.RecordMiss()
		return ErrCacheMiss
	case err != nil:
		s.metrics.RecordError()
		return s.unavailable(err)
	}
	s.metrics.RecordHit()
	return nil
}

func (s *Store) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	err := s.breaker.Execute(func() error {
		return s.redis.Set(ctx, key, value, ttl)
	})
	if err != nil {
		s.metrics.RecordError()
		return s.unavailable(err)
	}
	s.metrics.RecordSet()
	return nil
}

func (s *Store) DeletePattern(ctx context.Context, pattern string) error {
	err := s.breaker.Execute(func() error {
		return s.redis.DeletePattern(ctx, pattern)
	})
	if err != nil {
		s.metrics.RecordError()
		return s.unavailable(err)
	}
	s.metrics.RecordDelete()
	return nil
}

func (s *Store) Counter(ctx context.Context, key string) (int64, error) {
	var n int64
	err := s.breaker.Execute(func() error {
		var err error
		n, err = s.redis.Counter(ctx, key)
		return err
	})
	if err != nil {
		s.metrics.RecordError()
		return 0, s.unavailable(err)
	}
	return n, nil
}

func (s *Store) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var n int64
	err := s.breaker.Execute(func() error {
		var err error
		n, err = s.redis.Incr(ctx, key, ttl)
		return err
	})
	if err != nil {
		s.metrics.RecordError()
		return 0, s.unavailable(err)
	}
	return n, nil
}

func (s *Store) Health(ctx context.Context) error {
	return s.redis.Health(ctx)
}

func (s *Store) Metrics() *CacheMetrics {
	return s.metrics
}

func (s *Store) Stats() map[string]interface{} {
	return map[string]interface{}{
		"cache":   s.metrics.GetStats(),
		"breaker": s.breaker.GetStats(),
		"redis":   s.redis.Stats(),
	}
}

func (s *Store) Close() error {
	return s.redis.Close()
}

func (s *Store) unavailable(err error) error {
	if errors.Is(err, ErrCircuitBreakerOpen) {
		return errors.Join(ErrCacheDown, err)
	}
	return err
}
