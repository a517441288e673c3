package redishelf

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store provides typed hash, set and existence operations on top of a Redis
// client, with logging and metrics woven around every remote call. It is
// domain-agnostic: the services layer decides which keys mean what.
type Store struct {
	rdb     *redis.Client
	logger  Logger
	metrics Metrics
}

// NewStore creates a store with no-op logger and metrics
func NewStore(rdb *redis.Client) *Store {
	return &Store{
		rdb:     rdb,
		logger:  &NoOpLogger{},
		metrics: &NoOpMetrics{},
	}
}

// NewStoreWithObservability creates a store with logging and metrics
func NewStoreWithObservability(rdb *redis.Client, logger Logger, metrics Metrics) *Store {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	if metrics == nil {
		metrics = &NoOpMetrics{}
	}
	return &Store{rdb: rdb, logger: logger, metrics: metrics}
}

// SetLogger updates the logger for this store
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// SetMetrics updates the metrics collector for this store
func (s *Store) SetMetrics(metrics Metrics) {
	s.metrics = metrics
}

// Logger returns the store's logger so collaborators can share it.
func (s *Store) Logger() Logger { return s.logger }

// Metrics returns the store's metrics collector.
func (s *Store) Metrics() Metrics { return s.metrics }

// Client returns the underlying Redis client (for advanced use cases like
// counters and native search commands).
func (s *Store) Client() *redis.Client { return s.rdb }

// PutHash writes field-value pairs into the hash at key. args is the flat
// sequence a Mapping produces: field, value, field, value, ...
func (s *Store) PutHash(ctx context.Context, key string, args []interface{}) error {
	if len(args) == 0 {
		return nil
	}
	start := time.Now()
	err := s.rdb.HSet(ctx, key, args...).Err()
	s.metrics.Timing(MetricHashPutDuration, time.Since(start))

	if err != nil {
		s.metrics.Increment(MetricHashPutError)
		return err
	}
	s.metrics.Increment(MetricHashPutSuccess)
	return nil
}

// GetHash fetches every field of the hash at key. Redis cannot distinguish
// a missing key from an empty hash, so an empty result maps to ErrNotFound.
func (s *Store) GetHash(ctx context.Context, key string) (map[string]string, error) {
	start := time.Now()
	hash, err := s.rdb.HGetAll(ctx, key).Result()
	s.metrics.Timing(MetricHashGetDuration, time.Since(start))

	if err != nil {
		s.metrics.Increment(MetricHashGetError)
		return nil, err
	}
	if len(hash) == 0 {
		s.metrics.Increment(MetricHashGetMiss)
		return nil, WithContext(ErrNotFound, map[string]interface{}{"key": key})
	}
	s.metrics.Increment(MetricHashGetSuccess)
	return hash, nil
}

// HashField fetches a single field of the hash at key. A missing key or
// missing field maps to ErrNotFound.
func (s *Store) HashField(ctx context.Context, key, field string) (string, error) {
	val, err := s.rdb.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return "", WithContext(ErrNotFound, map[string]interface{}{
			"key":   key,
			"field": field,
		})
	}
	if err != nil {
		s.metrics.Increment(MetricHashGetError)
		return "", err
	}
	return val, nil
}

// DeleteHashFields removes fields from the hash at key. Deleting fields
// that are not present is a no-op.
func (s *Store) DeleteHashFields(ctx context.Context, key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return s.rdb.HDel(ctx, key, fields...).Err()
}

// AddSetMembers unions members into the set at key. SADD is idempotent, so
// duplicates have no effect.
func (s *Store) AddSetMembers(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	start := time.Now()
	err := s.rdb.SAdd(ctx, key, args...).Err()
	s.metrics.Timing(MetricSetAddDuration, time.Since(start))

	if err != nil {
		s.metrics.Increment(MetricSetAddError)
		return err
	}
	s.metrics.Increment(MetricSetAddSuccess)
	return nil
}

// SetMembers returns the members of the set at key. A missing set is an
// empty slice, not an error; the owning entity's hash decides existence.
func (s *Store) SetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := s.rdb.SMembers(ctx, key).Result()
	if err == redis.Nil {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Exists checks if a key exists
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ping checks connection health
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the underlying client's resources
func (s *Store) Close() error {
	return s.rdb.Close()
}
