package redishelf

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Counter provides atomic counter operations against a shared Redis key.
// Cart ids come from a Counter on CartCounterKey: INCR is atomic across
// service instances, so allocation stays monotonic without in-process state.
type Counter struct {
	rdb     *redis.Client
	key     string
	logger  Logger
	metrics Metrics
}

// NewCounter creates a Redis-backed atomic counter
func NewCounter(rdb *redis.Client, key string, logger Logger, metrics Metrics) *Counter {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	if metrics == nil {
		metrics = &NoOpMetrics{}
	}
	return &Counter{
		rdb:     rdb,
		key:     key,
		logger:  logger,
		metrics: metrics,
	}
}

// Increment atomically increments the counter and returns the new value
func (c *Counter) Increment(ctx context.Context) (int64, error) {
	if c.rdb == nil {
		return 0, fmt.Errorf("redis not available")
	}

	val, err := c.rdb.Incr(ctx, c.key).Result()
	if err != nil {
		c.metrics.Increment(MetricCounterError, "operation", "increment", "key", c.key)
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	c.metrics.Increment(MetricCounterIncrement, "key", c.key)
	return val, nil
}

// Current returns the counter value without incrementing. A counter that
// has never been incremented reads as 0.
func (c *Counter) Current(ctx context.Context) (int64, error) {
	if c.rdb == nil {
		return 0, fmt.Errorf("redis not available")
	}

	val, err := c.rdb.Get(ctx, c.key).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		c.metrics.Increment(MetricCounterError, "operation", "current", "key", c.key)
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}

	intVal, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, decodeErr(c.key, "", fmt.Errorf("not an integer: %w", err))
	}
	return intVal, nil
}

// Set forces the counter to a specific value. Only for migrations or
// recovery; normal allocation goes through Increment.
func (c *Counter) Set(ctx context.Context, value int64) error {
	if c.rdb == nil {
		return fmt.Errorf("redis not available")
	}

	if err := c.rdb.Set(ctx, c.key, value, 0).Err(); err != nil {
		c.metrics.Increment(MetricCounterError, "operation", "set", "key", c.key)
		return fmt.Errorf("failed to set counter: %w", err)
	}

	c.logger.Info("counter value set", "key", c.key, "value", value)
	return nil
}

// Reset resets the counter to zero
func (c *Counter) Reset(ctx context.Context) error {
	return c.Set(ctx, 0)
}

// Delete removes the counter key entirely
func (c *Counter) Delete(ctx context.Context) error {
	if c.rdb == nil {
		return fmt.Errorf("redis not available")
	}

	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		c.metrics.Increment(MetricCounterError, "operation", "delete", "key", c.key)
		return fmt.Errorf("failed to delete counter: %w", err)
	}

	c.logger.Info("counter deleted", "key", c.key)
	return nil
}
