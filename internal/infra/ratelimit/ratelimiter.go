// Package ratelimit implements sliding-window request limits on Redis.
package ratelimit

import (
	"context"
	"time"
)

type Config struct {
	RequestsPerMinute int
	RequestsPerHour   int
	RequestsPerDay    int
}

type Limiter interface {
	Allow(ctx context.Context, key string, cfg Config) (bool, error)
	Count(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
