// Package retry wraps connection attempts against external services in
// exponential backoff.
package retry

import (
	"context"
	"fmt"
	"time"

	retrygo "github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     uint
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	MaxTotalTimeout time.Duration
}

// DefaultConfig returns a default retry configuration with 1 minute max timeout
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     10,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		MaxTotalTimeout: 60 * time.Second,
	}
}

// Do runs fn until it succeeds, the attempts run out or ctx ends. Every failed
// attempt is logged against serviceName.
func Do(ctx context.Context, cfg Config, serviceName string, fn func(ctx context.Context) error) error {
	if cfg.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxTotalTimeout)
		defer cancel()
	}

	err := retrygo.Do(
		func() error { return fn(ctx) },
		retrygo.Context(ctx),
		retrygo.Attempts(cfg.MaxAttempts),
		retrygo.Delay(cfg.InitialDelay),
		retrygo.MaxDelay(cfg.MaxDelay),
		retrygo.DelayType(retrygo.BackOffDelay),
		retrygo.LastErrorOnly(true),
		retrygo.OnRetry(func(n uint, err error) {
			log.Warn().
				Err(err).
				Str("service", serviceName).
				Uint("attempt", n+1).
				Msg("connection attempt failed, retrying")
		}),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", serviceName, err)
	}
	return nil
}
