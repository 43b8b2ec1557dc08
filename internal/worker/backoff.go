package worker

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"
)

type BackoffConfig struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

var DefaultBackoffConfig = BackoffConfig{
	BaseDelay: 500 * time.Millisecond,
	MaxDelay:  30 * time.Second,
}

// FullJitter returns a delay in [exp/2, exp*1.5) where exp doubles per attempt
// up to MaxDelay.
func FullJitter(attempt int, cfg BackoffConfig) time.Duration {
	exp := Exponential(attempt, cfg)
	if exp <= 0 {
		return 0
	}
	return exp/2 + time.Duration(rand.Int63n(int64(exp)))
}

func Exponential(attempt int, cfg BackoffConfig) time.Duration {
	if attempt <= 0 {
		return cfg.BaseDelay
	}
	return min(cfg.BaseDelay*time.Duration(1<<min(attempt, 30)), cfg.MaxDelay)
}

// SQLite reports lock contention through these messages.
var retryableErrors = []string{
	"database is locked",
	"database table is locked",
	"sqlite_busy",
	"i/o timeout",
}

// IsRetryableError reports whether a failed sweep is worth retrying soon
// rather than waiting for the next tick.
func IsRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range retryableErrors {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return errors.Is(err, context.DeadlineExceeded)
}
