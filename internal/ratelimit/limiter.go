package ratelimit

import (
	"context"
	"time"

	"github.com/factchecker/satyata/internal/config"
	"github.com/rs/zerolog/log"
)

const (
	dailyWindow    = 24 * time.Hour
	dailyKeyPrefix = "day:"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration // zero when allowed
}

// Limiter applies a per-window limit and an optional daily ceiling.
type Limiter struct {
	store      Store
	limit      int
	window     time.Duration
	dailyLimit int
	now        func() time.Time
}

// NewLimiter creates a limiter allowing limit requests per window per key.
// A dailyLimit of zero or less disables the daily ceiling.
func NewLimiter(store Store, limit int, window time.Duration, dailyLimit int) *Limiter {
	return &Limiter{
		store:      store,
		limit:      limit,
		window:     window,
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
}

// NewFromConfig builds a limiter over the given store.
func NewFromConfig(store Store, cfg *config.RateLimitConfig) *Limiter {
	return NewLimiter(store, cfg.MaxRequests, cfg.Window, cfg.MaxRequestsDay)
}

// Allow records a request for key and reports whether it may proceed.
// Store failures are logged and the request is allowed; the error is still
// returned so callers can surface it.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()

	count, resetAt, err := l.store.Hit(ctx, key, l.window, now)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Rate limit store unavailable, allowing request")
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit, ResetAt: now.Add(l.window)}, err
	}

	d := decide(count, l.limit, resetAt, now)
	if !d.Allowed || l.dailyLimit <= 0 {
		return d, nil
	}

	dayCount, dayReset, err := l.store.Hit(ctx, dailyKeyPrefix+key, dailyWindow, now)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Daily rate limit store unavailable, allowing request")
		return d, err
	}
	if dayCount > l.dailyLimit {
		return decide(dayCount, l.dailyLimit, dayReset, now), nil
	}
	return d, nil
}

func decide(count, limit int, resetAt, now time.Time) Decision {
	d := Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: limit - count,
		ResetAt:   resetAt,
	}
	if d.Remaining < 0 {
		d.Remaining = 0
	}
	if !d.Allowed {
		d.RetryAfter = resetAt.Sub(now)
		if d.RetryAfter < time.Second {
			d.RetryAfter = time.Second
		}
	}
	return d
}
