package geo

import (
	"context"
	"errors"
	"time"

	"access-log-backend/internal/model"

	"github.com/cenkalti/backoff"
	"github.com/rs/zerolog/log"
)

// RetryPolicy bounds the retries WithRetry performs for a single IP.
type RetryPolicy struct {
	MaxRetries     uint64
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Timeout        time.Duration // per attempt; zero means none
}

type retryingLookup struct {
	next   Lookup
	policy RetryPolicy
}

// WithRetry retries failed lookups that are marked retryable with exponential backoff.
// Each call still resolves exactly one IP, so callers keep one invocation per IP.
func WithRetry(next Lookup, policy RetryPolicy) Lookup {
	return &retryingLookup{next: next, policy: policy}
}

func (r *retryingLookup) Lookup(ctx context.Context, ip string) (model.GeoInfo, error) {
	// backoff treats zero max retries as unlimited
	if r.policy.MaxRetries == 0 {
		return r.attempt(ctx, ip)
	}

	var info model.GeoInfo
	attempt := 0

	operation := func() error {
		attempt++
		result, err := r.attempt(ctx, ip)
		if err == nil {
			info = result
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		var lookupErr *LookupError
		if errors.As(err, &lookupErr) && !lookupErr.Retryable {
			return backoff.Permanent(err)
		}
		log.Warn().Err(err).Str("ip", ip).Int("attempt", attempt).Msg("Attempt failed: geolocation lookup")
		return err
	}

	b := backoff.NewExponentialBackOff()
	if r.policy.InitialBackoff > 0 {
		b.InitialInterval = r.policy.InitialBackoff
	}
	if r.policy.MaxBackoff > 0 {
		b.MaxInterval = r.policy.MaxBackoff
	}
	b.MaxElapsedTime = 0

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, r.policy.MaxRetries), ctx))
	if err != nil {
		return model.GeoInfo{}, err
	}
	return info, nil
}

func (r *retryingLookup) attempt(ctx context.Context, ip string) (model.GeoInfo, error) {
	if r.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.policy.Timeout)
		defer cancel()
	}
	return r.next.Lookup(ctx, ip)
}
