package classifier

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy describes the bounded exponential backoff applied to oracle
// calls: an initial attempt plus up to MaxRetries retries, each retry
// preceded by a delay that starts at BaseDelay and grows by Multiplier.
// With the defaults (5, 2s, 2) a fully failing call sleeps 2+4+8+16+32 = 62s
// before degrading to Unmatched.
type RetryPolicy struct {
	MaxRetries uint64
	BaseDelay  time.Duration
	Multiplier float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 5, BaseDelay: 2 * time.Second, Multiplier: 2}
}

// Backoff builds a fresh backoff chain for one classification. Each call gets
// its own instance so concurrent classifications never share backoff state
// and one question's sleep cannot delay another.
func (p RetryPolicy) Backoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0
	b.MaxInterval = 10 * time.Minute
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithMaxRetries(b, p.MaxRetries)
}
