package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles inference calls across all workers so a large corpus
// does not hammer the service. One bucket is shared by segmentation and
// classification since both hit the same endpoint.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter allowing requestsPerSecond with the given burst
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until a call is allowed or the context is cancelled
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a call is allowed without waiting
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
