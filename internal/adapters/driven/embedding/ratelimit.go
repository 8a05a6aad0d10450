package embedding

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
)

// Ensure RateLimited implements the interface.
var _ driven.EmbeddingService = (*RateLimited)(nil)

// DefaultBurst is used when a positive rate is configured without a burst.
const DefaultBurst = 1

// RateLimited throttles calls to an underlying embedding service using a
// token bucket. Each Embed or EmbedBatch call consumes one token; Ping does not.
// Safe for concurrent use.
type RateLimited struct {
	next    driven.EmbeddingService
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a limiter allowing requestsPerSecond
// sustained calls and burst calls at once.
func NewRateLimited(next driven.EmbeddingService, requestsPerSecond float64, burst int) *RateLimited {
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Embed waits for a token then delegates.
func (r *RateLimited) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.Embed(ctx, text)
}

// EmbedBatch waits for a token then delegates.
func (r *RateLimited) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.EmbedBatch(ctx, texts)
}

// Dimensions returns the wrapped service's vector size.
func (r *RateLimited) Dimensions() int {
	return r.next.Dimensions()
}

// ModelName returns the wrapped service's model.
func (r *RateLimited) ModelName() string {
	return r.next.ModelName()
}

// Ping is not throttled.
func (r *RateLimited) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// Close closes the wrapped service.
func (r *RateLimited) Close() error {
	return r.next.Close()
}
