package embed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	dErrors "sellarte/pkg/domain-errors"
	"sellarte/pkg/platform/circuit"
)

const probeInterval = 30 * time.Second

// Breaker wraps a provider with a circuit breaker so a flapping provider stops
// receiving traffic after repeated failures. While open, Embed fails fast with
// CodeUnavailable and the retriever flips straight to the keyword path; one
// probe per interval is let through to detect recovery.
type Breaker struct {
	next    Provider
	breaker *circuit.Breaker
	logger  *slog.Logger

	mu        sync.Mutex
	lastProbe time.Time
}

func NewBreaker(next Provider, breaker *circuit.Breaker, logger *slog.Logger) *Breaker {
	return &Breaker{next: next, breaker: breaker, logger: logger}
}

func (b *Breaker) Embed(ctx context.Context, text string) ([]float32, error) {
	if b.breaker.IsOpen() && !b.claimProbe() {
		return nil, dErrors.New(dErrors.CodeUnavailable, "embedding circuit is open")
	}

	vector, err := b.next.Embed(ctx, text)
	if err != nil {
		if _, change := b.breaker.RecordFailure(); change.Opened {
			b.logger.WarnContext(ctx, "embedding circuit opened", "breaker", b.breaker.Name(), "error", err)
		}
		return nil, err
	}
	if _, change := b.breaker.RecordSuccess(); change.Closed {
		b.logger.InfoContext(ctx, "embedding circuit closed", "breaker", b.breaker.Name())
	}
	return vector, nil
}

func (b *Breaker) claimProbe() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if time.Since(b.lastProbe) < probeInterval {
		return false
	}
	b.lastProbe = time.Now()
	return true
}

// Static returns fixed vectors keyed by exact text. Tests use it in place of
// the HTTP provider.
type Static struct {
	Vectors map[string][]float32
}

func (s *Static) Embed(_ context.Context, text string) ([]float32, error) {
	vector, ok := s.Vectors[text]
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnavailable, "no embedding for text")
	}
	return vector, nil
}
