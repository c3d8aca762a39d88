// Package retriever ranks knowledge fragments against a free-text query. The
// embedding path is primary; a keyword scan covers provider outages so chat
// grounding degrades instead of erroring.
package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sellarte/internal/knowledge"
	"sellarte/internal/knowledge/embed"
	dErrors "sellarte/pkg/domain-errors"
)

// Store supplies the fragment corpus as a read-only snapshot.
type Store interface {
	List(ctx context.Context) ([]knowledge.Fragment, error)
}

type Retriever struct {
	store    Store
	provider embed.Provider
	logger   *slog.Logger
	tracer   trace.Tracer
}

type Option func(*Retriever)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) { r.logger = logger }
}

func New(store Store, provider embed.Provider, opts ...Option) (*Retriever, error) {
	if store == nil {
		return nil, fmt.Errorf("knowledge store is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("embedding provider is required")
	}
	r := &Retriever{
		store:    store,
		provider: provider,
		logger:   slog.Default(),
		tracer:   otel.Tracer("sellarte/knowledge"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Retrieve runs the embedding path and falls back to the keyword path when it
// yields nothing usable. A failing embedding provider is not an error here: it
// is logged, counted, and answered by the fallback.
func (r *Retriever) Retrieve(ctx context.Context, query string, threshold float64, maxResults int) ([]knowledge.Match, error) {
	ctx, span := r.tracer.Start(ctx, "knowledge.Retrieve",
		trace.WithAttributes(attribute.Float64("retrieval.threshold", threshold)))
	defer span.End()

	matches, err := r.EmbedSearch(ctx, query, threshold, maxResults)
	if err != nil {
		embeddingFailures.Inc()
		r.logger.WarnContext(ctx, "embedding path unavailable, using keyword fallback", "error", err)
	}
	if len(matches) > 0 {
		retrievalTotal.WithLabelValues(pathEmbedding).Inc()
		span.SetAttributes(attribute.Int("retrieval.matches", len(matches)))
		return matches, nil
	}

	matches, kwErr := r.KeywordSearch(ctx, query, maxResults)
	if kwErr != nil {
		return nil, kwErr
	}
	if len(matches) > 0 {
		retrievalTotal.WithLabelValues(pathKeyword).Inc()
	} else {
		retrievalTotal.WithLabelValues(pathNone).Inc()
	}
	span.SetAttributes(attribute.Int("retrieval.matches", len(matches)))
	return matches, nil
}

// EmbedSearch ranks the corpus by cosine similarity to the query embedding.
// Every returned match scores at or above threshold, sorted descending, at
// most maxResults long. Provider failures surface as CodeUnavailable.
func (r *Retriever) EmbedSearch(ctx context.Context, query string, threshold float64, maxResults int) ([]knowledge.Match, error) {
	if maxResults <= 0 {
		return nil, nil
	}

	fragments, err := r.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load knowledge corpus")
	}
	if len(fragments) == 0 {
		return nil, nil
	}

	queryVector, err := r.provider.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	var matches []knowledge.Match
	for _, fragment := range fragments {
		score, ok := cosine(queryVector, fragment.Embedding)
		if !ok || score < threshold {
			continue
		}
		matches = append(matches, knowledge.Match{Fragment: fragment, Score: score, Scored: true})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches, nil
}

// cosine computes cosine similarity. Mismatched dimensions and zero vectors
// report not-ok; the fragment just does not participate in ranking.
func cosine(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
