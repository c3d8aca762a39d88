// Package ingest loads knowledge fragments from a JSON document, embeds them,
// and upserts them into the store. It backs the CLI ingest command.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sellarte/internal/knowledge"
	"sellarte/internal/knowledge/embed"
	id "sellarte/pkg/domain"
	dErrors "sellarte/pkg/domain-errors"
	"sellarte/pkg/platform/audit"
)

// Store is what ingestion needs from persistence.
type Store interface {
	Upsert(ctx context.Context, fragment knowledge.Fragment) error
	Count(ctx context.Context) (int, error)
}

const embedConcurrency = 4

type Service struct {
	store    Store
	provider embed.Provider
	logger   *slog.Logger
	auditor  audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func New(store Store, provider embed.Provider, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("knowledge store is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("embedding provider is required")
	}
	svc := &Service{store: store, provider: provider, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// document is the ingestion file shape: a JSON array of fragments.
type document []struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Ingest reads fragments from r, embeds them concurrently, and upserts each
// one. Blank fragments are skipped. Returns the number ingested.
func (s *Service) Ingest(ctx context.Context, r io.Reader, actor string) (int, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInvalidInput, "fragment document is not valid JSON")
	}

	var fragments []knowledge.Fragment
	for _, entry := range doc {
		if strings.TrimSpace(entry.Content) == "" {
			continue
		}
		fragments = append(fragments, knowledge.Fragment{
			ID:        id.NewFragmentID(),
			Title:     strings.TrimSpace(entry.Title),
			Content:   strings.TrimSpace(entry.Content),
			CreatedAt: time.Now().UTC(),
		})
	}
	if len(fragments) == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "fragment document contains no content")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i := range fragments {
		g.Go(func() error {
			vector, err := s.provider.Embed(gctx, fragments[i].Content)
			if err != nil {
				return fmt.Errorf("embed fragment %q: %w", fragments[i].Title, err)
			}
			fragments[i].Embedding = vector
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "embedding failed during ingestion")
	}

	// Upserts run sequentially so store insertion order matches the document.
	for _, fragment := range fragments {
		if err := s.store.Upsert(ctx, fragment); err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store fragment")
		}
	}

	audit.Record(ctx, s.logger, s.auditor, audit.ActionKnowledgeIngested, actor, "corpus",
		"fragments", strconv.Itoa(len(fragments)))
	return len(fragments), nil
}
