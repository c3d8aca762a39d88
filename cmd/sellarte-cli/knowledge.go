package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sellarte/internal/knowledge"
	"sellarte/internal/knowledge/embed"
	"sellarte/internal/knowledge/ingest"
	"sellarte/internal/knowledge/retriever"
	knowledgestore "sellarte/internal/knowledge/store"
	"sellarte/internal/platform/config"
	"sellarte/internal/platform/logger"
	"sellarte/internal/platform/postgres"
)

// knowledgeDeps opens the fragment store and embedding provider from the
// environment. The CLI always talks to postgres; there is no point ingesting
// into a memory store that dies with the process.
func knowledgeDeps(ctx context.Context) (*knowledgestore.Postgres, embed.Provider, func(), error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := postgres.OpenPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	return knowledgestore.NewPostgres(pool), embed.NewHTTPProvider(cfg.Embedding), pool.Close, nil
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [file]",
		Short: "Ingest a JSON fragment document into the knowledge base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, provider, cleanup, err := knowledgeDeps(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			svc, err := ingest.New(store, provider, ingest.WithLogger(logger.New()))
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			count, err := svc.Ingest(ctx, f, "cli")
			if err != nil {
				return err
			}
			fmt.Printf("ingested %d fragments\n", count)
			return nil
		},
	}
}

func searchCmd() *cobra.Command {
	var (
		threshold  float64
		maxResults int
		keyword    bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Query the knowledge base (embedding path, or --keyword for the fallback)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, provider, cleanup, err := knowledgeDeps(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			r, err := retriever.New(store, provider, retriever.WithLogger(logger.New()))
			if err != nil {
				return err
			}

			matches, err := runSearch(ctx, r, args[0], threshold, maxResults, keyword)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Println("no matches")
				return nil
			}
			for _, match := range matches {
				if match.Scored {
					fmt.Printf("%.3f  %s\n", match.Score, match.Fragment.Title)
				} else {
					fmt.Printf("  -    %s\n", match.Fragment.Title)
				}
				fmt.Printf("       %s\n", match.Fragment.Content)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0.3, "minimum cosine similarity")
	cmd.Flags().IntVar(&maxResults, "max", 4, "maximum results")
	cmd.Flags().BoolVar(&keyword, "keyword", false, "use the keyword fallback path only")
	return cmd
}

func runSearch(ctx context.Context, r *retriever.Retriever, query string, threshold float64, maxResults int, keyword bool) ([]knowledge.Match, error) {
	if keyword {
		return r.KeywordSearch(ctx, query, maxResults)
	}
	return r.EmbedSearch(ctx, query, threshold, maxResults)
}
