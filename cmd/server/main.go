// main wires the storefront process: stores, providers, services, the HTTP
// router, and the metrics listener. Business logic lives in the internal
// packages; everything here is composition.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	cataloghandler "sellarte/internal/catalog/handler"
	catalogservice "sellarte/internal/catalog/service"
	catalogstore "sellarte/internal/catalog/store"
	"sellarte/internal/chat"
	"sellarte/internal/checkout"
	"sellarte/internal/knowledge/embed"
	"sellarte/internal/knowledge/retriever"
	knowledgestore "sellarte/internal/knowledge/store"
	"sellarte/internal/mailer"
	"sellarte/internal/migrations"
	"sellarte/internal/platform/config"
	"sellarte/internal/platform/httpserver"
	"sellarte/internal/platform/logger"
	"sellarte/internal/platform/metrics"
	"sellarte/internal/platform/postgres"
	platformredis "sellarte/internal/platform/redis"
	"sellarte/internal/pricing"
	wholesalehandler "sellarte/internal/wholesale/handler"
	wholesaleservice "sellarte/internal/wholesale/service"
	wholesalestore "sellarte/internal/wholesale/store"
	"sellarte/pkg/platform/audit"
	"sellarte/pkg/platform/circuit"
	adminmw "sellarte/pkg/platform/middleware/admin"
)

// inkOnlySurcharge is the flat fee the quick-buy widget charges for any
// non-default ink color when the ink_only strategy is selected.
const inkOnlySurcharge = 3000

func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: postgres when configured, memory otherwise.
	var (
		wholesaleStore wholesaleservice.Store = wholesalestore.NewMemory()
		catalogStore   catalogservice.Store   = catalogstore.NewMemory()
		knowledgeStore retriever.Store        = knowledgestore.NewMemory()
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.OpenSQL(cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if cfg.MigrateOnStart {
			if err := migrations.Up(db); err != nil {
				log.Error("migrations failed", "error", err)
				os.Exit(1)
			}
		}

		pool, err := postgres.OpenPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("pgx pool connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		wholesaleStore = wholesalestore.NewPostgres(db)
		catalogStore = catalogstore.NewPostgres(db)
		knowledgeStore = knowledgestore.NewPostgres(pool)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var auditor audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka audit publisher failed", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		auditor = kafka
	}

	// Embedding pipeline: HTTP provider, redis cache, circuit breaker.
	var provider embed.Provider = embed.NewHTTPProvider(cfg.Embedding)
	provider = embed.NewCache(provider, redisClient, cfg.Embedding.Model, log)
	provider = embed.NewBreaker(provider, circuit.New("embedding", circuit.WithFailureThreshold(5)), log)

	strategy, err := pricing.NewStrategy(cfg.PricingStrategy, inkOnlySurcharge)
	if err != nil {
		log.Error("invalid pricing strategy", "error", err)
		os.Exit(1)
	}

	mail := mailer.New(cfg, log)

	wholesaleSvc, err := wholesaleservice.New(wholesaleStore,
		wholesaleservice.WithLogger(log),
		wholesaleservice.WithAuditPublisher(auditor),
		wholesaleservice.WithNotifier(mail),
	)
	if err != nil {
		log.Error("wholesale service init failed", "error", err)
		os.Exit(1)
	}

	catalogSvc, err := catalogservice.New(catalogStore, strategy,
		catalogservice.WithLogger(log),
		catalogservice.WithPriceResolver(wholesaleSvc),
	)
	if err != nil {
		log.Error("catalog service init failed", "error", err)
		os.Exit(1)
	}

	knowledgeRetriever, err := retriever.New(knowledgeStore, provider, retriever.WithLogger(log))
	if err != nil {
		log.Error("retriever init failed", "error", err)
		os.Exit(1)
	}

	chatSvc, err := chat.New(knowledgeRetriever, chat.NewHTTPCompleter(cfg.Chat),
		chat.WithLogger(log),
		chat.WithRetrieval(cfg.Chat.Threshold, cfg.Chat.MaxResults),
	)
	if err != nil {
		log.Error("chat service init failed", "error", err)
		os.Exit(1)
	}

	checkoutSvc, err := checkout.New(checkout.NewProvider(cfg.PaymentLinkURL, cfg.PaymentLinkToken),
		checkout.WithLogger(log),
		checkout.WithAuditPublisher(auditor),
	)
	if err != nil {
		log.Error("checkout service init failed", "error", err)
		os.Exit(1)
	}

	sessions := adminmw.NewSessions(cfg.JWTSigningKey, cfg.AdminEmails, 8*time.Hour)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Post("/admin/login", adminmw.LoginHandler(sessions, cfg.AdminPasswordHash, log))

	wholesaleHandler := wholesalehandler.New(wholesaleSvc, log)
	catalogHandler := cataloghandler.New(catalogSvc, log)

	wholesaleHandler.Register(router)
	catalogHandler.Register(router)
	chat.NewHandler(chatSvc, log).Register(router)
	checkout.NewHandler(checkoutSvc, log).Register(router)

	router.Group(func(r chi.Router) {
		r.Use(adminmw.Either(cfg.AdminToken, sessions, log))
		wholesaleHandler.RegisterAdmin(r)
		catalogHandler.RegisterAdmin(r)
	})

	srv := httpserver.New(cfg.Addr, router)
	metricsSrv := httpserver.New(cfg.MetricsAddr, metrics.Handler())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting sellarte server", "addr", cfg.Addr, "pricing_strategy", strategy.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting metrics listener", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
