package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"quiz-results-service/internal/app"
	"quiz-results-service/internal/config"
	"quiz-results-service/internal/domain"
	"quiz-results-service/internal/infra/memory"
	pgstore "quiz-results-service/internal/infra/postgres"
	redisinfra "quiz-results-service/internal/infra/redis"
	transport "quiz-results-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz results server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		secret = "dev-secret"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(sampleQuizzes())
	if pool != nil {
		loader = pgstore.NewCatalogLoader(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalog app.CatalogRepository
	if redisClient != nil {
		catalog = redisinfra.NewCatalog(redisClient, loader, catalogTTL)
	} else {
		catalog = memory.NewCatalog(loader, catalogTTL)
	}

	var (
		resultStore app.ResultStore      = memory.NewResultStore()
		accessStore app.AccessStore      = memory.NewAccessStore()
		assocStore  app.AssociationStore = memory.NewAssociationStore()
	)
	if cfg.Postgres.URL != "" {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())
		resultStore = pgstore.NewResultStore(db)
		accessStore = pgstore.NewAccessStore(db)
		assocStore = pgstore.NewAssociationStore(db)
	}

	var grantCache app.GrantCache
	if redisClient != nil {
		grantCache = redisinfra.NewGrantCache(redisClient, redisTTL)
	}

	feed := app.NewProgressFeed()
	results := app.NewResultService(resultStore, catalog, feed)
	access := app.NewAccessService(catalog, accessStore, grantCache, memory.ApproveAllPayments{})
	assoc := app.NewAssociationService(catalog, assocStore)

	auth := transport.NewAuthenticator(secret)
	handlers := transport.NewHandlers(results, access, assoc, catalog, feed, auth)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handlers.NewRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz results service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes provides a minimal catalog for demo mode; production reads
// quizzes from Postgres.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:     "quiz-1",
			Title:  "Arithmetic warm-up",
			IsFree: true,
			Questions: []domain.Question{
				{
					ID:   "q1",
					Text: "What is 2 + 2?",
					Options: []domain.Option{
						{ID: "o1", Text: "3", IsRight: false},
						{ID: "o2", Text: "4", IsRight: true},
						{ID: "o3", Text: "5", IsRight: false},
					},
				},
				{
					ID:   "q2",
					Text: "Select every even number",
					Options: []domain.Option{
						{ID: "o4", Text: "2", IsRight: true},
						{ID: "o5", Text: "7", IsRight: false},
						{ID: "o6", Text: "8", IsRight: true},
					},
				},
			},
		},
	}
}
