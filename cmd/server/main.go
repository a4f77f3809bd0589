// kardex server: stock ledger HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"kardex/internal/config"
	"kardex/internal/domain/auth"
	"kardex/internal/domain/catalogs/category"
	"kardex/internal/domain/catalogs/product"
	"kardex/internal/domain/ledger"
	"kardex/internal/domain/reports"
	v1 "kardex/internal/infrastructure/http/v1"
	"kardex/internal/infrastructure/storage/postgres"
	"kardex/internal/infrastructure/storage/postgres/auth_repo"
	"kardex/internal/infrastructure/storage/postgres/catalog_repo"
	"kardex/internal/infrastructure/storage/postgres/ledger_repo"
	"kardex/internal/infrastructure/storage/postgres/report_repo"
	"kardex/migrations"
	"kardex/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Default().Fatalw("load config", "error", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		logger.Default().Fatalw("init logger", "error", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Fatalw("run migrations", "error", err)
	}
	logger.Info(ctx, "migrations applied")

	poolCfg := postgres.DefaultPoolConfig(cfg.Postgres.DSN)
	poolCfg.MaxConns = cfg.Postgres.MaxConns
	poolCfg.MinConns = cfg.Postgres.MinConns
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("connect database", "error", err)
	}
	defer pool.Close()
	logger.Info(ctx, "database connected")

	txManager := postgres.NewTxManager(pool).WithStatementTimeout(cfg.Ledger.TxTimeout)

	auditStore, err := postgres.NewAuditStore(txManager)
	if err != nil {
		log.Fatalw("init audit store", "error", err)
	}

	// Repositories.
	categoryRepo := catalog_repo.NewCategoryRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	movementRepo := ledger_repo.NewMovementRepo(txManager)
	stockGateway := ledger_repo.NewStockGateway(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)

	// Services.
	tokenCfg := auth.DefaultTokenConfig(cfg.Auth.JWTSecret)
	if cfg.Auth.TokenTTL > 0 {
		tokenCfg.TTL = cfg.Auth.TokenTTL
	}
	tokens := auth.NewTokenService(tokenCfg)

	retry := ledger.RetryConfig{
		MaxRetries: cfg.Ledger.MaxRetries,
		Backoff:    cfg.Ledger.RetryBackoff,
	}

	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool.Unwrap(),
		Logger:          log,
		Tokens:          tokens,
		AuthService:     auth.NewService(userRepo, tokens, txManager, auditStore),
		CategoryService: category.NewService(categoryRepo, txManager, auditStore),
		ProductService:  product.NewService(productRepo, movementRepo, txManager, auditStore),
		LedgerService:   ledger.NewService(movementRepo, stockGateway, txManager, retry),
		ReportService:   reports.NewService(reportRepo, txManager),
		AuditHistory:    auditStore,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "http server started", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("http server", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("shutdown", "error", err)
	}
	logger.Info(ctx, "graceful shutdown complete")
}

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(migrations.FS)
	return goose.Up(sqlDB, ".")
}
