// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	appctx "kardex/internal/core/context"
	"kardex/internal/domain/audit"
	"kardex/internal/domain/auth"
	"kardex/internal/domain/catalogs/category"
	"kardex/internal/domain/catalogs/product"
	"kardex/internal/domain/ledger"
	"kardex/internal/domain/reports"
	"kardex/internal/infrastructure/http/v1/handlers"
	"kardex/internal/infrastructure/http/v1/middleware"
	"kardex/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks).
	Pool *pgxpool.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// Tokens signs and verifies session tokens.
	Tokens *auth.TokenService

	// Services.
	AuthService     *auth.Service
	CategoryService *category.Service
	ProductService  *product.Service
	LedgerService   *ledger.Service
	ReportService   *reports.Service
	AuditHistory    audit.Historian
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// API v1
	v1 := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
		authHandler.RegisterRoutes(v1.Group("/auth"))

		protected := v1.Group("")
		protected.Use(middleware.Auth(tokenVerifier{cfg.Tokens}))

		handlers.NewCategoryHandler(baseHandler, cfg.CategoryService).
			RegisterRoutes(protected.Group("/categories"))
		handlers.NewProductHandler(baseHandler, cfg.ProductService, cfg.LedgerService).
			RegisterRoutes(protected.Group("/products"))
		handlers.NewMovementHandler(baseHandler, cfg.LedgerService).
			RegisterRoutes(protected.Group("/movements"))
		handlers.NewReportsHandler(baseHandler, cfg.ReportService).
			RegisterRoutes(protected.Group("/reports"))
		handlers.NewUserHandler(baseHandler, cfg.AuthService).
			RegisterRoutes(protected.Group("/users"))
		handlers.NewAuditHandler(baseHandler, cfg.AuditHistory).
			RegisterRoutes(protected.Group("/audit"))
	}

	return router
}

// tokenVerifier adapts auth.TokenService to the middleware contract.
type tokenVerifier struct {
	tokens *auth.TokenService
}

func (v tokenVerifier) VerifyToken(tokenString string) (*appctx.ActorContext, error) {
	claims, err := v.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	return &appctx.ActorContext{
		ActorID:  claims.UserID,
		Username: claims.Username,
	}, nil
}
