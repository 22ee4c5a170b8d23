package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taomoai/tesa-PDA/app/echo-server/router"
	"github.com/taomoai/tesa-PDA/business/design"
	"github.com/taomoai/tesa-PDA/business/extraction"
	"github.com/taomoai/tesa-PDA/business/material"
	"github.com/taomoai/tesa-PDA/business/search"
	userService "github.com/taomoai/tesa-PDA/business/user"
	"github.com/taomoai/tesa-PDA/internal/middleware"
	psqlRepo "github.com/taomoai/tesa-PDA/internal/repository/postgres"
	redisRepo "github.com/taomoai/tesa-PDA/internal/repository/redis"
	"github.com/taomoai/tesa-PDA/internal/rest"
	"github.com/taomoai/tesa-PDA/pkg/config"
	"github.com/taomoai/tesa-PDA/pkg/database"
	redisdb "github.com/taomoai/tesa-PDA/pkg/database/redis"
	"github.com/taomoai/tesa-PDA/pkg/logger"
	"github.com/taomoai/tesa-PDA/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const runRetention = 30 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Tape Product Design API", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis backs the proposal result cache; the service runs without it
	var resultCache design.ResultCache
	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, proposal caching disabled", err)
	} else {
		resultCache = redisRepo.NewResultCache(redisClient)
		defer redisdb.CloseRedisClient(redisClient)
	}

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	materialRepo := psqlRepo.NewMaterialRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	modelRepo := psqlRepo.NewModelRepository(db)
	designCfgRepo := psqlRepo.NewDesignConfigRepository(db)
	designRunRepo := psqlRepo.NewDesignRunRepository(db)

	// Load the regression model bank before serving traffic
	modelRows, err := modelRepo.FindAll(context.Background())
	if err != nil {
		logger.Fatal("Failed to load regression models", "error", err)
	}
	bank, err := design.NewModelBank(modelRows)
	if err != nil {
		logger.Fatal("Failed to build model bank", "error", err)
	}
	logger.Info("Model bank loaded", "models", len(modelRows))

	defaultCfg := design.DefaultConfig()
	if cfg.Design.SolverBudgetMs > 0 {
		defaultCfg.SolverBudget = time.Duration(cfg.Design.SolverBudgetMs) * time.Millisecond
	}
	solver := design.NewBranchBoundSolver(defaultCfg.SolverBudget)

	// Init service
	userSvc := userService.NewUserService(userRepo, validate)
	materialSvc := material.NewMaterialService(materialRepo)
	searchSvc := search.NewSearchService(productRepo)
	extractionSvc := extraction.NewExtractionService()
	designSvc := design.NewDesignService(
		materialRepo,
		modelRepo,
		bank,
		designCfgRepo,
		designRunRepo,
		resultCache,
		solver,
		defaultCfg,
		time.Duration(cfg.Design.CacheTTLSec)*time.Second,
	)

	// Init handler
	userHandler := rest.NewUserHandler(userSvc)
	materialHandler := rest.NewMaterialHandler(materialSvc)
	searchHandler := rest.NewSearchHandler(searchSvc)
	extractionHandler := rest.NewExtractionHandler(extractionSvc)
	designHandler := rest.NewDesignHandler(designSvc)

	// Init metrics
	metrics.Init()

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceMiddleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly)
	router.SetupDesignRoutes(api, designHandler, authRequired, adminOnly)
	router.SetupSearchRoutes(api, searchHandler)
	router.SetupMaterialRoutes(api, materialHandler)
	router.SetupExtractionRoutes(api, extractionHandler)

	// Background run pruning
	pruneCtx, stopPrune := context.WithCancel(context.Background())
	defer stopPrune()
	go pruneRunsLoop(pruneCtx, designSvc)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}

func pruneRunsLoop(ctx context.Context, svc *design.DesignService) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.PruneRuns(ctx, runRetention); err != nil {
				logger.Warn("Failed to prune design runs", err)
			}
		}
	}
}
