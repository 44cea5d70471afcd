package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"backoffice/internal/caching"
	"backoffice/internal/config"
	"backoffice/internal/handlers"
	"backoffice/internal/jobs"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	setupLogger(cfg)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DB.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	storageSvc, err := services.NewStorageService(
		cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize blob storage")
	}
	if err := storageSvc.EnsureBucket(ctx); err != nil {
		log.Fatal().Err(err).Str("bucket", cfg.Minio.Bucket).Msg("failed to ensure bucket")
	}

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	clientRepo := repositories.NewClientRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	productImageRepo := repositories.NewProductImageRepo(pool)

	clientSvc := services.NewClientService(clientRepo, cacheSvc)
	productSvc := services.NewProductService(
		productRepo, productImageRepo, storageSvc, cacheSvc,
		cfg.Upload.MaxFileBytes, cfg.Upload.MaxImages,
	)

	if cfg.Sweep.Enabled {
		sweeper, err := jobs.NewOrphanSweeper(productImageRepo, storageSvc, cfg.Sweep.Interval, cfg.Sweep.Grace)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build orphan sweeper")
		}
		if err := sweeper.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start orphan sweeper")
		}
		defer func() {
			if err := sweeper.Stop(); err != nil {
				log.Warn().Err(err).Msg("orphan sweeper shutdown failed")
			}
		}()
	}

	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, storageSvc)
	clientHandlers := handlers.NewClientHandlers(clientSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	v1 := e.Group("/v1")

	v1.POST("/clients", clientHandlers.CreateClient)
	v1.GET("/clients", clientHandlers.ListClients)
	v1.GET("/clients/:id", clientHandlers.GetClient)
	v1.PUT("/clients/:id", clientHandlers.UpdateClient)
	v1.DELETE("/clients/:id", clientHandlers.DeleteClient)
	v1.POST("/clients/import", clientHandlers.ImportClients)

	v1.POST("/products", productHandlers.SaveProduct)
	v1.GET("/products", productHandlers.ListProducts)
	v1.GET("/products/:id", productHandlers.GetProduct)
	v1.GET("/products/:id/images", productHandlers.ListProductImages)
	v1.DELETE("/products/:id", productHandlers.DeleteProduct)

	go func() {
		if err := e.Start(":" + cfg.App.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.App.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
