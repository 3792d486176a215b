package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Brownie44l1/nutrisense-api/internal/cache"
	"github.com/Brownie44l1/nutrisense-api/internal/config"
	"github.com/Brownie44l1/nutrisense-api/internal/food"
	"github.com/Brownie44l1/nutrisense-api/internal/history"
	"github.com/Brownie44l1/nutrisense-api/internal/logger"
	"github.com/Brownie44l1/nutrisense-api/internal/model"
	"github.com/Brownie44l1/nutrisense-api/internal/router"
	"github.com/Brownie44l1/nutrisense-api/internal/service"
	"github.com/Brownie44l1/nutrisense-api/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.Server.Mode)

	log.Info("Loading model", zap.String("path", cfg.Model.Path))
	modelServer, err := model.NewServer(&cfg.Model)
	if err != nil {
		log.Error("Failed to initialize model server", zap.Error(err))
		return fmt.Errorf("failed to initialize model server: %w", err)
	}
	defer modelServer.Close()
	log.Info("Model loaded",
		zap.Int64s("input_shape", modelServer.Metadata.InputShape),
		zap.Strings("classes", modelServer.Labels),
	)

	// Database is optional; without it search and history are unavailable
	var (
		db          *gorm.DB
		foodRepo    food.Repository
		historyRepo history.Repository
	)
	if cfg.Database.Driver != "" {
		db, err = openDatabase(context.Background(), cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = storage.Close(db) }()
		foodRepo = food.NewRepository(db)
		historyRepo = history.NewRepository(db)
	}

	redisClient, predictionCache, err := openCache(cfg, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	predictor := service.NewPredictor(modelServer, predictionCache, historyRepo, log)

	r := router.Setup(router.Deps{
		Predictor:      predictor,
		Model:          modelServer,
		DB:             db,
		Redis:          redisClient,
		Foods:          foodRepo,
		History:        historyRepo,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Logger:         log,
	})

	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("address", addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}

func openDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := storage.NewDB(&cfg.Database)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	if err := storage.AutoMigrate(db); err != nil {
		_ = storage.Close(db)
		log.Error("Failed to run migrations", zap.Error(err))
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations completed")

	if cfg.Foods.SeedPath != "" {
		n, err := food.Seed(ctx, food.NewRepository(db), cfg.Foods.SeedPath)
		if err != nil {
			log.Warn("Failed to seed food catalog, search may return no results", zap.Error(err))
		} else if n > 0 {
			log.Info("Seeded food catalog", zap.Int("foods", n))
		}
	}

	return db, nil
}

// openCache prefers Redis and falls back to an in-process LRU when Redis is
// not configured or unreachable. A cache size of zero disables caching.
func openCache(cfg *config.Config, log *zap.Logger) (*redis.Client, cache.Cache, error) {
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(&cfg.Redis)
		if err == nil {
			log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
			return client, cache.NewRedis(client, cfg.Redis.TTL), nil
		}
		log.Warn("Failed to connect to Redis, using in-process cache", zap.Error(err))
	}

	if cfg.Cache.Size <= 0 {
		return nil, nil, nil
	}

	lru, err := cache.NewLRU(cfg.Cache.Size)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prediction cache: %w", err)
	}
	return nil, lru, nil
}
