package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pageza/alchemorsel-v2/safety/config"
	"github.com/pageza/alchemorsel-v2/safety/internal/api"
	"github.com/pageza/alchemorsel-v2/safety/internal/database"
	"github.com/pageza/alchemorsel-v2/safety/internal/logger"
	"github.com/pageza/alchemorsel-v2/safety/internal/metrics"
	"github.com/pageza/alchemorsel-v2/safety/internal/middleware"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
	"github.com/pageza/alchemorsel-v2/safety/internal/server"
	"github.com/pageza/alchemorsel-v2/safety/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.Environment.IsDebug(),
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	db, err := database.Open(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, cfg.MigrationsDir, zlog); err != nil {
			zlog.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Redis backs the verdict cache and rate limiting; both are skipped
	// when it is unreachable outside production.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg, zlog)
		if err != nil {
			if cfg.Environment == config.Production {
				zlog.Fatal("failed to connect to redis", zap.Error(err))
			}
			zlog.Warn("redis unavailable, running without verdict cache and rate limits", zap.Error(err))
			redisClient = nil
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	validator := safety.NewValidator(safety.WithSuggester(loadSubstitutions(ctx, cfg, zlog)))

	var cache service.VerdictCache
	if redisClient != nil {
		cache = service.NewRedisVerdictCache(redisClient, cfg.VerdictCacheTTL)
	}

	tokens := service.NewTokenService(cfg.JWTSecret, 0)
	profiles := service.NewProfileService(db)
	recipes := service.NewRecipeService(db, service.NewEmbeddingService())
	safetySvc := service.NewSafetyService(validator, profiles, recipes, cache, m, zlog)

	srv := server.New(server.Options{
		Config:   cfg,
		DB:       db,
		Redis:    redisClient,
		Logger:   zlog,
		Metrics:  m,
		Gatherer: reg,
		Services: api.Services{
			Safety:   safetySvc,
			Search:   service.NewSearchService(recipes, profiles, safetySvc, zlog),
			Profiles: profiles,
			Tokens:   tokens,
			Limiter:  middleware.NewValidationRateLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow, zlog),
		},
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			zlog.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		zlog.Info("received signal", zap.String("signal", sig.String()))
	}

	zlog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown error", zap.Error(err))
	}
	if redisClient != nil {
		redisClient.Close()
	}
	zlog.Info("server stopped")
}

// loadSubstitutions reads the substitution table from S3 or a local file,
// falling back to the built-in table.
func loadSubstitutions(ctx context.Context, cfg *config.Config, zlog *zap.Logger) *safety.SubstitutionTable {
	var (
		table  *safety.SubstitutionTable
		err    error
		source string
	)
	switch {
	case cfg.SubstitutionsBucket != "":
		source = "s3://" + cfg.SubstitutionsBucket + "/" + cfg.SubstitutionsKey
		var s3cfg *config.S3Config
		s3cfg, err = config.NewS3Config(ctx, cfg)
		if err == nil {
			table, err = service.LoadSubstitutionsFromS3(ctx, s3cfg.Client, s3cfg.BucketName, cfg.SubstitutionsKey)
		}
	case cfg.SubstitutionsFile != "":
		source = cfg.SubstitutionsFile
		table, err = service.LoadSubstitutionsFromFile(cfg.SubstitutionsFile)
	default:
		return safety.DefaultSubstitutions()
	}

	if err != nil {
		zlog.Warn("failed to load substitution table, using defaults", zap.String("source", source), zap.Error(err))
		return safety.DefaultSubstitutions()
	}
	zlog.Info("loaded substitution table", zap.String("source", source), zap.Int("categories", len(table.Categories())))
	return table
}
