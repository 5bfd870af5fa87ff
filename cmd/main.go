package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/firmhub/config"
	"github.com/oksasatya/firmhub/internal/container"
	pginfra "github.com/oksasatya/firmhub/internal/infrastructure/postgres"
	"github.com/oksasatya/firmhub/internal/infrastructure/search"
	"github.com/oksasatya/firmhub/internal/router"
	"github.com/oksasatya/firmhub/pkg/helpers"
	"github.com/oksasatya/firmhub/pkg/metrics"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	container.SetConfig(cfg)
	container.SetLogger(logger)

	// Postgres pool + migrations, unless running on the in-memory store
	if cfg.DBDriver != "memory" {
		pool, err := pginfra.NewPool(ctx, pginfra.OptionsFromConfig(cfg))
		if err != nil {
			logger.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
	} else {
		logger.Warn("DB_DRIVER=memory; data is not persisted")
	}

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unreachable; logins will fail until it is up")
	}
	container.SetRedis(rdb)

	// GCS only when it stores images
	if cfg.StorageDriver == "gcs" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
	}

	// Elasticsearch firm index
	if cfg.SearchEnabled {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.Fatalf("failed to init elasticsearch: %v", err)
		}
		ctxES, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := search.NewFirmIndex(es, cfg.ESFirmsIndex, logger).EnsureIndex(ctxES); err != nil {
			logger.WithError(err).Warn("es ensure index failed")
		}
		cancel()
		container.SetES(es)
	}

	// RabbitMQ publisher for email jobs
	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; emails will not be queued")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	// JWT
	container.SetJWT(helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL))

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(cfg.AppName)
		container.SetMetrics(m)
	}

	// Gin engine and global middleware
	r := router.NewEngine(cfg, logger, m)
	if cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	logger.Info("running migrations...")
	ran, err := pginfra.Migrate(dsn, migrationsDir)
	if err != nil {
		return err
	}
	if !ran {
		logger.Info("no migrations to run")
	}
	return nil
}
