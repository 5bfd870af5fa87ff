package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/firmhub/config"
	"github.com/oksasatya/firmhub/internal/infrastructure/memory"
	"github.com/oksasatya/firmhub/pkg/helpers"
	"github.com/oksasatya/firmhub/pkg/metrics"
)

// app-level container to share constructed components across packages
// Router wires modules from these singletons; unset components are nil.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	memStore    *memory.Store
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager
	metricsSet *metrics.Metrics

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
)

func SetConfig(c *config.Config)             { cfg = c }
func GetConfig() *config.Config              { return cfg }
func SetLogger(l *logrus.Logger)             { logger = l }
func SetPGPool(p *pgxpool.Pool)              { pgPool = p }
func GetPGPool() *pgxpool.Pool               { return pgPool }
func SetMemoryStore(s *memory.Store)         { memStore = s }
func GetMemoryStore() *memory.Store          { return memStore }
func SetRedis(r *redis.Client)               { redisClient = r }
func GetRedis() *redis.Client                { return redisClient }
func SetGCS(s *storage.Client)               { gcsClient = s }
func GetGCS() *storage.Client                { return gcsClient }
func SetMetrics(m *metrics.Metrics)          { metricsSet = m }
func GetMetrics() *metrics.Metrics           { return metricsSet }
func SetJWT(m *helpers.JWTManager)           { jwtManager = m }
func SetES(c *elasticsearch.Client)          { esClient = c }
func GetES() *elasticsearch.Client           { return esClient }
func GetRabbitPub() *helpers.RabbitPublisher { return rabbitPub }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }

func GetLogger() *logrus.Logger {
	if logger != nil {
		return logger
	}
	return helpers.NewNopLogger()
}

// GetJWT panics when no manager was set; routes cannot be protected without one.
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil {
		panic("container: JWT manager not set")
	}
	return jwtManager
}

// Reset clears every component.
func Reset() {
	cfg, logger, pgPool, memStore, redisClient, gcsClient = nil, nil, nil, nil, nil, nil
	jwtManager, metricsSet, rabbitPub, esClient = nil, nil, nil, nil
}
