package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/firmhub/internal/interface/middleware"
	"github.com/oksasatya/firmhub/pkg/metrics"
)

type DebugModule struct {
	Metrics *metrics.Metrics
	Redis   *redis.Client
}

func NewDebugModule(m *metrics.Metrics, rdb *redis.Client) *DebugModule {
	return &DebugModule{Metrics: m, Redis: rdb}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	if m.Metrics == nil {
		return
	}
	// Prometheus exposition, rate-limited per IP; private networks are not limited
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	h := promhttp.HandlerFor(m.Metrics.Registry, promhttp.HandlerOpts{Registry: m.Metrics.Registry})
	rg.GET("/debug/metrics", rl, gin.WrapH(h))
}
