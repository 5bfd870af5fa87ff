package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/firmhub/config"
	"github.com/oksasatya/firmhub/internal/interface/middleware"
	"github.com/oksasatya/firmhub/pkg/metrics"
	"github.com/oksasatya/firmhub/pkg/response"
	"github.com/oksasatya/firmhub/pkg/validation"
)

// NewEngine builds the Gin engine with the global middleware chain.
func NewEngine(cfg *config.Config, logger *logrus.Logger, m *metrics.Metrics) *gin.Engine {
	validation.Init()
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	if err := r.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		logger.WithError(err).Warn("invalid TRUSTED_PROXIES; trusting no proxy")
		_ = r.SetTrustedProxies(nil)
	}
	r.TrustedPlatform = trustedPlatform(cfg.TrustedPlatform)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(), middleware.RealIP())
	if m != nil {
		r.Use(middleware.Metrics(m))
	}
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "token", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader, "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	} else {
		// any origin may call the API, but never with the vendor's cookies
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) {
		response.OK(c, http.StatusOK, gin.H{"status": "ok"}, "healthy")
	})
	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "route not found", nil)
	})
	return r
}

// trustedPlatform maps a platform name to the header Gin reads the client IP from.
func trustedPlatform(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return ""
	case "cloudflare":
		return gin.PlatformCloudflare
	case "google-app-engine", "gae":
		return gin.PlatformGoogleAppEngine
	default:
		return name
	}
}
