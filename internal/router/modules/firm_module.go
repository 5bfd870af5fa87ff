package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/firmhub/internal/interface/http"
	"github.com/oksasatya/firmhub/internal/interface/middleware"
	"github.com/oksasatya/firmhub/pkg/helpers"
)

// FirmModule wires firm routes.
// Public: GET /firms, GET /firms/search, GET /firms/:id
// Protected: POST /firms, PUT /firms/:id/image, DELETE /firms/:id
type FirmModule struct {
	Handler *handlers.FirmHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewFirmModule(h *handlers.FirmHandler, jwt *helpers.JWTManager, rdb *redis.Client) *FirmModule {
	return &FirmModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *FirmModule) Register(rg *gin.RouterGroup) {
	searchLimiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), nil)

	firms := rg.Group("/firms")
	firms.GET("", m.Handler.List)
	firms.GET("/search", searchLimiter, m.Handler.Search)
	firms.GET("/:id", m.Handler.Get)

	auth := firms.Group("")
	auth.Use(middleware.Auth(m.Redis, m.JWT))
	writeLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByVendorID(), nil)
	{
		auth.POST("", writeLimiter, m.Handler.Create)
		auth.PUT("/:id/image", writeLimiter, m.Handler.ReplaceImage)
		auth.DELETE("/:id", writeLimiter, m.Handler.Delete)
	}
}
