package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/firmhub/internal/interface/http"
	"github.com/oksasatya/firmhub/internal/interface/middleware"
	"github.com/oksasatya/firmhub/pkg/helpers"
)

// VendorModule wires vendor routes.
// Public: POST /vendors/register, POST /vendors/login, POST /vendors/refresh, GET /vendors, GET /vendors/:id
// Protected: POST /vendors/logout, GET /vendors/me
type VendorModule struct {
	Handler *handlers.VendorHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewVendorModule(h *handlers.VendorHandler, jwt *helpers.JWTManager, rdb *redis.Client) *VendorModule {
	return &VendorModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *VendorModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	vendors := rg.Group("/vendors")
	vendors.POST("/register", registerLimiter, m.Handler.Register)
	vendors.POST("/login", loginLimiter, m.Handler.Login)
	vendors.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	vendors.GET("", m.Handler.List)
	vendors.GET("/:id", m.Handler.Get)

	auth := vendors.Group("")
	auth.Use(
		middleware.Auth(m.Redis, m.JWT),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByVendorID(), nil),
	)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
	}
}
