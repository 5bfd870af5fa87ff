package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/firmhub/internal/interface/http"
)

// UploadModule serves local images at /uploads/*name.
type UploadModule struct {
	Handler *handlers.UploadHandler
}

func NewUploadModule(h *handlers.UploadHandler) *UploadModule {
	return &UploadModule{Handler: h}
}

func (m *UploadModule) Register(rg *gin.RouterGroup) {
	rg.GET("/uploads/*name", m.Handler.Serve)
	rg.HEAD("/uploads/*name", m.Handler.Serve)
}
