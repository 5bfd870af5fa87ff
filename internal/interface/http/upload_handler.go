package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/firmhub/internal/infrastructure/storage"
	"github.com/oksasatya/firmhub/pkg/response"
)

// UploadHandler serves images written by the local storage driver.
type UploadHandler struct {
	Store *storage.LocalStore
}

func NewUploadHandler(store *storage.LocalStore) *UploadHandler {
	return &UploadHandler{Store: store}
}

func (h *UploadHandler) Serve(c *gin.Context) {
	p, err := h.Store.Resolve(c.Param("name"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid file name", nil)
		return
	}
	info, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.IsDir()) {
		response.Fail(c, http.StatusNotFound, "file not found", nil)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(p)
}
