package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/firmhub/internal/application"
	"github.com/oksasatya/firmhub/pkg/helpers"
	"github.com/oksasatya/firmhub/pkg/response"
)

var statusByErr = []struct {
	err    error
	status int
}{
	{application.ErrInvalidCredentials, http.StatusUnauthorized},
	{application.ErrInvalidID, http.StatusBadRequest},
	{application.ErrInvalidTag, http.StatusBadRequest},
	{helpers.ErrPasswordTooLong, http.StatusBadRequest},
	{application.ErrVendorNotFound, http.StatusNotFound},
	{application.ErrFirmNotFound, http.StatusNotFound},
	{application.ErrUsernameTaken, http.StatusConflict},
	{application.ErrEmailTaken, http.StatusConflict},
	{application.ErrFirmNameTaken, http.StatusConflict},
	{application.ErrNotFirmOwner, http.StatusForbidden},
	{application.ErrImageTooLarge, http.StatusRequestEntityTooLarge},
	{application.ErrUnsupportedImage, http.StatusUnsupportedMediaType},
	{application.ErrStorageUnavailable, http.StatusServiceUnavailable},
}

// StatusFor maps application errors to HTTP status codes; unknown errors are 500.
func StatusFor(err error) int {
	for _, m := range statusByErr {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// fail writes the error envelope for err. Internal errors are logged and not echoed.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			helpers.LogError(logger, "request failed", err, logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			})
		}
		_ = c.Error(err)
		response.Fail(c, status, "internal server error", nil)
		return
	}
	response.Fail(c, status, err.Error(), nil)
}
