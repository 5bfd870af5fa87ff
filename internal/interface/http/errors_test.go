package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/firmhub/internal/application"
	"github.com/oksasatya/firmhub/pkg/helpers"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{application.ErrInvalidCredentials, http.StatusUnauthorized},
		{application.ErrInvalidID, http.StatusBadRequest},
		{helpers.ErrPasswordTooLong, http.StatusBadRequest},
		{application.ErrVendorNotFound, http.StatusNotFound},
		{fmt.Errorf("load: %w", application.ErrFirmNotFound), http.StatusNotFound},
		{application.ErrEmailTaken, http.StatusConflict},
		{application.ErrFirmNameTaken, http.StatusConflict},
		{application.ErrNotFirmOwner, http.StatusForbidden},
		{application.ErrImageTooLarge, http.StatusRequestEntityTooLarge},
		{application.ErrUnsupportedImage, http.StatusUnsupportedMediaType},
		{application.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			require.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}
