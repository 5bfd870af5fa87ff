package container

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/firmhub/pkg/helpers"
)

func TestGetJWT(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	require.PanicsWithValue(t, "container: JWT manager not set", func() { GetJWT() })

	m := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	SetJWT(m)
	require.Same(t, m, GetJWT())
}

func TestGetLoggerFallback(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	require.NotNil(t, GetLogger())
}
