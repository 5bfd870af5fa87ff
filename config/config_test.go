package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("DB_DRIVER", "")
	cfg := Load()

	require.Equal(t, "firmhub", cfg.AppName)
	require.Equal(t, "local", cfg.StorageDriver)
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, int64(5<<20), cfg.UploadMaxBytes)
	require.Equal(t, time.Hour, cfg.AccessTTL)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.False(t, cfg.MailSendEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "GCS")
	t.Setenv("DB_DRIVER", "Memory")
	t.Setenv("UPLOAD_MAX_BYTES", "1024")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("SEARCH_ENABLED", "true")
	t.Setenv("PUBLIC_BASE_URL", "https://api.example.com/")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := Load()
	require.Equal(t, "gcs", cfg.StorageDriver)
	require.Equal(t, "memory", cfg.DBDriver)
	require.Equal(t, int64(1024), cfg.UploadMaxBytes)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.True(t, cfg.SearchEnabled)
	require.Equal(t, "https://api.example.com", cfg.PublicBaseURL)
	require.Equal(t, int32(10), cfg.DBMaxConns)
}

func TestListSplitting(t *testing.T) {
	cfg := &Config{
		CORSAllowedOrigins: " http://a.test, ,http://b.test ",
		ElasticsearchAddrs: "http://es1:9200,http://es2:9200",
		TrustedProxies:     "10.0.0.0/8, 192.168.1.2",
	}
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	require.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.ESAddrs())
	require.Equal(t, []string{"10.0.0.0/8", "192.168.1.2"}, cfg.TrustedProxyList())
	require.Empty(t, (&Config{}).TrustedProxyList())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	require.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}
