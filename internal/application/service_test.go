package application

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/firmhub/config"
	"github.com/oksasatya/firmhub/internal/domain/repository"
	"github.com/oksasatya/firmhub/internal/infrastructure/memory"
	"github.com/oksasatya/firmhub/internal/mock"
	"github.com/oksasatya/firmhub/pkg/helpers"
	"github.com/oksasatya/firmhub/pkg/metrics"
)

type fixture struct {
	store   *memory.Store
	redis   *redis.Client
	mr      *miniredis.Miniredis
	images  *mock.ImageStore
	index   *mock.FirmSearchIndex
	pub     *mock.Publisher
	vendors *VendorService
	firms   *FirmService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := helpers.NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		AppName:         "firmhub",
		CompanyName:     "FirmHub",
		UploadMaxBytes:  1 << 20,
		SessionTTL:      time.Hour,
		MailSendEnabled: true,
	}
	store := memory.NewStore()
	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	m := metrics.New("test")
	logger := helpers.NewNopLogger()
	f := &fixture{
		store:  store,
		redis:  rdb,
		mr:     mr,
		images: mock.NewImageStore(),
		index:  mock.NewFirmSearchIndex(),
		pub:    &mock.Publisher{},
	}
	f.vendors = NewVendorService(store.Vendors(), store.Firms(), jwt, rdb, f.pub, cfg, m, logger)
	f.firms = NewFirmService(store.Firms(), store.Vendors(), f.images, f.index, f.pub, cfg, m, logger)
	return f
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func pngUpload(t *testing.T) *ImageUpload {
	b := pngBytes(t)
	return &ImageUpload{Filename: "logo.png", Size: int64(len(b)), Reader: bytes.NewReader(b)}
}

var errDupEmail = repository.ErrDuplicateEmail
