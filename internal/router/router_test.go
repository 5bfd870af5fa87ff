package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/firmhub/config"
	"github.com/oksasatya/firmhub/internal/container"
	"github.com/oksasatya/firmhub/pkg/helpers"
	"github.com/oksasatya/firmhub/pkg/metrics"
)

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   json.RawMessage `json:"error"`
}

type server struct {
	t      *testing.T
	engine *gin.Engine
	cfg    *config.Config
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	container.Reset()
	t.Cleanup(container.Reset)

	mr := miniredis.RunT(t)
	rdb := helpers.NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		AppName:        "firmhub",
		DBDriver:       "memory",
		StorageDriver:  "local",
		UploadDir:      t.TempDir(),
		UploadMaxBytes: 64 << 10,
		PublicBaseURL:  "http://files.test",
		SessionTTL:     time.Hour,
		CookieDomain:   "localhost",
		MetricsEnabled: true,
	}
	m := metrics.New("firmhub")
	container.SetConfig(cfg)
	container.SetLogger(helpers.NewNopLogger())
	container.SetRedis(rdb)
	container.SetMetrics(m)
	container.SetJWT(helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour))

	engine := NewEngine(cfg, helpers.NewNopLogger(), m)
	reg := NewRegistry(engine)
	InitModules(reg)
	reg.RegisterAll()
	return &server{t: t, engine: engine, cfg: cfg}
}

func (s *server) do(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *server) json(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.do(req)
}

type filePart struct {
	name string
	data []byte
}

func (s *server) multipart(method, path, token string, fields map[string][]string, file *filePart) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(s.t, mw.WriteField(k, v))
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", file.name)
		require.NoError(s.t, err)
		_, err = fw.Write(file.data)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, mw.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("token", token)
	}
	return s.do(req)
}

func (s *server) registerAndLogin(username string) (vendorID, token string) {
	s.t.Helper()
	w, _ := s.json(http.MethodPost, "/api/vendors/register", "", map[string]string{
		"username": username, "email": username + "@example.com", "password": "password123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code)

	w, env := s.json(http.MethodPost, "/api/vendors/login", "", map[string]string{
		"email": username + "@example.com", "password": "password123",
	})
	require.Equal(s.t, http.StatusOK, w.Code)
	var login struct {
		VendorID    string `json:"vendor_id"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &login))
	return login.VendorID, login.AccessToken
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

type firmBody struct {
	ID       string   `json:"id"`
	FirmName string   `json:"firm_name"`
	Category []string `json:"category"`
	Region   []string `json:"region"`
	VendorID string   `json:"vendor_id"`
	Image    *struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"image"`
}

func TestVendorFlow(t *testing.T) {
	s := newServer(t)

	w, env := s.json(http.MethodPost, "/api/vendors/register", "", map[string]string{"username": "x", "email": "bad", "password": "short"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, string(env.Error), "email")

	vid, token := s.registerAndLogin("spicy")

	w, _ = s.json(http.MethodPost, "/api/vendors/register", "", map[string]string{
		"username": "other", "email": "SPICY@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.json(http.MethodPost, "/api/vendors/login", "", map[string]string{"email": "spicy@example.com", "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = s.json(http.MethodGet, "/api/vendors/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		ID       string   `json:"id"`
		Username string   `json:"username"`
		FirmIDs  []string `json:"firm_ids"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	require.Equal(t, vid, me.ID)
	require.Equal(t, "spicy", me.Username)
	require.NotNil(t, me.FirmIDs)
	require.NotContains(t, w.Body.String(), "password")

	w, _ = s.json(http.MethodGet, "/api/vendors/"+vid, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.json(http.MethodGet, "/api/vendors/not-a-uuid", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = s.json(http.MethodGet, "/api/vendors/00000000-0000-0000-0000-000000000000", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.json(http.MethodGet, "/api/vendors/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.json(http.MethodPost, "/api/vendors/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.json(http.MethodGet, "/api/vendors/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshWithCookie(t *testing.T) {
	s := newServer(t)
	s.registerAndLogin("spicy")

	w, _ := s.json(http.MethodPost, "/api/vendors/login", "", map[string]string{"email": "spicy@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var refresh *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == helpers.RefreshCookie {
			refresh = c
		}
	}
	require.NotNil(t, refresh)
	require.True(t, refresh.HttpOnly)

	req := httptest.NewRequest(http.MethodPost, "/api/vendors/refresh", nil)
	req.AddCookie(&http.Cookie{Name: helpers.RefreshCookie, Value: refresh.Value})
	w, env := s.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))

	w, _ = s.json(http.MethodGet, "/api/vendors/me", body.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// the rotated-out refresh token is rejected
	req = httptest.NewRequest(http.MethodPost, "/api/vendors/refresh", nil)
	req.AddCookie(&http.Cookie{Name: helpers.RefreshCookie, Value: refresh.Value})
	w, _ = s.do(req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.json(http.MethodPost, "/api/vendors/refresh", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFirmFlow(t *testing.T) {
	s := newServer(t)
	vid, token := s.registerAndLogin("owner")
	_, otherToken := s.registerAndLogin("other")

	w, _ := s.multipart(http.MethodPost, "/api/firms", "", map[string][]string{"firm_name": {"No Auth"}, "area": {"X"}}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := s.multipart(http.MethodPost, "/api/firms", token, map[string][]string{
		"firm_name": {"Dosa Corner"},
		"area":      {"Koramangala"},
		"category":  {"non-veg", "veg"},
		"region[]":  {"chinese", "south-indian", "chinese"},
		"offer":     {"20% off"},
	}, &filePart{name: "logo.png", data: pngImage(t)})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var firm firmBody
	require.NoError(t, json.Unmarshal(env.Data, &firm))
	require.Equal(t, "Dosa Corner", firm.FirmName)
	require.Equal(t, []string{"veg", "non-veg"}, firm.Category)
	require.Equal(t, []string{"south-indian", "chinese"}, firm.Region)
	require.Equal(t, vid, firm.VendorID)
	require.NotNil(t, firm.Image)
	require.True(t, strings.HasPrefix(firm.Image.URL, "http://files.test/uploads/firms/"))

	// the stored image is served back
	req := httptest.NewRequest(http.MethodGet, strings.TrimPrefix(firm.Image.URL, "http://files.test"), nil)
	w, _ = s.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, pngImage(t), w.Body.Bytes())
	w, _ = s.do(httptest.NewRequest(http.MethodGet, "/uploads/firms/missing.png", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.multipart(http.MethodPost, "/api/firms", token, map[string][]string{"firm_name": {"Dosa Corner"}, "area": {"Elsewhere"}}, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	w, env = s.multipart(http.MethodPost, "/api/firms", token, map[string][]string{"firm_name": {"Bad"}, "area": {"X"}, "category": {"vegan"}}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, string(env.Error), "category[0]")

	w, _ = s.multipart(http.MethodPost, "/api/firms", token, map[string][]string{"firm_name": {"Text"}, "area": {"X"}},
		&filePart{name: "notes.png", data: []byte("plain text pretending to be an image")})
	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	big := append(pngImage(t), make([]byte, s.cfg.UploadMaxBytes)...)
	w, _ = s.multipart(http.MethodPost, "/api/firms", token, map[string][]string{"firm_name": {"Big"}, "area": {"X"}},
		&filePart{name: "big.png", data: big})
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w, env = s.json(http.MethodGet, "/api/vendors/"+vid, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var vendor struct {
		FirmIDs []string   `json:"firm_ids"`
		Firms   []firmBody `json:"firms"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &vendor))
	require.Equal(t, []string{firm.ID}, vendor.FirmIDs)
	require.Len(t, vendor.Firms, 1)

	w, env = s.json(http.MethodGet, "/api/firms?category=veg&vendor_id="+vid, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"count":1}`, string(env.Meta))
	w, _ = s.json(http.MethodGet, "/api/firms?region=mars", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.json(http.MethodGet, "/api/firms/"+firm.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.json(http.MethodGet, "/api/firms/nope", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.json(http.MethodGet, "/api/firms/search?q=dosa", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, string(env.Data))

	w, _ = s.multipart(http.MethodPut, "/api/firms/"+firm.ID+"/image", otherToken, nil, &filePart{name: "x.png", data: pngImage(t)})
	require.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.multipart(http.MethodPut, "/api/firms/"+firm.ID+"/image", token, nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w, env = s.multipart(http.MethodPut, "/api/firms/"+firm.ID+"/image", token, nil, &filePart{name: "x.png", data: pngImage(t)})
	require.Equal(t, http.StatusOK, w.Code)
	var replaced firmBody
	require.NoError(t, json.Unmarshal(env.Data, &replaced))
	require.NotEqual(t, firm.Image.Name, replaced.Image.Name)

	req = httptest.NewRequest(http.MethodDelete, "/api/firms/"+firm.ID, nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	w, _ = s.do(req)
	require.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/firms/"+firm.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, _ = s.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.json(http.MethodGet, "/api/firms/"+firm.ID, "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w, env = s.json(http.MethodGet, "/api/vendors/"+vid, "", nil)
	require.NoError(t, json.Unmarshal(env.Data, &vendor))
	require.Empty(t, vendor.FirmIDs)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t)
	s.json(http.MethodGet, "/api/vendors", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/debug/metrics", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `firmhub_http_requests_total{method="GET",route="/api/vendors",status="200"} 1`)
}

func TestRequestIDAndNoRoute(t *testing.T) {
	s := newServer(t)
	w, env := s.json(http.MethodGet, "/api/nothing-here", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.False(t, env.Success)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLoginLimitIgnoresForwardedFor(t *testing.T) {
	s := newServer(t)
	codes := map[int]int{}
	for i := 0; i < 15; i++ {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(map[string]string{"email": "nobody@example.com", "password": "password123"}))
		req := httptest.NewRequest(http.MethodPost, "/api/vendors/login", &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		w, _ := s.do(req)
		codes[w.Code]++
	}
	require.Equal(t, map[int]int{http.StatusUnauthorized: 10, http.StatusTooManyRequests: 5}, codes)

	// a forged private address does not skip the metrics limiter either
	req := httptest.NewRequest(http.MethodGet, "/api/debug/metrics", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestRegisterRejectsOverlongMultibytePassword(t *testing.T) {
	s := newServer(t)
	w, env := s.json(http.MethodPost, "/api/vendors/register", "", map[string]string{
		"username": "spicy", "email": "spicy@example.com", "password": strings.Repeat("é", 40),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, string(env.Error), "72 bytes")

	w, _ = s.json(http.MethodPost, "/api/vendors/register", "", map[string]string{
		"username": "spicy", "email": "spicy@example.com", "password": strings.Repeat("é", 36),
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestCORS(t *testing.T) {
	preflight := func(engine *gin.Engine, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/healthz", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	t.Run("no configured origins never allows credentials", func(t *testing.T) {
		s := newServer(t)
		w := preflight(s.engine, "https://evil.test")
		require.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
		require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "https://evil.test")
		w = httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("configured origins allow credentials", func(t *testing.T) {
		engine := NewEngine(&config.Config{CORSAllowedOrigins: "https://app.test"}, helpers.NewNopLogger(), nil)
		w := preflight(engine, "https://app.test")
		require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		require.Equal(t, "https://app.test", w.Header().Get("Access-Control-Allow-Origin"))

		w = preflight(engine, "https://evil.test")
		require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		require.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestTrustedPlatform(t *testing.T) {
	require.Equal(t, "", trustedPlatform(""))
	require.Equal(t, gin.PlatformCloudflare, trustedPlatform("Cloudflare"))
	require.Equal(t, gin.PlatformGoogleAppEngine, trustedPlatform("gae"))
	require.Equal(t, "X-Client-IP", trustedPlatform("X-Client-IP"))
}
