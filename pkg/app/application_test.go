package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mentorbook/pkg/client"
	"mentorbook/pkg/config"
	httputil "mentorbook/pkg/http"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoHandler struct{}

func (echoHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/mentors", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		httputil.WriteCreated(w, map[string]string{"request_id": middleware.RequestIDFrom(r.Context())})
	})
}

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Port:               "0",
		Log:                logger.Discard(),
		Client:             client.NewClient(),
		RateLimitRequests:  2,
		RateLimitWindow:    time.Minute,
		RequestTimeout:     time.Second,
		IdempotencyTTL:     time.Minute,
		IdempotencyBackend: config.IdempotencyMemory,
		MaxRequestSize:     1024,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	}
	a := NewApplication()
	a.SetApp(cfg, echoHandler{})
	t.Cleanup(func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	})
	return a.Handler()
}

func post(h http.Handler, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/mentors", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestApplication_HealthBypassesAppMiddleware(t *testing.T) {
	h := newTestApp(t)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApplication_MiddlewareChain(t *testing.T) {
	h := newTestApp(t)

	w := post(h, `{"name":"x"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = post(h, `{"name":"x"}`, map[string]string{"Content-Type": "text/plain"})
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = post(h, `{"name":"x"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = post(h, `{"name":"x"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestApplication_IdempotentReplay(t *testing.T) {
	h := newTestApp(t)
	key := map[string]string{middleware.IdempotencyKeyHeader: "abc"}

	first := post(h, `{"name":"x"}`, key)
	require.Equal(t, http.StatusCreated, first.Code)

	second := post(h, `{"name":"x"}`, key)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestApplication_CORSPreflight(t *testing.T) {
	h := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/mentors", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
