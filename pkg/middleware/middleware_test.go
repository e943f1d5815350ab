package middleware_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopql/pkg/logger"
	"github.com/shashiranjanraj/shopql/pkg/middleware"
	"github.com/shashiranjanraj/shopql/pkg/reqid"
)

func TestCompressEncodesWhenAccepted(t *testing.T) {
	body := strings.Repeat(`{"data":{"products":[]}}`, 64)
	h := middleware.Compress(5)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "9999")
		_, _ = io.WriteString(w, body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "br", rec.Header().Get("Content-Encoding"))
	assert.Empty(t, rec.Header().Get("Content-Length"))
	assert.Contains(t, rec.Header().Values("Vary"), "Accept-Encoding")

	plain, err := io.ReadAll(brotli.NewReader(rec.Body))
	require.NoError(t, err)
	assert.Equal(t, body, string(plain))
}

func TestCompressPassesThroughWithoutBrotli(t *testing.T) {
	h := middleware.Compress(5)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "plain")
	}))

	for _, enc := range []string{"", "gzip", "br;q=0"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", enc)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Content-Encoding"), enc)
		assert.Equal(t, "plain", rec.Body.String(), enc)
	}
}

func TestCompressLeavesNoContentAlone(t *testing.T) {
	h := middleware.Compress(5)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Accept-Encoding", "br")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Zero(t, rec.Body.Len())
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := middleware.CORS(middleware.DefaultCORSOptions("https://shop.example"))(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	h := middleware.CORS(middleware.DefaultCORSOptions("https://shop.example"))(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryReturnsInternalEnvelope(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t,
		`{"errors":[{"message":"Unexpected error.","extensions":{"code":"INTERNAL"}}]}`,
		rec.Body.String())
}

func TestLoggerTagsRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.L
	logger.L = slog.New(slog.NewJSONHandler(&buf, nil))
	t.Cleanup(func() { logger.L = prev })

	var inner *slog.Logger
	h := reqid.Middleware()(middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = logger.WithCtx(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(reqid.Header, "rid-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, inner)
	out := buf.String()
	assert.Contains(t, out, `"request_id":"rid-42"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"path":"/healthz"`)
}
