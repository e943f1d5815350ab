package kernel_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/shashiranjanraj/shopql/database/migrations"
	"github.com/shashiranjanraj/shopql/internal/kernel"
	"github.com/shashiranjanraj/shopql/pkg/logger"
	"github.com/shashiranjanraj/shopql/pkg/reqid"
	"github.com/shashiranjanraj/shopql/pkg/testkit"
)

func newKernel(t *testing.T) *kernel.HTTPKernel {
	t.Helper()

	k, err := kernel.NewHTTPKernel(testkit.NewDB(t), kernel.Options{JWTSecret: "kernel-secret", HashWorkers: 2, HashCost: 4})
	require.NoError(t, err)
	t.Cleanup(k.Close)
	return k
}

func TestNewHTTPKernelNeedsSecret(t *testing.T) {
	_, err := kernel.NewHTTPKernel(nil, kernel.Options{})
	require.Error(t, err)
}

func TestHealthz(t *testing.T) {
	k := newKernel(t)

	rec := httptest.NewRecorder()
	k.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(reqid.Header))
}

func TestHealthHandlerReportsFailure(t *testing.T) {
	h := kernel.HealthHandler(func(context.Context) error { return errors.New("down") })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestGraphQLThroughFullStack(t *testing.T) {
	k := newKernel(t)

	body := `{"query":"mutation { signUp(email: \"a@x.com\", password: \"pw\") }"}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "br")

	rec := httptest.NewRecorder()
	k.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "br", rec.Header().Get("Content-Encoding"))

	var out struct {
		Data struct {
			SignUp string `json:"signUp"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(brotli.NewReader(rec.Body)).Decode(&out))
	assert.Empty(t, out.Errors)
	assert.NotEmpty(t, out.Data.SignUp)

	// the token is accepted on the next request
	req = httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ orderHistory { id } }"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", out.Data.SignUp)
	rec = httptest.NewRecorder()
	k.Handler().ServeHTTP(rec, req)
	assert.JSONEq(t, `{"data":{"orderHistory":[]}}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	k := newKernel(t)

	k.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := httptest.NewRecorder()
	k.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `shop_http_requests_total{method="GET",path="/healthz",status="200"}`)
}

func TestCORSPreflight(t *testing.T) {
	k := newKernel(t)

	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	k.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutes(t *testing.T) {
	k := newKernel(t)
	assert.Len(t, k.Routes(), 4)
}

func TestPanicLogCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.L
	logger.L = slog.New(slog.NewJSONHandler(&buf, nil))
	t.Cleanup(func() { logger.L = prev })

	var h http.Handler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	stack := kernel.Middleware(kernel.Options{})
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set(reqid.Header, "req-panic-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		if entry["msg"] == "panic recovered" {
			found = true
			assert.Equal(t, "req-panic-1", entry["request_id"])
		}
	}
	assert.True(t, found, "no panic log line in %s", buf.String())
}
