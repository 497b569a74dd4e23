package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kidpech/xbox_link_demo/internal/app/diagnostics"
	"github.com/kidpech/xbox_link_demo/internal/config"
	"github.com/kidpech/xbox_link_demo/internal/domain/xbox"
	"github.com/kidpech/xbox_link_demo/internal/infrastructure/auth"
	"github.com/kidpech/xbox_link_demo/internal/infrastructure/ratelimit"
)

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Name: "xbox-link-demo", Env: "test", Version: "test", Port: "8080"},
		Xbox: config.XboxConfig{ClientID: "demo_client_id", DefaultRedirectURI: "https://localhost:3000/auth/callback"},
		Admin: config.AdminConfig{
			JWTSecret:     "secret",
			Issuer:        "xbox-link-demo",
			TokenTTL:      time.Hour,
			SecretVersion: "v1",
		},
		RateLimit:  config.RateLimitConfig{Enabled: true, RequestsPerMinute: 100, Burst: 0},
		Cors:       config.CORSConfig{AllowedMethods: []string{"GET", "OPTIONS"}},
		Monitoring: config.MonitoringConfig{PrometheusEnabled: true},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, ipLimiter ratelimit.Limiter) (*gin.Engine, *auth.Manager, *diagnostics.LogBuffer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	service := xbox.NewService(auth.NewXboxLiveProvider(cfg.Xbox.ClientID), nil, cfg.Xbox.DefaultRedirectURI)
	dispatcher := xbox.NewDispatcher(service, logger, xbox.DispatcherOptions{StrictActions: cfg.Xbox.StrictActions})
	buffer := diagnostics.NewLogBuffer(10)
	manager := auth.NewManager(cfg.Admin)
	router := NewRouter(RouterDeps{
		Config:      cfg,
		XboxHandler: xbox.NewHandler(dispatcher),
		Diagnostics: diagnostics.NewHandler(buffer, cfg.App.Version, xbox.Actions()),
		AuthManager: manager,
		Logger:      logger,
		LogBuffer:   buffer,
		IPLimiter:   ipLimiter,
	})
	return router, manager, buffer
}

func do(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouterGatewayRoute(t *testing.T) {
	r, _, _ := newTestRouter(t, testConfig(), nil)

	rec := do(r, http.MethodPost, "/api/v1/xbox-auth", `{"action":"connect_friend","friend_id":"7","friend_name":"Bob"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	require.Contains(t, rec.Body.String(), `"gamertag":"AI_Bob"`)
}

func TestRouterGatewayPreflightUsesFixedHeaders(t *testing.T) {
	r, _, _ := newTestRouter(t, testConfig(), nil)

	rec := do(r, http.MethodOptions, "/api/v1/xbox-auth", "", map[string]string{"Origin": "https://game.example"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Content-Type, X-User-Id", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestRouterStrictActions(t *testing.T) {
	cfg := testConfig()
	cfg.Xbox.StrictActions = true
	r, _, _ := newTestRouter(t, cfg, nil)

	rec := do(r, http.MethodPost, "/api/v1/xbox-auth", `{"action":"dance"}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterHealth(t *testing.T) {
	r, _, _ := newTestRouter(t, testConfig(), nil)

	rec := do(r, http.MethodGet, "/api/v1/health", "", map[string]string{"Origin": "https://game.example"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
	require.Contains(t, rec.Body.String(), "join_game")
	require.Equal(t, "https://game.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterMetrics(t *testing.T) {
	r, _, _ := newTestRouter(t, testConfig(), nil)

	rec := do(r, http.MethodGet, "/api/v1/metrics", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterDebugLogsRequiresAdmin(t *testing.T) {
	r, manager, _ := newTestRouter(t, testConfig(), nil)

	rec := do(r, http.MethodGet, "/api/v1/debug/logs", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	viewer, _, err := manager.IssueToken("viewer", "viewer")
	require.NoError(t, err)
	rec = do(r, http.MethodGet, "/api/v1/debug/logs", "", map[string]string{"Authorization": "Bearer " + viewer})
	require.Equal(t, http.StatusForbidden, rec.Code)

	do(r, http.MethodGet, "/api/v1/health", "", nil)
	admin, _, err := manager.IssueToken("ops", auth.RoleAdmin)
	require.NoError(t, err)
	rec = do(r, http.MethodGet, "/api/v1/debug/logs", "", map[string]string{"Authorization": "Bearer " + admin})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/api/v1/health")
}

func TestRouterRateLimits(t *testing.T) {
	r, _, _ := newTestRouter(t, testConfig(), ratelimit.NewMemoryLimiter(1, 0))

	first := do(r, http.MethodPost, "/api/v1/xbox-auth", `{"action":"join_game"}`, nil)
	second := do(r, http.MethodPost, "/api/v1/xbox-auth", `{"action":"join_game"}`, nil)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.NotEmpty(t, second.Header().Get("Retry-After"))
}

type denyAll struct{}

func (denyAll) Allow(ctx context.Context, key string) (ratelimit.RateLimitInfo, error) {
	return ratelimit.RateLimitInfo{Allowed: false, Limit: 1, Reset: time.Now().Add(time.Minute)}, nil
}

func TestRouterPreflightIsNeverThrottled(t *testing.T) {
	r, _, _ := newTestRouter(t, testConfig(), denyAll{})

	rec := do(r, http.MethodOptions, "/api/v1/xbox-auth", "", map[string]string{"Origin": "https://game.example"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
}

func TestRouterGatewayThrottleKeepsWildcardOrigin(t *testing.T) {
	r, _, _ := newTestRouter(t, testConfig(), denyAll{})

	rec := do(r, http.MethodPost, "/api/v1/xbox-auth", `{"action":"join_game"}`, map[string]string{"Origin": "https://game.example"})

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Body.String(), "rate_limited")
}

func TestRouterThrottledRequestsAreLogged(t *testing.T) {
	r, _, buffer := newTestRouter(t, testConfig(), denyAll{})

	rec := do(r, http.MethodPost, "/api/v1/xbox-auth", `{"action":"join_game"}`, nil)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	entries := buffer.Snapshot()
	require.Len(t, entries, 1)
	require.Contains(t, entries[0], "POST /api/v1/xbox-auth -> 429")
}

func TestRouterDiagnosticsPreflight(t *testing.T) {
	r, _, _ := newTestRouter(t, testConfig(), denyAll{})

	for _, path := range []string{"/api/v1/health", "/api/v1/metrics", "/api/v1/debug/logs"} {
		rec := do(r, http.MethodOptions, path, "", map[string]string{"Origin": "https://game.example"})

		require.Equal(t, http.StatusNoContent, rec.Code, path)
		require.Equal(t, "https://game.example", rec.Header().Get("Access-Control-Allow-Origin"), path)
		require.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"), path)
	}
}
