package xbox

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kidpech/xbox_link_demo/internal/infrastructure/auth"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := NewService(auth.NewXboxLiveProvider(""), nil, "https://localhost:3000/auth/callback")
	handler := NewHandler(NewDispatcher(service, zap.NewNop(), DispatcherOptions{}))
	r := gin.New()
	handler.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestHandlerPostAction(t *testing.T) {
	r := newTestEngine()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/xbox-auth", strings.NewReader(`{"action":"join_game","gamertag":"Zed","session_id":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.JSONEq(t, `{"success":true,"message":"Zed is joining the game!","game_session":"abc","join_status":"connecting","eta_seconds":5}`, rec.Body.String())
}

func TestHandlerPreflight(t *testing.T) {
	r := newTestEngine()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/xbox-auth", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
	require.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
	require.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	require.Empty(t, rec.Header().Get("Content-Type"))
}

func TestHandlerGetNotAllowed(t *testing.T) {
	r := newTestEngine()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/xbox-auth", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.JSONEq(t, `{"error":"Method not allowed"}`, rec.Body.String())
}

func TestHandlerMalformedBody(t *testing.T) {
	r := newTestEngine()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/xbox-auth", strings.NewReader(`{"action":`))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerRejectsOversizedBody(t *testing.T) {
	r := newTestEngine()
	body := `{"action":"join_game","gamertag":"` + strings.Repeat("z", MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/xbox-auth", strings.NewReader(body))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
