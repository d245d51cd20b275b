package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightnest/cleaning-booking-backend/internal/activity"
	"github.com/brightnest/cleaning-booking-backend/internal/auth"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/ratelimit"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, db Pinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hasher := auth.NewBcryptPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("s3cret-pass")
	require.NoError(t, err)
	jwtManager := auth.NewJWTManager("test-secret", 10*time.Minute)

	log := activity.New(10, 0)
	log.Record(activity.KindJobRun, "reminders sent", nil)

	r, err := NewRouter(Config{
		Logger:        zap.NewNop(),
		DB:            db,
		Limiter:       ratelimit.NewMemoryLimiter(100),
		Authenticator: auth.NewAuthenticator("owner@example.com", hash, hasher, jwtManager),
		JWTManager:    jwtManager,
		ActivityLog:   log,
	})
	require.NoError(t, err)
	return r
}

func executeRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := executeRequest(newTestRouter(t, fakePinger{}), http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = executeRequest(newTestRouter(t, fakePinger{err: errors.New("down")}), http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLoginAndAdminAccess(t *testing.T) {
	r := newTestRouter(t, fakePinger{})

	w := executeRequest(r, http.MethodGet, "/v1/admin/activity", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = executeRequest(r, http.MethodPost, "/v1/auth/login", LoginRequest{Email: "owner@example.com", Password: "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = executeRequest(r, http.MethodPost, "/v1/auth/login", map[string]string{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = executeRequest(r, http.MethodPost, "/v1/auth/login", LoginRequest{Email: "owner@example.com", Password: "s3cret-pass"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var login LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, "Bearer", login.TokenType)
	assert.Equal(t, 600, login.ExpiresIn)

	w = executeRequest(r, http.MethodGet, "/v1/auth/me", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"owner@example.com","role":"admin"}`, w.Body.String())

	w = executeRequest(r, http.MethodGet, "/v1/admin/activity", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reminders sent")
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://brightnest.example", "https://admin.brightnest.example"},
		splitOrigins(" https://brightnest.example, ,https://admin.brightnest.example "))
	assert.Nil(t, splitOrigins(""))
}
