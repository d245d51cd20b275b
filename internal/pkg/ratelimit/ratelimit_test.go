package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_BurstThenRefill(t *testing.T) {
	clock := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(3)
	l.now = func() time.Time { return clock }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, _ := l.Allow(ctx, "1.2.3.4")
	assert.False(t, ok)

	// Keys are independent.
	ok, _ = l.Allow(ctx, "5.6.7.8")
	assert.True(t, ok)

	// One token every 20s at 3/min.
	clock = clock.Add(21 * time.Second)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, ok)
}

func TestMemoryLimiter_Cleanup(t *testing.T) {
	clock := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(10)
	l.now = func() time.Time { return clock }

	_, _ = l.Allow(context.Background(), "a")
	clock = clock.Add(5 * time.Minute)
	_, _ = l.Allow(context.Background(), "b")
	clock = clock.Add(6 * time.Minute)

	assert.Equal(t, 1, l.Cleanup())
	assert.Len(t, l.visitors, 1)
	assert.Contains(t, l.visitors, "b")
}

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.err
}

func serve(l Limiter) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/leads", Middleware(l, "leads"), func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	allow := &stubLimiter{allowed: true}
	assert.Equal(t, http.StatusCreated, serve(allow).Code)
	assert.Equal(t, []string{"leads:10.0.0.7"}, allow.keys)

	deny := &stubLimiter{allowed: false}
	assert.Equal(t, http.StatusTooManyRequests, serve(deny).Code)

	broken := &stubLimiter{err: errors.New("redis down")}
	assert.Equal(t, http.StatusCreated, serve(broken).Code, "fails open")
}

func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	l := NewRedisLimiter(rdb, 2, time.Minute, "test-"+uuid.NewString())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, ok)
}
