package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeps-agent.backend/pkg/redis"
)

func newIdempotentRouter(agentID uuid.UUID, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(AgentIDKey, agentID); c.Next() })
	r.Use(IdempotencyMiddleware())
	r.POST("/tx", handler)
	return r
}

func postWithKey(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/tx", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyMiddleware_ReplaysFinalResponses(t *testing.T) {
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	agentID := uuid.New()
	calls := 0
	r := newIdempotentRouter(agentID, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Insufficient balance"})
	})

	first := postWithKey(r, "k1")
	second := postWithKey(r, "k1")

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusUnprocessableEntity, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Hit"))
	assert.True(t, mr.Exists("idempotency:"+agentID.String()+":k1"))

	// different agent, same key
	other := newIdempotentRouter(uuid.New(), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{})
	})
	assert.Equal(t, http.StatusOK, postWithKey(other, "k1").Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotencyMiddleware_RetryableStatusReleasesKey(t *testing.T) {
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	agentID := uuid.New()
	calls := 0
	r := newIdempotentRouter(agentID, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "refresh"})
	})

	postWithKey(r, "k2")
	postWithKey(r, "k2")
	assert.Equal(t, 2, calls)
	assert.False(t, mr.Exists("idempotency:"+agentID.String()+":k2"))

	postWithKey(r, "")
	assert.Equal(t, 3, calls)
}

func TestIdempotencyMiddleware_WithHookedRedis(t *testing.T) {
	origGet, origSet, origSetNX, origDel := redisGet, redisSet, redisSetNX, redisDel
	t.Cleanup(func() {
		redisGet, redisSet, redisSetNX, redisDel = origGet, origSet, origSetNX, origDel
	})
	redisSet = func(context.Context, string, interface{}, time.Duration) error { return nil }
	redisDel = func(context.Context, string) error { return nil }

	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }

	t.Run("in progress", func(t *testing.T) {
		redisGet = func(context.Context, string) (string, error) { return processingMarker, nil }
		w := postWithKey(newIdempotentRouter(uuid.New(), ok), "a")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("lost lock race", func(t *testing.T) {
		redisGet = func(context.Context, string) (string, error) { return "", goredis.Nil }
		redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) { return false, nil }
		w := postWithKey(newIdempotentRouter(uuid.New(), ok), "b")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("redis down passes through", func(t *testing.T) {
		redisGet = func(context.Context, string) (string, error) { return "", errors.New("connection refused") }
		w := postWithKey(newIdempotentRouter(uuid.New(), ok), "c")
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unreadable record is discarded", func(t *testing.T) {
		deleted := false
		redisGet = func(context.Context, string) (string, error) { return "garbage", nil }
		redisDel = func(context.Context, string) error { deleted = true; return nil }
		redisSetNX = func(context.Context, string, interface{}, time.Duration) (bool, error) { return true, nil }
		w := postWithKey(newIdempotentRouter(uuid.New(), ok), "d")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, deleted)
	})
}
