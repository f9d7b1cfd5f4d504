package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRateLimitedRouter(rdb *redis.Client, perMinute int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/apply", RouteRateLimit(rdb, "apply", perMinute), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func doRequest(r *gin.Engine) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/apply", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRouteRateLimit(t *testing.T) {
	t.Run("Blocks after the per-minute quota", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		r := newRateLimitedRouter(rdb, 2)

		assert.Equal(t, http.StatusOK, doRequest(r))
		assert.Equal(t, http.StatusOK, doRequest(r))
		assert.Equal(t, http.StatusTooManyRequests, doRequest(r))
	})

	t.Run("Counter key always carries a TTL", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		r := newRateLimitedRouter(rdb, 2)

		doRequest(r)
		key := "ratelimit:apply:10.0.0.1"
		require.True(t, mr.Exists(key))
		// 没有 TTL 的计数键意味着这个 IP 会被永久限流
		assert.Greater(t, mr.TTL(key), time.Duration(0))
	})

	t.Run("Window resets after expiry", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		r := newRateLimitedRouter(rdb, 1)

		assert.Equal(t, http.StatusOK, doRequest(r))
		assert.Equal(t, http.StatusTooManyRequests, doRequest(r))

		mr.FastForward(time.Minute + time.Second)
		assert.Equal(t, http.StatusOK, doRequest(r))
	})

	t.Run("Fails open when redis is down", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		r := newRateLimitedRouter(rdb, 1)
		mr.Close()

		assert.Equal(t, http.StatusOK, doRequest(r))
		assert.Equal(t, http.StatusOK, doRequest(r))
	})
}
