package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"discount_campaign_api/internal/pkg/config"
	"discount_campaign_api/pkg/logger"
	"discount_campaign_api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// IPRateLimiter 存储每个IP的限流器
type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  *sync.RWMutex
	r   rate.Limit
	b   int
}

// NewIPRateLimiter 创建一个新的IP限流器
// r: 每秒允许的请求数 (QPS)
// b: 桶的大小 (Burst)
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		mu:  &sync.RWMutex{},
		r:   r,
		b:   b,
	}
}

// GetLimiter 获取指定IP的限流器
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}

	return limiter
}

// RateLimitMiddleware 全局按 IP 限流
func RateLimitMiddleware() gin.HandlerFunc {
	cfg := config.GlobalConfig.RateLimit
	limiter := NewIPRateLimiter(rate.Limit(cfg.RPS), cfg.Burst)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.GetLimiter(ip).Allow() {
			response.Error(c, http.StatusTooManyRequests, response.ErrTooManyRequests, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RouteRateLimit 单个路由的固定窗口限流（每分钟 N 次，按 IP），计数放在 Redis
// 折扣查询/核销接口比其它接口更敏感，在全局限流之上单独收紧
func RouteRateLimit(rdb *redis.Client, name string, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", name, c.ClientIP())

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		// 计数和过期时间一个 pipeline 提交：EXPIRE 单独发送且失败会留下
		// 永不过期的计数键，这个 IP 在该路由上会被永久限流
		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, time.Minute)
		if _, err := pipe.Exec(ctx); err != nil {
			// Redis 不可用时放行，限流是保护措施而不是功能依赖
			if logger.Log != nil {
				logger.Log.Warn("route rate limit unavailable", zap.String("route", name), zap.Error(err))
			}
			c.Next()
			return
		}

		if incr.Val() > int64(perMinute) {
			response.Error(c, http.StatusTooManyRequests, response.ErrTooManyRequests, "Too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
