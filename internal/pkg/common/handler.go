package handler

import (
	"context"
	"net/http"
	"time"

	"discount_campaign_api/internal/pkg/config"
	"discount_campaign_api/pkg/response"
	"discount_campaign_api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// TokenRequest 管理端换取令牌请求
type TokenRequest struct {
	AdminKey string `json:"adminKey" binding:"required"`
}

// TokenResponse 令牌响应
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IssueToken 用管理密钥换取 JWT
// @Summary 获取管理端令牌
// @Tags Common
// @Accept json
// @Produce json
// @Param request body TokenRequest true "管理密钥"
// @Success 200 {object} response.Response{data=TokenResponse}
// @Failure 401 {object} response.Response
// @Router /auth/token [post]
func IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "adminKey is required")
		return
	}

	if req.AdminKey != config.GlobalConfig.JWT.AdminKey {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "invalid admin key")
		return
	}

	token, expiresAt, err := utils.GenerateToken(utils.RoleAdmin)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "failed to issue token")
		return
	}

	response.Success(c, TokenResponse{Token: token, ExpiresAt: *expiresAt})
}

// HealthCheck 健康检查，同时探测 Postgres 和 Redis
// @Summary 健康检查
// @Tags Common
// @Produce json
// @Success 200 {object} response.Response{data=map[string]string}
// @Failure 503 {object} response.Response
// @Router /healthz [get]
func HealthCheck(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{
			"database": "ok",
			"redis":    "ok",
		}
		healthy := true

		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			status["database"] = "unreachable"
			healthy = false
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = "unreachable"
			healthy = false
		}

		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, response.ErrServerInternal, "service degraded")
			return
		}
		response.Success(c, status)
	}
}
