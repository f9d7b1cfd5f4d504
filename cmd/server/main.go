package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discount_campaign_api/internal/pkg/config"
	"discount_campaign_api/internal/pkg/middleware"
	"discount_campaign_api/internal/pkg/registry"
	"discount_campaign_api/pkg/database"
	"discount_campaign_api/pkg/logger"

	_ "discount_campaign_api/docs"
	_ "discount_campaign_api/internal/domain/campaign"
	_ "discount_campaign_api/internal/domain/common"
	_ "discount_campaign_api/internal/domain/customer"
	_ "discount_campaign_api/internal/domain/discount"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Discount Campaign API
// @version 1.0
// @description 折扣活动管理服务：活动配置、资格检查、折扣计算与核销
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 加载配置
	config.LoadConfig()
	cfg := config.GlobalConfig

	// 2. 初始化日志
	logger.Init(cfg.App.Env, cfg.App.Debug)
	defer logger.Sync()

	// 3. 初始化数据库和 Redis
	db := database.InitDatabase()
	rdb := database.InitRedis()

	// 4. 初始化 Gin
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.RateLimitMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{middleware.HeaderTraceID},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 5. 运维端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 6. 初始化业务模块
	moduleCtx := &registry.ModuleContext{
		DB:     db,
		Redis:  rdb,
		Router: r,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("failed to init modules", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 7. 优雅关闭
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Log.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Log.Error("server shutdown error", zap.Error(err))
		}
	}()

	logger.Log.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.App.Env))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.Fatal("server failed", zap.Error(err))
	}
	logger.Log.Info("server stopped")
}
