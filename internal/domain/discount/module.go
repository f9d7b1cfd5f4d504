package discount

import (
	campaignRepository "discount_campaign_api/internal/domain/campaign/repository"
	customerRepository "discount_campaign_api/internal/domain/customer/repository"
	"discount_campaign_api/internal/domain/discount/handler"
	"discount_campaign_api/internal/domain/discount/repository"
	"discount_campaign_api/internal/domain/discount/service"
	"discount_campaign_api/internal/pkg/config"
	"discount_campaign_api/internal/pkg/middleware"
	"discount_campaign_api/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// DiscountModule 折扣模块，依赖活动和客户模块的仓储
type DiscountModule struct{}

func init() {
	registry.Register(&DiscountModule{})
}

func (m *DiscountModule) Name() string {
	return "discount"
}

func (m *DiscountModule) Priority() int {
	return 20
}

func (m *DiscountModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	usageRepo := repository.NewUsageRepository(ctx.DB)
	campaignRepo := campaignRepository.NewCampaignRepository(ctx.DB)
	customerRepo := customerRepository.NewCustomerRepository(ctx.DB)
	discountService := service.NewDiscountService(usageRepo, campaignRepo, customerRepo)
	discountHandler := handler.NewDiscountHandler(discountService)

	// 2. 路由注册
	setupRoutes(ctx.Router, ctx.Redis, discountHandler)

	return nil
}

func setupRoutes(r *gin.Engine, rdb *redis.Client, h *handler.DiscountHandler) {
	cfg := config.GlobalConfig.RateLimit

	g := r.Group("/discounts")
	{
		// 查询和核销是顾客侧高频接口，单独限流
		g.POST("/available", middleware.RouteRateLimit(rdb, "available", cfg.AvailablePerMinute), h.ListAvailable)
		g.POST("/apply", middleware.RouteRateLimit(rdb, "apply", cfg.ApplyPerMinute), h.Apply)
		g.GET("/usage/:customer_id", h.GetUsageHistory)
	}
}
