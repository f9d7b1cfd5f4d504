package campaign

import (
	"discount_campaign_api/internal/domain/campaign/handler"
	"discount_campaign_api/internal/domain/campaign/repository"
	"discount_campaign_api/internal/domain/campaign/service"
	customerRepository "discount_campaign_api/internal/domain/customer/repository"
	"discount_campaign_api/internal/pkg/middleware"
	"discount_campaign_api/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CampaignModule 活动模块
type CampaignModule struct{}

func init() {
	registry.Register(&CampaignModule{})
}

func (m *CampaignModule) Name() string {
	return "campaign"
}

func (m *CampaignModule) Priority() int {
	return 10
}

func (m *CampaignModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	campaignRepo := repository.NewCampaignRepository(ctx.DB)
	customerRepo := customerRepository.NewCustomerRepository(ctx.DB)
	campaignService := service.NewCampaignService(campaignRepo, customerRepo)
	campaignHandler := handler.NewCampaignHandler(campaignService)

	// 2. 路由注册
	setupRoutes(ctx.Router, campaignHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CampaignHandler) {
	g := r.Group("/campaigns")
	{
		// 查询开放
		g.GET("/", h.GetCampaigns)
		g.GET("/:id", h.GetCampaign)

		// 活动配置属于管理端操作
		admin := g.Group("")
		admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			admin.POST("/", h.CreateCampaign)
			admin.PUT("/:id", h.UpdateCampaign)
			admin.PATCH("/:id/status", h.UpdateCampaignStatus)
			admin.DELETE("/:id", h.DeleteCampaign)
		}
	}
}
