package customer

import (
	"discount_campaign_api/internal/domain/customer/handler"
	"discount_campaign_api/internal/domain/customer/repository"
	"discount_campaign_api/internal/domain/customer/service"
	"discount_campaign_api/internal/pkg/middleware"
	"discount_campaign_api/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CustomerModule 客户模块
type CustomerModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&CustomerModule{})
}

func (m *CustomerModule) Name() string {
	return "customer"
}

func (m *CustomerModule) Priority() int {
	// 客户模块优先级最高，campaign / discount 模块都依赖它
	return 1
}

func (m *CustomerModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	customerRepo := repository.NewCustomerRepository(ctx.DB)
	customerService := service.NewCustomerService(customerRepo)
	customerHandler := handler.NewCustomerHandler(customerService)

	// 2. 路由注册
	setupRoutes(ctx.Router, customerHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CustomerHandler) {
	g := r.Group("/customers")
	{
		// 查询对结算链路开放
		g.GET("/", h.GetCustomers)
		g.GET("/:id", h.GetCustomer)

		// 写操作需要管理员权限
		admin := g.Group("")
		admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			admin.POST("/", h.CreateCustomer)
		}
	}
}
