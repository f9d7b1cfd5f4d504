package common

import (
	commonHandler "discount_campaign_api/internal/pkg/common"
	"discount_campaign_api/internal/pkg/registry"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	// 健康检查和管理端令牌
	ctx.Router.GET("/healthz", commonHandler.HealthCheck(ctx.DB, ctx.Redis))
	ctx.Router.POST("/auth/token", commonHandler.IssueToken)
	return nil
}
