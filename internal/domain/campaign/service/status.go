package service

import (
	"time"

	"discount_campaign_api/internal/domain/campaign/model"
)

// 活动下线原因
const (
	DeactivationExpired         = "expired"
	DeactivationBudgetExhausted = "budget_exhausted"
)

// RefreshStatus 惰性刷新活动状态，纯函数、幂等
// active 活动在预算耗尽或过期时转为 inactive，返回是否变更及触发原因
// 每次资格评估前必须先调用，保证过期的 active 活动不会漏出去
func RefreshStatus(c *model.Campaign, now time.Time) (changed bool, cause string) {
	if c.Status != model.StatusActive {
		return false, ""
	}

	if c.UsedBudget.GreaterThanOrEqual(c.TotalBudget) {
		c.Status = model.StatusInactive
		return true, DeactivationBudgetExhausted
	}
	if now.After(c.EndDate) {
		c.Status = model.StatusInactive
		return true, DeactivationExpired
	}

	return false, ""
}
