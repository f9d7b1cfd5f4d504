package service

import (
	"time"

	campaignModel "discount_campaign_api/internal/domain/campaign/model"
	"discount_campaign_api/internal/domain/discount/repository"
	"discount_campaign_api/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// 资格检查失败原因，按检查顺序排列
const (
	ReasonInactive               = "inactive"
	ReasonNotStarted             = "not_started"
	ReasonExpired                = "expired"
	ReasonBudgetExhausted        = "budget_exhausted"
	ReasonMinCartValueNotMet     = "min_cart_value_not_met"
	ReasonDeliveryChargeRequired = "delivery_charge_required"
	ReasonNotTargeted            = "not_targeted"
	ReasonDailyLimitExceeded     = "daily_limit_exceeded"
	ReasonNoDiscount             = "no_discount"
)

// Evaluate 按固定顺序检查活动对本次交易是否可用，第一条未通过的规则短路返回
// 前面都是内存检查；按天限次需要查库，放在最后，尽量省掉不必要的 IO
// 调用方必须先做状态刷新（RefreshStatus），这里只认刷新后的状态
func Evaluate(
	c *campaignModel.Campaign,
	customerID uint,
	cartValue, deliveryCharge decimal.Decimal,
	now time.Time,
	countUsage repository.UsageCounter,
) error {
	// 1. 状态
	if c.Status != campaignModel.StatusActive {
		return apperrors.NotEligible(ReasonInactive, "campaign is not active")
	}

	// 2. 活动时间窗口
	if now.Before(c.StartDate) {
		return apperrors.NotEligible(ReasonNotStarted, "campaign has not started yet")
	}
	if now.After(c.EndDate) {
		return apperrors.NotEligible(ReasonExpired, "campaign has ended")
	}

	// 3. 预算
	if c.UsedBudget.GreaterThanOrEqual(c.TotalBudget) {
		return apperrors.NotEligible(ReasonBudgetExhausted, "campaign budget is exhausted")
	}

	// 4. 类型相关的金额门槛
	// 购物车活动看最低消费；运费活动只要求本单有正的运费，不检查最低消费
	switch c.DiscountType {
	case campaignModel.DiscountTypeCart:
		if cartValue.LessThan(c.MinCartValue) {
			return apperrors.NotEligible(ReasonMinCartValueNotMet, "cart value below campaign minimum")
		}
	case campaignModel.DiscountTypeDelivery:
		if !deliveryCharge.IsPositive() {
			return apperrors.NotEligible(ReasonDeliveryChargeRequired, "delivery charge required for delivery discounts")
		}
	}

	// 5. 定向名单
	if c.IsTargeted && !c.IsTargetedAt(customerID) {
		return apperrors.NotEligible(ReasonNotTargeted, "customer is not targeted by this campaign")
	}

	// 6. 按天限次（当天 [0点, 次日0点)，唯一一次存储查询）
	dayStart, dayEnd := dayWindow(now)
	used, err := countUsage(customerID, c.ID, dayStart, dayEnd)
	if err != nil {
		return apperrors.Internal(err)
	}
	if used >= int64(c.MaxUsagePerCustomerPerDay) {
		return apperrors.NotEligible(ReasonDailyLimitExceeded, "daily usage limit reached for this campaign")
	}

	return nil
}

// dayWindow 返回 now 所在自然日的 [当天0点, 次日0点)
func dayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
