package service

import (
	campaignModel "discount_campaign_api/internal/domain/campaign/model"
	"discount_campaign_api/pkg/money"

	"github.com/shopspring/decimal"
)

// CalculateDiscount 计算折扣金额
// base 对购物车活动是购物车金额，对运费活动是运费
// 百分比计算不做中间舍入，算完一次性对齐到分，然后才做封顶：
// 单次上限 -> 剩余预算 -> 被折扣的金额本身
// 封顶放在舍入之后，结果不可能高于任何一个上限
func CalculateDiscount(c *campaignModel.Campaign, base decimal.Decimal) decimal.Decimal {
	var raw decimal.Decimal
	switch {
	case c.DiscountPercentage != nil:
		raw = money.Round(money.Percent(base, *c.DiscountPercentage))
	case c.DiscountFlat != nil:
		raw = *c.DiscountFlat
	default:
		return decimal.Zero
	}

	capped := raw
	if c.MaxDiscountAmount != nil {
		capped = money.Min(capped, *c.MaxDiscountAmount)
	}
	capped = money.Min(capped, c.RemainingBudget())
	capped = money.Min(capped, base)

	return capped
}
