package money

import (
	"github.com/shopspring/decimal"
)

// 金额统一用 decimal 表示，数据库列为 decimal(12,2)
// 百分比计算过程中不做中间舍入，只在最终结果上保留两位小数

var Zero = decimal.Zero

// Round 金额四舍五入到分（2位小数，half-up）
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent 计算 base 的 pct% （不舍入，由调用方在最终结果上 Round）
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(decimal.NewFromInt(100))
}

// IsRounded 判断金额是否已对齐到分（不超过2位小数）
// 入参校验用：次分位的金额属于非法输入，拒绝而不是悄悄舍入
func IsRounded(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// Min 返回两个金额中较小的一个
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThanOrEqual(b) {
		return a
	}
	return b
}
