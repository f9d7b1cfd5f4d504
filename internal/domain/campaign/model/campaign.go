package model

import (
	"time"

	customerModel "discount_campaign_api/internal/domain/customer/model"
	baseModel "discount_campaign_api/pkg/model"

	"github.com/shopspring/decimal"
)

// DiscountType 折扣类型
type DiscountType string

const (
	DiscountTypeCart     DiscountType = "cart"     // 购物车折扣
	DiscountTypeDelivery DiscountType = "delivery" // 运费折扣
)

// Valid 校验折扣类型
func (t DiscountType) Valid() bool {
	return t == DiscountTypeCart || t == DiscountTypeDelivery
}

// CampaignStatus 活动状态
// 只有两个状态：过期/预算耗尽都收敛为 inactive，触发原因走日志和指标
type CampaignStatus string

const (
	StatusActive   CampaignStatus = "active"
	StatusInactive CampaignStatus = "inactive"
)

// Campaign 折扣活动
type Campaign struct {
	baseModel.BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// 折扣配置：百分比和固定金额二选一
	DiscountType       DiscountType     `gorm:"type:varchar(16);not null;index:idx_campaigns_type_status" json:"discountType"`
	DiscountPercentage *decimal.Decimal `gorm:"type:decimal(5,2)" json:"discountPercentage"`
	DiscountFlat       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"discountFlat"`

	// 活动约束
	StartDate   time.Time       `gorm:"not null" json:"startDate"`
	EndDate     time.Time       `gorm:"not null" json:"endDate"`
	TotalBudget decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalBudget"`
	// UsedBudget 只增不减，只能由折扣核销在同一事务内更新
	UsedBudget decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"usedBudget"`

	// 使用限制
	MaxUsagePerCustomerPerDay int              `gorm:"not null;default:1" json:"maxUsagePerCustomerPerDay"`
	MinCartValue              decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"minCartValue"`
	MaxDiscountAmount         *decimal.Decimal `gorm:"type:decimal(12,2)" json:"maxDiscountAmount"`

	// 定向投放
	IsTargeted      bool                     `gorm:"not null;default:false" json:"isTargeted"`
	TargetCustomers []customerModel.Customer `gorm:"many2many:campaign_customers" json:"targetCustomers,omitempty"`

	Status CampaignStatus `gorm:"type:varchar(16);not null;default:'active';index:idx_campaigns_type_status" json:"status"`
}

// TableName 指定表名
func (Campaign) TableName() string {
	return "campaigns"
}

// RemainingBudget 剩余预算
func (c *Campaign) RemainingBudget() decimal.Decimal {
	return c.TotalBudget.Sub(c.UsedBudget)
}

// IsTargetedAt 判断客户是否在定向名单内（需要预加载 TargetCustomers）
func (c *Campaign) IsTargetedAt(customerID uint) bool {
	for _, t := range c.TargetCustomers {
		if t.ID == customerID {
			return true
		}
	}
	return false
}

// TargetCustomerIDs 定向客户ID列表
func (c *Campaign) TargetCustomerIDs() []uint {
	ids := make([]uint, 0, len(c.TargetCustomers))
	for _, t := range c.TargetCustomers {
		ids = append(ids, t.ID)
	}
	return ids
}
