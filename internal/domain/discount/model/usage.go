package model

import (
	"time"

	campaignModel "discount_campaign_api/internal/domain/campaign/model"
	customerModel "discount_campaign_api/internal/domain/customer/model"

	"github.com/shopspring/decimal"
)

// DiscountUsage 折扣核销记录，只追加、不更新不删除
// 既是审计流水，也是按天限次的计数来源
type DiscountUsage struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CampaignID     uint            `gorm:"not null;index:idx_usages_daily,priority:2" json:"campaignId"`
	CustomerID     uint            `gorm:"not null;index:idx_usages_daily,priority:1" json:"customerId"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discountAmount"`
	OriginalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"originalAmount"`
	FinalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"finalAmount"`
	UsedAt         time.Time       `gorm:"not null;index:idx_usages_daily,priority:3" json:"usedAt"`

	Campaign campaignModel.Campaign `gorm:"foreignKey:CampaignID" json:"-"`
	Customer customerModel.Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// TableName 指定表名
func (DiscountUsage) TableName() string {
	return "discount_usages"
}
