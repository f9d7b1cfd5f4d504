package model

import (
	baseModel "discount_campaign_api/pkg/model"
)

// Customer 客户
// 创建后基本不变，被定向活动和折扣核销记录引用
type Customer struct {
	baseModel.BaseModel
	Email string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name  string `gorm:"type:varchar(100);not null" json:"name"`
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}
