package model

import (
	"time"
)

// BaseModel 基础模型，自增主键 + 时间戳
// 折扣排序需要按活动 ID 做确定性的次级排序，所以用数字主键而不是 UUID
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
