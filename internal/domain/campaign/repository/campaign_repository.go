package repository

import (
	"discount_campaign_api/internal/domain/campaign/model"
	customerModel "discount_campaign_api/internal/domain/customer/model"

	"gorm.io/gorm"
)

// ListFilter 活动列表过滤条件
type ListFilter struct {
	DiscountType *model.DiscountType
	Status       *model.CampaignStatus
	IsTargeted   *bool
}

// CampaignRepository 接口定义
type CampaignRepository interface {
	Create(campaign *model.Campaign) error
	GetByID(id uint) (*model.Campaign, error)
	GetList(filter ListFilter, offset, limit int) ([]model.Campaign, int64, error)
	GetActiveByType(discountType model.DiscountType) ([]model.Campaign, error)
	Update(campaign *model.Campaign) error
	UpdateStatus(id uint, status model.CampaignStatus) error
	ReplaceTargetCustomers(campaign *model.Campaign, customers []customerModel.Customer) error
	Delete(id uint) error
}

// campaignRepository 实现
type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository 创建新的仓库实例
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

// Create 创建活动（含定向客户关联）
func (r *campaignRepository) Create(campaign *model.Campaign) error {
	return r.db.Create(campaign).Error
}

// GetByID 根据ID获取活动，预加载定向客户
func (r *campaignRepository) GetByID(id uint) (*model.Campaign, error) {
	var campaign model.Campaign
	if err := r.db.Preload("TargetCustomers").First(&campaign, id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// GetList 获取活动列表（过滤 + 分页）
func (r *campaignRepository) GetList(filter ListFilter, offset, limit int) ([]model.Campaign, int64, error) {
	query := r.db.Model(&model.Campaign{})
	if filter.DiscountType != nil {
		query = query.Where("discount_type = ?", *filter.DiscountType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.IsTargeted != nil {
		query = query.Where("is_targeted = ?", *filter.IsTargeted)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var campaigns []model.Campaign
	if err := query.Preload("TargetCustomers").Order("id").Offset(offset).Limit(limit).Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// GetActiveByType 获取某个折扣类型下全部 active 活动，预加载定向客户
// 折扣评估用：状态刷新和资格过滤在 service 层做
func (r *campaignRepository) GetActiveByType(discountType model.DiscountType) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.db.Preload("TargetCustomers").
		Where("discount_type = ? AND status = ?", discountType, model.StatusActive).
		Order("id").
		Find(&campaigns).Error
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

// Update 更新活动字段（定向关联由 ReplaceTargetCustomers 单独处理）
func (r *campaignRepository) Update(campaign *model.Campaign) error {
	return r.db.Omit("TargetCustomers").Save(campaign).Error
}

// UpdateStatus 只更新状态（惰性下线用）
func (r *campaignRepository) UpdateStatus(id uint, status model.CampaignStatus) error {
	return r.db.Model(&model.Campaign{}).Where("id = ?", id).Update("status", status).Error
}

// ReplaceTargetCustomers 替换定向客户名单
func (r *campaignRepository) ReplaceTargetCustomers(campaign *model.Campaign, customers []customerModel.Customer) error {
	return r.db.Model(campaign).Association("TargetCustomers").Replace(customers)
}

// Delete 删除活动及定向关联
func (r *campaignRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM campaign_customers WHERE campaign_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Campaign{}, id).Error
	})
}
