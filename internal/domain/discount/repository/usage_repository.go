package repository

import (
	"time"

	campaignModel "discount_campaign_api/internal/domain/campaign/model"
	"discount_campaign_api/internal/domain/discount/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UsageCounter 统计 [dayStart, dayEnd) 内某客户对某活动的核销次数
// 资格评估里唯一一次存储查询，放在所有内存检查之后
type UsageCounter func(customerID, campaignID uint, dayStart, dayEnd time.Time) (int64, error)

// DecideFunc 核销决策回调，在事务内、活动行锁之下执行
// 返回要写入的核销记录、活动是否被修改（状态刷新或预算扣减）、以及业务错误
type DecideFunc func(campaign *campaignModel.Campaign, countUsage UsageCounter) (*model.DiscountUsage, bool, error)

// UsageRepository 接口定义
type UsageRepository interface {
	CountToday(customerID, campaignID uint, dayStart, dayEnd time.Time) (int64, error)
	ListByCustomer(customerID uint, campaignID uint) ([]model.DiscountUsage, error)
	Apply(campaignID uint, decide DecideFunc) (*model.DiscountUsage, error)
}

// usageRepository 实现
type usageRepository struct {
	db *gorm.DB
}

// NewUsageRepository 创建新的仓库实例
func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

// CountToday 统计当天核销次数
func (r *usageRepository) CountToday(customerID, campaignID uint, dayStart, dayEnd time.Time) (int64, error) {
	return countUsage(r.db, customerID, campaignID, dayStart, dayEnd)
}

// ListByCustomer 客户核销历史，campaignID 为 0 时不过滤活动
func (r *usageRepository) ListByCustomer(customerID uint, campaignID uint) ([]model.DiscountUsage, error) {
	query := r.db.Preload("Campaign").Preload("Customer").
		Where("customer_id = ?", customerID)
	if campaignID != 0 {
		query = query.Where("campaign_id = ?", campaignID)
	}

	var usages []model.DiscountUsage
	if err := query.Order("used_at DESC").Find(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}

// Apply 原子核销：锁定活动行，执行决策回调，预算扣减和流水写入同一事务提交
// 并发核销同一活动时，后到的事务会阻塞在行锁上，拿到的是前一笔提交后的
// used_budget，预算不会被超扣
//
// 惰性下线是合法的状态变更：即使回调返回业务错误（如 NotEligible），
// 已发生的状态刷新仍然提交，错误在事务提交后再向上返回
func (r *usageRepository) Apply(campaignID uint, decide DecideFunc) (*model.DiscountUsage, error) {
	var (
		created   *model.DiscountUsage
		decideErr error
	)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var campaign campaignModel.Campaign
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&campaign, campaignID).Error; err != nil {
			return err
		}
		// 定向名单在行锁之外单独加载（many2many 不参与 FOR UPDATE）
		if err := tx.Model(&campaign).Association("TargetCustomers").Find(&campaign.TargetCustomers); err != nil {
			return err
		}

		counter := func(customerID, cID uint, dayStart, dayEnd time.Time) (int64, error) {
			return countUsage(tx, customerID, cID, dayStart, dayEnd)
		}

		usage, changed, err := decide(&campaign, counter)
		if changed {
			updates := map[string]interface{}{
				"status":      campaign.Status,
				"used_budget": campaign.UsedBudget,
			}
			if uerr := tx.Model(&campaignModel.Campaign{}).Where("id = ?", campaign.ID).
				Updates(updates).Error; uerr != nil {
				return uerr
			}
		}
		if err != nil {
			decideErr = err
			return nil
		}

		if err := tx.Create(usage).Error; err != nil {
			return err
		}
		created = usage
		return nil
	})
	if err != nil {
		return nil, err
	}
	if decideErr != nil {
		return nil, decideErr
	}
	return created, nil
}

func countUsage(db *gorm.DB, customerID, campaignID uint, dayStart, dayEnd time.Time) (int64, error) {
	var count int64
	err := db.Model(&model.DiscountUsage{}).
		Where("customer_id = ? AND campaign_id = ? AND used_at >= ? AND used_at < ?",
			customerID, campaignID, dayStart, dayEnd).
		Count(&count).Error
	return count, err
}
