package service

import (
	"errors"
	"time"

	"discount_campaign_api/internal/domain/campaign/model"
	"discount_campaign_api/internal/domain/campaign/repository"
	customerModel "discount_campaign_api/internal/domain/customer/model"
	customerRepository "discount_campaign_api/internal/domain/customer/repository"
	"discount_campaign_api/pkg/apperrors"
	"discount_campaign_api/pkg/logger"
	"discount_campaign_api/pkg/metrics"
	"discount_campaign_api/pkg/money"
	"discount_campaign_api/pkg/response"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateCampaignInput 创建活动输入
type CreateCampaignInput struct {
	Name                      string             `json:"name" binding:"required,min=1,max=255"`
	Description               string             `json:"description"`
	DiscountType              model.DiscountType `json:"discountType" binding:"required"`
	DiscountPercentage        *decimal.Decimal   `json:"discountPercentage"`
	DiscountFlat              *decimal.Decimal   `json:"discountFlat"`
	StartDate                 time.Time          `json:"startDate" binding:"required"`
	EndDate                   time.Time          `json:"endDate" binding:"required"`
	TotalBudget               decimal.Decimal    `json:"totalBudget"`
	MaxUsagePerCustomerPerDay int                `json:"maxUsagePerCustomerPerDay"`
	MinCartValue              decimal.Decimal    `json:"minCartValue"`
	MaxDiscountAmount         *decimal.Decimal   `json:"maxDiscountAmount"`
	IsTargeted                bool               `json:"isTargeted"`
	TargetCustomerIDs         []uint             `json:"targetCustomerIds"`
}

// UpdateCampaignInput 更新活动输入，只更新提供的字段
type UpdateCampaignInput struct {
	Name                      *string               `json:"name"`
	Description               *string               `json:"description"`
	DiscountType              *model.DiscountType   `json:"discountType"`
	DiscountPercentage        *decimal.Decimal      `json:"discountPercentage"`
	DiscountFlat              *decimal.Decimal      `json:"discountFlat"`
	StartDate                 *time.Time            `json:"startDate"`
	EndDate                   *time.Time            `json:"endDate"`
	TotalBudget               *decimal.Decimal      `json:"totalBudget"`
	MaxUsagePerCustomerPerDay *int                  `json:"maxUsagePerCustomerPerDay"`
	MinCartValue              *decimal.Decimal      `json:"minCartValue"`
	MaxDiscountAmount         *decimal.Decimal      `json:"maxDiscountAmount"`
	IsTargeted                *bool                 `json:"isTargeted"`
	TargetCustomerIDs         []uint                `json:"targetCustomerIds"`
	Status                    *model.CampaignStatus `json:"status"`
}

// CampaignService 活动服务接口
type CampaignService interface {
	CreateCampaign(input CreateCampaignInput) (*model.Campaign, error)
	GetCampaign(id uint) (*model.Campaign, error)
	GetCampaigns(filter repository.ListFilter, page, limit int) ([]model.Campaign, int64, error)
	UpdateCampaign(id uint, input UpdateCampaignInput) (*model.Campaign, error)
	UpdateCampaignStatus(id uint, status model.CampaignStatus) (*model.Campaign, error)
	DeleteCampaign(id uint) error
}

// campaignService 实现
type campaignService struct {
	repo      repository.CampaignRepository
	customers customerRepository.CustomerRepository
	now       func() time.Time
}

// NewCampaignService 创建活动服务
func NewCampaignService(repo repository.CampaignRepository, customers customerRepository.CustomerRepository) CampaignService {
	return &campaignService{
		repo:      repo,
		customers: customers,
		now:       time.Now,
	}
}

// CreateCampaign 创建活动
func (s *campaignService) CreateCampaign(input CreateCampaignInput) (*model.Campaign, error) {
	campaign := &model.Campaign{
		Name:                      input.Name,
		Description:               input.Description,
		DiscountType:              input.DiscountType,
		DiscountPercentage:        input.DiscountPercentage,
		DiscountFlat:              input.DiscountFlat,
		StartDate:                 input.StartDate,
		EndDate:                   input.EndDate,
		TotalBudget:               input.TotalBudget,
		UsedBudget:                decimal.Zero,
		MaxUsagePerCustomerPerDay: input.MaxUsagePerCustomerPerDay,
		MinCartValue:              input.MinCartValue,
		MaxDiscountAmount:         input.MaxDiscountAmount,
		IsTargeted:                input.IsTargeted,
		Status:                    model.StatusActive,
	}
	if campaign.MaxUsagePerCustomerPerDay == 0 {
		campaign.MaxUsagePerCustomerPerDay = 1
	}

	if err := validateCampaign(campaign); err != nil {
		return nil, err
	}

	if campaign.IsTargeted {
		targets, err := s.resolveTargetCustomers(input.TargetCustomerIDs)
		if err != nil {
			return nil, err
		}
		campaign.TargetCustomers = targets
	}

	if err := s.repo.Create(campaign); err != nil {
		return nil, apperrors.Internal(err)
	}
	return campaign, nil
}

// GetCampaign 获取活动，读取前惰性刷新状态
func (s *campaignService) GetCampaign(id uint) (*model.Campaign, error) {
	campaign, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(response.ErrCampaignNotFound, "campaign not found")
		}
		return nil, apperrors.Internal(err)
	}

	s.refresh(campaign)
	return campaign, nil
}

// GetCampaigns 获取活动列表，每个活动读取前惰性刷新状态
func (s *campaignService) GetCampaigns(filter repository.ListFilter, page, limit int) ([]model.Campaign, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	campaigns, total, err := s.repo.GetList(filter, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}

	for i := range campaigns {
		s.refresh(&campaigns[i])
	}
	return campaigns, total, nil
}

// UpdateCampaign 部分更新活动
func (s *campaignService) UpdateCampaign(id uint, input UpdateCampaignInput) (*model.Campaign, error) {
	campaign, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(response.ErrCampaignNotFound, "campaign not found")
		}
		return nil, apperrors.Internal(err)
	}

	applyUpdate(campaign, input)

	if err := validateCampaign(campaign); err != nil {
		return nil, err
	}
	// 开启定向时必须有名单：本次提供或之前已存在
	if campaign.IsTargeted && input.TargetCustomerIDs == nil && len(campaign.TargetCustomers) == 0 {
		return nil, apperrors.Validation("targetCustomerIds required for targeted campaigns")
	}

	if input.TargetCustomerIDs != nil {
		targets, err := s.resolveTargetCustomers(input.TargetCustomerIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceTargetCustomers(campaign, targets); err != nil {
			return nil, apperrors.Internal(err)
		}
		campaign.TargetCustomers = targets
	}

	if err := s.repo.Update(campaign); err != nil {
		return nil, apperrors.Internal(err)
	}
	return campaign, nil
}

// UpdateCampaignStatus 管理端启停活动
// inactive -> active 的重新激活只在这里发生；如果预算/日期仍不满足，
// 下一次惰性刷新会立刻再下线
func (s *campaignService) UpdateCampaignStatus(id uint, status model.CampaignStatus) (*model.Campaign, error) {
	if status != model.StatusActive && status != model.StatusInactive {
		return nil, apperrors.Validation("status must be 'active' or 'inactive'")
	}

	campaign, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(response.ErrCampaignNotFound, "campaign not found")
		}
		return nil, apperrors.Internal(err)
	}

	campaign.Status = status
	if err := s.repo.UpdateStatus(id, status); err != nil {
		return nil, apperrors.Internal(err)
	}
	return campaign, nil
}

// DeleteCampaign 删除活动
func (s *campaignService) DeleteCampaign(id uint) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound(response.ErrCampaignNotFound, "campaign not found")
		}
		return apperrors.Internal(err)
	}
	if err := s.repo.Delete(id); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// refresh 惰性刷新并持久化状态变更
func (s *campaignService) refresh(campaign *model.Campaign) {
	changed, cause := RefreshStatus(campaign, s.now())
	if !changed {
		return
	}
	metrics.RecordCampaignDeactivated(cause)
	if logger.Log != nil {
		logger.Log.Info("campaign deactivated",
			zap.Uint("campaign_id", campaign.ID),
			zap.String("cause", cause),
		)
	}
	if err := s.repo.UpdateStatus(campaign.ID, campaign.Status); err != nil && logger.Log != nil {
		logger.Log.Error("failed to persist campaign status",
			zap.Uint("campaign_id", campaign.ID),
			zap.Error(err),
		)
	}
}

// resolveTargetCustomers 解析定向客户名单，存在未知ID时返回 Conflict
func (s *campaignService) resolveTargetCustomers(ids []uint) ([]customerModel.Customer, error) {
	if len(ids) == 0 {
		return nil, apperrors.Validation("targetCustomerIds required for targeted campaigns")
	}

	targets, err := s.customers.GetByIDs(ids)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if len(targets) != len(uniqueIDs(ids)) {
		return nil, apperrors.Conflict(response.ErrTargetCustomerNotFound, "target_customer_not_found",
			"one or more target customer ids do not exist")
	}
	return targets, nil
}

// applyUpdate 把部分更新套到活动上
func applyUpdate(c *model.Campaign, input UpdateCampaignInput) {
	if input.Name != nil {
		c.Name = *input.Name
	}
	if input.Description != nil {
		c.Description = *input.Description
	}
	if input.DiscountType != nil {
		c.DiscountType = *input.DiscountType
	}
	if input.DiscountPercentage != nil {
		c.DiscountPercentage = input.DiscountPercentage
		c.DiscountFlat = nil
	}
	if input.DiscountFlat != nil {
		c.DiscountFlat = input.DiscountFlat
		c.DiscountPercentage = nil
	}
	if input.StartDate != nil {
		c.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		c.EndDate = *input.EndDate
	}
	if input.TotalBudget != nil {
		c.TotalBudget = *input.TotalBudget
	}
	if input.MaxUsagePerCustomerPerDay != nil {
		c.MaxUsagePerCustomerPerDay = *input.MaxUsagePerCustomerPerDay
	}
	if input.MinCartValue != nil {
		c.MinCartValue = *input.MinCartValue
	}
	if input.MaxDiscountAmount != nil {
		c.MaxDiscountAmount = input.MaxDiscountAmount
	}
	if input.IsTargeted != nil {
		c.IsTargeted = *input.IsTargeted
	}
	if input.Status != nil {
		c.Status = *input.Status
	}
}

// validateCampaign 校验活动配置
func validateCampaign(c *model.Campaign) error {
	if !c.DiscountType.Valid() {
		return apperrors.Validation("discountType must be 'cart' or 'delivery'")
	}

	hasPct := c.DiscountPercentage != nil
	hasFlat := c.DiscountFlat != nil
	if hasPct == hasFlat {
		return apperrors.Validation("exactly one of discountPercentage or discountFlat must be provided")
	}
	if hasPct {
		pct := *c.DiscountPercentage
		if pct.LessThanOrEqual(decimal.Zero) || pct.GreaterThan(decimal.NewFromInt(100)) {
			return apperrors.Validation("discountPercentage must be in (0, 100]")
		}
	}
	if hasFlat && c.DiscountFlat.LessThanOrEqual(decimal.Zero) {
		return apperrors.Validation("discountFlat must be greater than 0")
	}

	if !c.StartDate.Before(c.EndDate) {
		return apperrors.Validation("endDate must be after startDate")
	}
	if c.TotalBudget.LessThanOrEqual(decimal.Zero) {
		return apperrors.Validation("totalBudget must be greater than 0")
	}
	// 预算不能砍到已消耗额以下，否则 used_budget <= total_budget 在存储里被打破
	if c.TotalBudget.LessThan(c.UsedBudget) {
		return apperrors.Validation("totalBudget cannot be below the budget already used")
	}
	if c.MaxUsagePerCustomerPerDay < 1 {
		return apperrors.Validation("maxUsagePerCustomerPerDay must be at least 1")
	}
	if c.MinCartValue.IsNegative() {
		return apperrors.Validation("minCartValue must not be negative")
	}
	if c.MaxDiscountAmount != nil && c.MaxDiscountAmount.LessThanOrEqual(decimal.Zero) {
		return apperrors.Validation("maxDiscountAmount must be greater than 0")
	}

	// 金额列都是 decimal(12,2)，折扣计算的封顶也依赖配置已对齐到分
	amounts := []decimal.Decimal{c.TotalBudget, c.MinCartValue}
	if c.DiscountFlat != nil {
		amounts = append(amounts, *c.DiscountFlat)
	}
	if c.MaxDiscountAmount != nil {
		amounts = append(amounts, *c.MaxDiscountAmount)
	}
	for _, a := range amounts {
		if !money.IsRounded(a) {
			return apperrors.Validation("amounts must not have more than 2 decimal places")
		}
	}
	if hasPct && !money.IsRounded(*c.DiscountPercentage) {
		return apperrors.Validation("discountPercentage must not have more than 2 decimal places")
	}

	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
