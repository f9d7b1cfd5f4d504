package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	campaignModel "discount_campaign_api/internal/domain/campaign/model"
	campaignRepository "discount_campaign_api/internal/domain/campaign/repository"
	campaignService "discount_campaign_api/internal/domain/campaign/service"
	customerRepository "discount_campaign_api/internal/domain/customer/repository"
	"discount_campaign_api/internal/domain/discount/model"
	"discount_campaign_api/internal/domain/discount/repository"
	"discount_campaign_api/pkg/apperrors"
	"discount_campaign_api/pkg/logger"
	"discount_campaign_api/pkg/metrics"
	"discount_campaign_api/pkg/money"
	"discount_campaign_api/pkg/response"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Offer 一条可用折扣
type Offer struct {
	CampaignID     uint                       `json:"campaignId"`
	CampaignName   string                     `json:"campaignName"`
	DiscountType   campaignModel.DiscountType `json:"discountType"`
	DiscountAmount decimal.Decimal            `json:"discountAmount"`
	OriginalValue  decimal.Decimal            `json:"originalValue"`
	FinalValue     decimal.Decimal            `json:"finalValue"`
	Message        string                     `json:"message"`
}

// AvailableDiscounts 可用折扣汇总，购物车和运费分开，各自标出最优
type AvailableDiscounts struct {
	CartDiscounts        []Offer `json:"cartDiscounts"`
	DeliveryDiscounts    []Offer `json:"deliveryDiscounts"`
	BestCartDiscount     *Offer  `json:"bestCartDiscount"`
	BestDeliveryDiscount *Offer  `json:"bestDeliveryDiscount"`
}

// UsageDetail 核销历史（带活动、客户信息）
type UsageDetail struct {
	ID             uint                       `json:"id"`
	CampaignID     uint                       `json:"campaignId"`
	CustomerID     uint                       `json:"customerId"`
	DiscountAmount decimal.Decimal            `json:"discountAmount"`
	OriginalAmount decimal.Decimal            `json:"originalAmount"`
	FinalAmount    decimal.Decimal            `json:"finalAmount"`
	UsedAt         time.Time                  `json:"usedAt"`
	CampaignName   string                     `json:"campaignName"`
	DiscountType   campaignModel.DiscountType `json:"discountType"`
	CustomerName   string                     `json:"customerName"`
	CustomerEmail  string                     `json:"customerEmail"`
}

// DiscountService 折扣服务接口
type DiscountService interface {
	ListAvailable(customerID uint, cartValue, deliveryCharge decimal.Decimal) (*AvailableDiscounts, error)
	Apply(campaignID, customerID uint, cartValue, deliveryCharge decimal.Decimal) (*model.DiscountUsage, error)
	GetUsageHistory(customerID uint, campaignID uint) ([]UsageDetail, error)
}

// discountService 实现
type discountService struct {
	usages    repository.UsageRepository
	campaigns campaignRepository.CampaignRepository
	customers customerRepository.CustomerRepository
	now       func() time.Time
}

// NewDiscountService 创建折扣服务
func NewDiscountService(
	usages repository.UsageRepository,
	campaigns campaignRepository.CampaignRepository,
	customers customerRepository.CustomerRepository,
) DiscountService {
	return &discountService{
		usages:    usages,
		campaigns: campaigns,
		customers: customers,
		now:       time.Now,
	}
}

// ListAvailable 列出客户当前可用的全部折扣
// 只读操作：加载两类 active 活动，逐个刷新状态、过资格检查、算折扣，
// 按折扣金额降序排序（金额相同先比总预算，再比活动ID），每类第一条标为最优
func (s *discountService) ListAvailable(customerID uint, cartValue, deliveryCharge decimal.Decimal) (*AvailableDiscounts, error) {
	if err := validateAmounts(cartValue, deliveryCharge); err != nil {
		return nil, err
	}
	if err := s.ensureCustomer(customerID); err != nil {
		return nil, err
	}

	cartOffers, err := s.collectOffers(campaignModel.DiscountTypeCart, customerID, cartValue, deliveryCharge, cartValue)
	if err != nil {
		return nil, err
	}
	deliveryOffers, err := s.collectOffers(campaignModel.DiscountTypeDelivery, customerID, cartValue, deliveryCharge, deliveryCharge)
	if err != nil {
		return nil, err
	}

	result := &AvailableDiscounts{
		CartDiscounts:     cartOffers,
		DeliveryDiscounts: deliveryOffers,
	}
	if len(cartOffers) > 0 {
		result.BestCartDiscount = &cartOffers[0]
	}
	if len(deliveryOffers) > 0 {
		result.BestDeliveryDiscount = &deliveryOffers[0]
	}
	return result, nil
}

// Apply 核销折扣
// 不信任之前 ListAvailable 的结果：活动状态和预算可能已经变了，
// 在活动行锁之下重新走一遍完整的资格检查，预算扣减和流水写入原子提交
func (s *discountService) Apply(campaignID, customerID uint, cartValue, deliveryCharge decimal.Decimal) (*model.DiscountUsage, error) {
	if err := validateAmounts(cartValue, deliveryCharge); err != nil {
		return nil, err
	}
	if err := s.ensureCustomer(customerID); err != nil {
		return nil, err
	}

	var appliedType campaignModel.DiscountType
	usage, err := s.usages.Apply(campaignID, func(c *campaignModel.Campaign, countUsage repository.UsageCounter) (*model.DiscountUsage, bool, error) {
		appliedType = c.DiscountType
		now := s.now()
		// 行锁之下刷新状态；变更由仓储层连同预算一起在事务内落库
		changed, cause := campaignService.RefreshStatus(c, now)
		if changed {
			s.noteDeactivation(c, cause)
		}

		if err := Evaluate(c, customerID, cartValue, deliveryCharge, now, countUsage); err != nil {
			return nil, changed, err
		}

		base := cartValue
		if c.DiscountType == campaignModel.DiscountTypeDelivery {
			base = deliveryCharge
		}
		amount := CalculateDiscount(c, base)
		if !amount.IsPositive() {
			return nil, changed, apperrors.NotEligible(ReasonNoDiscount, "no discount available for this transaction")
		}

		c.UsedBudget = c.UsedBudget.Add(amount)
		return &model.DiscountUsage{
			CampaignID:     c.ID,
			CustomerID:     customerID,
			DiscountAmount: amount,
			OriginalAmount: base,
			FinalAmount:    base.Sub(amount),
			UsedAt:         now,
		}, true, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(response.ErrCampaignNotFound, "campaign not found")
		}
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, apperrors.Internal(err)
	}

	metrics.RecordDiscountApplied(string(appliedType), usage.DiscountAmount.InexactFloat64())
	if logger.Log != nil {
		logger.Log.Info("discount applied",
			zap.Uint("campaign_id", usage.CampaignID),
			zap.Uint("customer_id", usage.CustomerID),
			zap.String("amount", usage.DiscountAmount.String()),
		)
	}
	return usage, nil
}

// GetUsageHistory 客户核销历史，campaignID 为 0 时返回全部
func (s *discountService) GetUsageHistory(customerID uint, campaignID uint) ([]UsageDetail, error) {
	if err := s.ensureCustomer(customerID); err != nil {
		return nil, err
	}

	usages, err := s.usages.ListByCustomer(customerID, campaignID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	details := make([]UsageDetail, 0, len(usages))
	for _, u := range usages {
		details = append(details, UsageDetail{
			ID:             u.ID,
			CampaignID:     u.CampaignID,
			CustomerID:     u.CustomerID,
			DiscountAmount: u.DiscountAmount,
			OriginalAmount: u.OriginalAmount,
			FinalAmount:    u.FinalAmount,
			UsedAt:         u.UsedAt,
			CampaignName:   u.Campaign.Name,
			DiscountType:   u.Campaign.DiscountType,
			CustomerName:   u.Customer.Name,
			CustomerEmail:  u.Customer.Email,
		})
	}
	return details, nil
}

// collectOffers 收集某类活动的可用折扣并排序
func (s *discountService) collectOffers(
	discountType campaignModel.DiscountType,
	customerID uint,
	cartValue, deliveryCharge, base decimal.Decimal,
) ([]Offer, error) {
	campaigns, err := s.campaigns.GetActiveByType(discountType)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := s.now()
	offers := make([]Offer, 0, len(campaigns))
	budgets := make(map[uint]decimal.Decimal, len(campaigns))

	for i := range campaigns {
		c := &campaigns[i]
		s.refresh(c, now)

		if err := Evaluate(c, customerID, cartValue, deliveryCharge, now, s.usages.CountToday); err != nil {
			if apperrors.IsNotEligible(err) {
				continue
			}
			return nil, err
		}

		amount := CalculateDiscount(c, base)
		if !amount.IsPositive() {
			continue
		}

		budgets[c.ID] = c.TotalBudget
		offers = append(offers, Offer{
			CampaignID:     c.ID,
			CampaignName:   c.Name,
			DiscountType:   discountType,
			DiscountAmount: amount,
			OriginalValue:  base,
			FinalValue:     base.Sub(amount),
			Message:        offerMessage(discountType, amount),
		})
	}

	// 金额降序；金额相同先比总预算（大者优先），再比活动ID（小者优先）
	// 排序完全确定，两次相同请求返回相同顺序
	sort.Slice(offers, func(i, j int) bool {
		if !offers[i].DiscountAmount.Equal(offers[j].DiscountAmount) {
			return offers[i].DiscountAmount.GreaterThan(offers[j].DiscountAmount)
		}
		bi, bj := budgets[offers[i].CampaignID], budgets[offers[j].CampaignID]
		if !bi.Equal(bj) {
			return bi.GreaterThan(bj)
		}
		return offers[i].CampaignID < offers[j].CampaignID
	})

	return offers, nil
}

// refresh 惰性刷新并持久化状态变更，返回活动是否被修改
func (s *discountService) refresh(c *campaignModel.Campaign, now time.Time) bool {
	changed, cause := campaignService.RefreshStatus(c, now)
	if !changed {
		return false
	}
	s.noteDeactivation(c, cause)
	if err := s.campaigns.UpdateStatus(c.ID, c.Status); err != nil && logger.Log != nil {
		logger.Log.Error("failed to persist campaign status",
			zap.Uint("campaign_id", c.ID),
			zap.Error(err),
		)
	}
	return true
}

// noteDeactivation 记录下线指标和日志，不落库
func (s *discountService) noteDeactivation(c *campaignModel.Campaign, cause string) {
	metrics.RecordCampaignDeactivated(cause)
	if logger.Log != nil {
		logger.Log.Info("campaign deactivated",
			zap.Uint("campaign_id", c.ID),
			zap.String("cause", cause),
		)
	}
}

// validateAmounts 校验交易金额
// 次分位精度的金额直接拒绝：留到折扣计算里会让舍入结果顶破被折扣的金额本身
func validateAmounts(cartValue, deliveryCharge decimal.Decimal) error {
	if !cartValue.IsPositive() {
		return apperrors.Validation("cartValue must be greater than 0")
	}
	if deliveryCharge.IsNegative() {
		return apperrors.Validation("deliveryCharge must not be negative")
	}
	if !money.IsRounded(cartValue) || !money.IsRounded(deliveryCharge) {
		return apperrors.Validation("amounts must not have more than 2 decimal places")
	}
	return nil
}

// ensureCustomer 确认客户存在
func (s *discountService) ensureCustomer(customerID uint) error {
	if _, err := s.customers.GetByID(customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound(response.ErrCustomerNotFound, "customer not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func offerMessage(discountType campaignModel.DiscountType, amount decimal.Decimal) string {
	if discountType == campaignModel.DiscountTypeDelivery {
		return fmt.Sprintf("Save %s on delivery!", amount.StringFixed(2))
	}
	return fmt.Sprintf("Save %s on your cart!", amount.StringFixed(2))
}
