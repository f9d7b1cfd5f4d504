package handler

import (
	"strconv"

	"discount_campaign_api/internal/domain/discount/service"
	"discount_campaign_api/pkg/apperrors"
	"discount_campaign_api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DiscountHandler 折扣接口处理器
type DiscountHandler struct {
	discountService service.DiscountService
}

// NewDiscountHandler 创建折扣处理器
func NewDiscountHandler(discountService service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// AvailableRequest 查询可用折扣请求
type AvailableRequest struct {
	CustomerID     uint            `json:"customerId" binding:"required"`
	CartValue      decimal.Decimal `json:"cartValue" binding:"required"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
}

// ApplyRequest 核销折扣请求
type ApplyRequest struct {
	CampaignID     uint            `json:"campaignId" binding:"required"`
	CustomerID     uint            `json:"customerId" binding:"required"`
	CartValue      decimal.Decimal `json:"cartValue" binding:"required"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
}

// ListAvailable 查询客户可用折扣
// @Summary 查询可用折扣
// @Description 返回客户本次交易可用的全部折扣，购物车和运费分开列出并标出最优
// @Tags discounts
// @Accept json
// @Produce json
// @Param request body AvailableRequest true "交易上下文"
// @Success 200 {object} response.Response{data=service.AvailableDiscounts}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /discounts/available [post]
func (h *DiscountHandler) ListAvailable(c *gin.Context) {
	var req AvailableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperrors.Validation(err.Error()))
		return
	}

	result, err := h.discountService.ListAvailable(req.CustomerID, req.CartValue, req.DeliveryCharge)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, result)
}

// Apply 核销折扣
// @Summary 核销折扣
// @Description 在活动行锁之下重新校验资格，扣减预算并写入核销流水，原子提交
// @Tags discounts
// @Accept json
// @Produce json
// @Param request body ApplyRequest true "核销请求"
// @Success 201 {object} response.Response{data=model.DiscountUsage}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /discounts/apply [post]
func (h *DiscountHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperrors.Validation(err.Error()))
		return
	}

	usage, err := h.discountService.Apply(req.CampaignID, req.CustomerID, req.CartValue, req.DeliveryCharge)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, usage)
}

// GetUsageHistory 查询客户核销历史
// @Summary 核销历史
// @Description 返回客户的核销流水，可按活动过滤，按核销时间倒序
// @Tags discounts
// @Produce json
// @Param customer_id path int true "客户ID"
// @Param campaignId query int false "活动ID"
// @Success 200 {object} response.Response{data=[]service.UsageDetail}
// @Failure 404 {object} response.Response
// @Router /discounts/usage/{customer_id} [get]
func (h *DiscountHandler) GetUsageHistory(c *gin.Context) {
	customerID, err := strconv.ParseUint(c.Param("customer_id"), 10, 64)
	if err != nil || customerID == 0 {
		response.HandleError(c, apperrors.Validation("invalid customer id"))
		return
	}

	var campaignID uint64
	if raw := c.Query("campaignId"); raw != "" {
		campaignID, err = strconv.ParseUint(raw, 10, 64)
		if err != nil || campaignID == 0 {
			response.HandleError(c, apperrors.Validation("invalid campaign id"))
			return
		}
	}

	details, err := h.discountService.GetUsageHistory(uint(customerID), uint(campaignID))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, details)
}
