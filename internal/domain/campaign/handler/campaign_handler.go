package handler

import (
	"net/http"
	"strconv"

	"discount_campaign_api/internal/domain/campaign/model"
	"discount_campaign_api/internal/domain/campaign/repository"
	"discount_campaign_api/internal/domain/campaign/service"
	"discount_campaign_api/pkg/response"
	"discount_campaign_api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CampaignHandler 活动处理器
type CampaignHandler struct {
	service service.CampaignService
}

// NewCampaignHandler 创建处理器
func NewCampaignHandler(service service.CampaignService) *CampaignHandler {
	return &CampaignHandler{service: service}
}

// CreateCampaign 创建活动
// @Summary 创建折扣活动
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param body body service.CreateCampaignInput true "Campaign"
// @Success 201 {object} response.Response
// @Router /campaigns [post]
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var input service.CreateCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	campaign, err := h.service.CreateCampaign(input)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, campaign)
}

// ListCampaignsQuery 活动列表查询参数
type ListCampaignsQuery struct {
	utils.Pagination
	DiscountType string `form:"discountType"`
	Status       string `form:"status"`
	IsTargeted   *bool  `form:"isTargeted"`
}

// GetCampaigns 获取活动列表
// @Summary 活动列表（过滤 + 分页）
// @Tags Campaigns
// @Produce json
// @Param discountType query string false "cart | delivery"
// @Param status query string false "active | inactive"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Router /campaigns [get]
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	var q ListCampaignsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	filter := repository.ListFilter{IsTargeted: q.IsTargeted}
	if q.DiscountType != "" {
		dt := model.DiscountType(q.DiscountType)
		if !dt.Valid() {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "discountType must be 'cart' or 'delivery'")
			return
		}
		filter.DiscountType = &dt
	}
	if q.Status != "" {
		st := model.CampaignStatus(q.Status)
		if st != model.StatusActive && st != model.StatusInactive {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "status must be 'active' or 'inactive'")
			return
		}
		filter.Status = &st
	}

	_, limit := q.GetPageOffset()
	campaigns, total, err := h.service.GetCampaigns(filter, q.Page, limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, utils.PageResult{
		List:  campaigns,
		Total: total,
		Page:  q.Page,
		Limit: limit,
	})
}

// GetCampaign 获取单个活动
// @Summary 活动详情
// @Tags Campaigns
// @Produce json
// @Param id path int true "Campaign ID"
// @Success 200 {object} response.Response
// @Router /campaigns/{id} [get]
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, ok := campaignID(c)
	if !ok {
		return
	}

	campaign, err := h.service.GetCampaign(id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, campaign)
}

// UpdateCampaign 更新活动
// @Summary 更新活动（部分更新）
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param id path int true "Campaign ID"
// @Param body body service.UpdateCampaignInput true "Fields to update"
// @Success 200 {object} response.Response
// @Router /campaigns/{id} [put]
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	id, ok := campaignID(c)
	if !ok {
		return
	}

	var input service.UpdateCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	campaign, err := h.service.UpdateCampaign(id, input)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, campaign)
}

// UpdateStatusInput 启停输入
type UpdateStatusInput struct {
	Status model.CampaignStatus `json:"status" binding:"required"`
}

// UpdateCampaignStatus 管理端启停活动
// @Summary 启停活动（含重新激活）
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param id path int true "Campaign ID"
// @Param body body UpdateStatusInput true "Status"
// @Success 200 {object} response.Response
// @Router /campaigns/{id}/status [patch]
func (h *CampaignHandler) UpdateCampaignStatus(c *gin.Context) {
	id, ok := campaignID(c)
	if !ok {
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	campaign, err := h.service.UpdateCampaignStatus(id, input.Status)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, campaign)
}

// DeleteCampaign 删除活动
// @Summary 删除活动
// @Tags Campaigns
// @Produce json
// @Param id path int true "Campaign ID"
// @Success 200 {object} response.Response
// @Router /campaigns/{id} [delete]
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	id, ok := campaignID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteCampaign(id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, true)
}

func campaignID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid campaign id")
		return 0, false
	}
	return uint(id), true
}
