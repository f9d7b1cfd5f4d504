package handler

import (
	"net/http"
	"strconv"

	"discount_campaign_api/internal/domain/customer/service"
	"discount_campaign_api/pkg/response"
	"discount_campaign_api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CustomerHandler 客户处理器
type CustomerHandler struct {
	service service.CustomerService
}

// NewCustomerHandler 创建处理器
func NewCustomerHandler(service service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// CreateCustomerInput 创建客户输入
type CreateCustomerInput struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=1,max=100"`
}

// CreateCustomer 创建客户
// @Summary 创建客户
// @Tags Customers
// @Accept json
// @Produce json
// @Param body body CreateCustomerInput true "Customer"
// @Success 201 {object} response.Response
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	customer, err := h.service.CreateCustomer(input.Email, input.Name)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, customer)
}

// GetCustomers 获取客户列表
// @Summary 客户列表（分页）
// @Tags Customers
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response
// @Router /customers [get]
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	offset, limit := p.GetPageOffset()
	_ = offset

	customers, total, err := h.service.GetCustomers(p.Page, limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, utils.PageResult{
		List:  customers,
		Total: total,
		Page:  p.Page,
		Limit: limit,
	})
}

// GetCustomer 获取单个客户
// @Summary 客户详情
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} response.Response
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid customer id")
		return
	}

	customer, err := h.service.GetCustomer(uint(id))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, customer)
}
