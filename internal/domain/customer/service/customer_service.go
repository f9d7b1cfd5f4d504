package service

import (
	"errors"
	"strings"

	"discount_campaign_api/internal/domain/customer/model"
	"discount_campaign_api/internal/domain/customer/repository"
	"discount_campaign_api/pkg/apperrors"
	"discount_campaign_api/pkg/response"

	"gorm.io/gorm"
)

// CustomerService 客户服务接口
type CustomerService interface {
	CreateCustomer(email, name string) (*model.Customer, error)
	GetCustomer(id uint) (*model.Customer, error)
	GetCustomers(page, limit int) ([]model.Customer, int64, error)
}

// customerService 实现
type customerService struct {
	repo repository.CustomerRepository
}

// NewCustomerService 创建客户服务
func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

// CreateCustomer 创建客户，邮箱重复返回 Conflict
func (s *customerService) CreateCustomer(email, name string) (*model.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}

	// 先查重，给出明确的冲突信息；唯一索引兜底并发场景
	if _, err := s.repo.GetByEmail(email); err == nil {
		return nil, apperrors.Conflict(response.ErrCustomerExists, "duplicate_email", "customer with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}

	customer := &model.Customer{
		Email: email,
		Name:  name,
	}
	if err := s.repo.Create(customer); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(response.ErrCustomerExists, "duplicate_email", "customer with this email already exists")
		}
		return nil, apperrors.Internal(err)
	}
	return customer, nil
}

// GetCustomer 获取单个客户
func (s *customerService) GetCustomer(id uint) (*model.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(response.ErrCustomerNotFound, "customer not found")
		}
		return nil, apperrors.Internal(err)
	}
	return customer, nil
}

// GetCustomers 获取客户列表（分页）
func (s *customerService) GetCustomers(page, limit int) ([]model.Customer, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit
	customers, total, err := s.repo.GetList(offset, limit)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return customers, total, nil
}

// isUniqueViolation 判断是否为唯一约束冲突 (Postgres 23505)
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key value")
}
