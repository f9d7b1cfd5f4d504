package repository

import (
	"discount_campaign_api/internal/domain/customer/model"

	"gorm.io/gorm"
)

// CustomerRepository 接口定义
type CustomerRepository interface {
	Create(customer *model.Customer) error
	GetByID(id uint) (*model.Customer, error)
	GetByEmail(email string) (*model.Customer, error)
	GetByIDs(ids []uint) ([]model.Customer, error)
	GetList(offset, limit int) ([]model.Customer, int64, error)
}

// customerRepository 实现
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建新的仓库实例
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Create 创建客户
func (r *customerRepository) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

// GetByID 根据ID获取客户
func (r *customerRepository) GetByID(id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByEmail 根据邮箱获取客户
func (r *customerRepository) GetByEmail(email string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.Where("email = ?", email).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByIDs 批量获取客户（定向活动校验用）
func (r *customerRepository) GetByIDs(ids []uint) ([]model.Customer, error) {
	var customers []model.Customer
	if err := r.db.Where("id IN ?", ids).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// GetList 获取客户列表（分页）
func (r *customerRepository) GetList(offset, limit int) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	if err := r.db.Model(&model.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.Order("id").Offset(offset).Limit(limit).Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}
