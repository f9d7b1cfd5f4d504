package service

import (
	"errors"
	"testing"

	"discount_campaign_api/internal/domain/customer/model"
	"discount_campaign_api/pkg/apperrors"
	baseModel "discount_campaign_api/pkg/model"
	"discount_campaign_api/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockCustomerRepository is a mock of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(customer *model.Customer) error {
	args := m.Called(customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(id uint) (*model.Customer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByEmail(email string) (*model.Customer, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByIDs(ids []uint) ([]model.Customer, error) {
	args := m.Called(ids)
	return args.Get(0).([]model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetList(offset, limit int) ([]model.Customer, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.Customer), args.Get(1).(int64), args.Error(2)
}

func TestCreateCustomer(t *testing.T) {
	t.Run("Success normalizes email", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo)

		mockRepo.On("GetByEmail", "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.Customer")).Return(nil)

		customer, err := service.CreateCustomer("  Alice@Example.COM ", "Alice")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", customer.Email)
		assert.Equal(t, "Alice", customer.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate email rejected on pre-check", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo)

		existing := &model.Customer{BaseModel: baseModel.BaseModel{ID: 1}, Email: "alice@example.com"}
		mockRepo.On("GetByEmail", "alice@example.com").Return(existing, nil)

		_, err := service.CreateCustomer("alice@example.com", "Alice")
		require.Error(t, err)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindConflict, appErr.Kind)
		assert.Equal(t, response.ErrCustomerExists, appErr.Code)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Unique index violation on concurrent insert maps to conflict", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo)

		mockRepo.On("GetByEmail", "bob@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.Customer")).
			Return(errors.New(`ERROR: duplicate key value violates unique constraint "idx_customers_email" (SQLSTATE 23505)`))

		_, err := service.CreateCustomer("bob@example.com", "Bob")
		require.Error(t, err)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindConflict, appErr.Kind)
	})

	t.Run("Empty name rejected", func(t *testing.T) {
		service := NewCustomerService(new(MockCustomerRepository))

		_, err := service.CreateCustomer("carol@example.com", "   ")
		require.Error(t, err)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	})
}

func TestGetCustomer(t *testing.T) {
	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo)

		mockRepo.On("GetByID", uint(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.GetCustomer(99)
		require.Error(t, err)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindNotFound, appErr.Kind)
		assert.Equal(t, response.ErrCustomerNotFound, appErr.Code)
	})
}

func TestGetCustomers(t *testing.T) {
	t.Run("Defaults page and limit", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo)

		mockRepo.On("GetList", 0, 20).Return([]model.Customer{}, int64(0), nil)

		_, total, err := service.GetCustomers(0, 0)
		require.NoError(t, err)
		assert.Zero(t, total)
		mockRepo.AssertCalled(t, "GetList", 0, 20)
	})
}
