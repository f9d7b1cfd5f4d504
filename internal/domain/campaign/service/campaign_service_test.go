package service

import (
	"testing"
	"time"

	"discount_campaign_api/internal/domain/campaign/model"
	"discount_campaign_api/internal/domain/campaign/repository"
	customerModel "discount_campaign_api/internal/domain/customer/model"
	"discount_campaign_api/pkg/apperrors"
	baseModel "discount_campaign_api/pkg/model"
	"discount_campaign_api/pkg/response"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockCampaignRepository is a mock of CampaignRepository
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) Create(campaign *model.Campaign) error {
	args := m.Called(campaign)
	return args.Error(0)
}

func (m *MockCampaignRepository) GetByID(id uint) (*model.Campaign, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) GetList(filter repository.ListFilter, offset, limit int) ([]model.Campaign, int64, error) {
	args := m.Called(filter, offset, limit)
	return args.Get(0).([]model.Campaign), args.Get(1).(int64), args.Error(2)
}

func (m *MockCampaignRepository) GetActiveByType(discountType model.DiscountType) ([]model.Campaign, error) {
	args := m.Called(discountType)
	return args.Get(0).([]model.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) Update(campaign *model.Campaign) error {
	args := m.Called(campaign)
	return args.Error(0)
}

func (m *MockCampaignRepository) UpdateStatus(id uint, status model.CampaignStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockCampaignRepository) ReplaceTargetCustomers(campaign *model.Campaign, customers []customerModel.Customer) error {
	args := m.Called(campaign, customers)
	return args.Error(0)
}

func (m *MockCampaignRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCustomerRepository is a mock of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(customer *customerModel.Customer) error {
	args := m.Called(customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(id uint) (*customerModel.Customer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerModel.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByEmail(email string) (*customerModel.Customer, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerModel.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByIDs(ids []uint) ([]customerModel.Customer, error) {
	args := m.Called(ids)
	return args.Get(0).([]customerModel.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetList(offset, limit int) ([]customerModel.Customer, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]customerModel.Customer), args.Get(1).(int64), args.Error(2)
}

func validInput() CreateCampaignInput {
	return CreateCampaignInput{
		Name:         "Summer Sale",
		DiscountType: model.DiscountTypeCart,
		DiscountFlat: decPtr("50"),
		StartDate:    time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		TotalBudget:  dec("10000"),
	}
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
}

func TestCreateCampaign(t *testing.T) {
	t.Run("Valid campaign created active with zero used budget", func(t *testing.T) {
		mockRepo := new(MockCampaignRepository)
		mockCustomers := new(MockCustomerRepository)
		service := NewCampaignService(mockRepo, mockCustomers)

		mockRepo.On("Create", mock.AnythingOfType("*model.Campaign")).Return(nil)

		campaign, err := service.CreateCampaign(validInput())
		require.NoError(t, err)
		assert.Equal(t, model.StatusActive, campaign.Status)
		assert.True(t, campaign.UsedBudget.IsZero())
		assert.Equal(t, 1, campaign.MaxUsagePerCustomerPerDay, "defaults to one use per customer per day")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Validation matrix", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*CreateCampaignInput)
		}{
			{"Invalid discount type", func(in *CreateCampaignInput) { in.DiscountType = "voucher" }},
			{"Both percentage and flat", func(in *CreateCampaignInput) { in.DiscountPercentage = decPtr("10") }},
			{"Neither percentage nor flat", func(in *CreateCampaignInput) { in.DiscountFlat = nil }},
			{"Percentage over 100", func(in *CreateCampaignInput) {
				in.DiscountFlat = nil
				in.DiscountPercentage = decPtr("100.01")
			}},
			{"Percentage zero", func(in *CreateCampaignInput) {
				in.DiscountFlat = nil
				in.DiscountPercentage = decPtr("0")
			}},
			{"Flat zero", func(in *CreateCampaignInput) { in.DiscountFlat = decPtr("0") }},
			{"End before start", func(in *CreateCampaignInput) { in.EndDate = in.StartDate.Add(-time.Hour) }},
			{"End equals start", func(in *CreateCampaignInput) { in.EndDate = in.StartDate }},
			{"Zero budget", func(in *CreateCampaignInput) { in.TotalBudget = decimal.Zero }},
			{"Negative min cart value", func(in *CreateCampaignInput) { in.MinCartValue = dec("-1") }},
			{"Non-positive max discount", func(in *CreateCampaignInput) { in.MaxDiscountAmount = decPtr("0") }},
			{"Negative max usage", func(in *CreateCampaignInput) { in.MaxUsagePerCustomerPerDay = -1 }},
			{"Targeted without target ids", func(in *CreateCampaignInput) { in.IsTargeted = true }},
			{"Sub-cent flat amount", func(in *CreateCampaignInput) { in.DiscountFlat = decPtr("9.999") }},
			{"Sub-cent budget", func(in *CreateCampaignInput) { in.TotalBudget = dec("100.005") }},
			{"Sub-cent min cart value", func(in *CreateCampaignInput) { in.MinCartValue = dec("0.001") }},
			{"Over-precise percentage", func(in *CreateCampaignInput) {
				in.DiscountFlat = nil
				in.DiscountPercentage = decPtr("12.345")
			}},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				service := NewCampaignService(new(MockCampaignRepository), new(MockCustomerRepository))
				input := validInput()
				tc.mutate(&input)
				_, err := service.CreateCampaign(input)
				assertValidation(t, err)
			})
		}
	})

	t.Run("Targeted campaign resolves customers", func(t *testing.T) {
		mockRepo := new(MockCampaignRepository)
		mockCustomers := new(MockCustomerRepository)
		service := NewCampaignService(mockRepo, mockCustomers)

		targets := []customerModel.Customer{
			{BaseModel: baseModel.BaseModel{ID: 7}},
			{BaseModel: baseModel.BaseModel{ID: 9}},
		}
		mockCustomers.On("GetByIDs", []uint{7, 9}).Return(targets, nil)
		mockRepo.On("Create", mock.AnythingOfType("*model.Campaign")).Return(nil)

		input := validInput()
		input.IsTargeted = true
		input.TargetCustomerIDs = []uint{7, 9}

		campaign, err := service.CreateCampaign(input)
		require.NoError(t, err)
		assert.Len(t, campaign.TargetCustomers, 2)
	})

	t.Run("Unknown target customer rejected", func(t *testing.T) {
		mockRepo := new(MockCampaignRepository)
		mockCustomers := new(MockCustomerRepository)
		service := NewCampaignService(mockRepo, mockCustomers)

		mockCustomers.On("GetByIDs", []uint{7, 8}).Return([]customerModel.Customer{
			{BaseModel: baseModel.BaseModel{ID: 7}},
		}, nil)

		input := validInput()
		input.IsTargeted = true
		input.TargetCustomerIDs = []uint{7, 8}

		_, err := service.CreateCampaign(input)
		require.Error(t, err)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindConflict, appErr.Kind)
		assert.Equal(t, response.ErrTargetCustomerNotFound, appErr.Code)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestGetCampaign(t *testing.T) {
	t.Run("Not found", func(t *testing.T) {
		mockRepo := new(MockCampaignRepository)
		service := NewCampaignService(mockRepo, new(MockCustomerRepository))

		mockRepo.On("GetByID", uint(42)).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.GetCampaign(42)
		require.Error(t, err)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindNotFound, appErr.Kind)
	})

	t.Run("Expired campaign refreshed and persisted on read", func(t *testing.T) {
		mockRepo := new(MockCampaignRepository)
		svc := NewCampaignService(mockRepo, new(MockCustomerRepository)).(*campaignService)
		now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return now }

		expired := &model.Campaign{
			BaseModel:    baseModel.BaseModel{ID: 5},
			Name:         "Old",
			DiscountType: model.DiscountTypeCart,
			DiscountFlat: decPtr("10"),
			StartDate:    now.Add(-48 * time.Hour),
			EndDate:      now.Add(-24 * time.Hour),
			TotalBudget:  dec("1000"),
			Status:       model.StatusActive,
		}
		mockRepo.On("GetByID", uint(5)).Return(expired, nil)
		mockRepo.On("UpdateStatus", uint(5), model.StatusInactive).Return(nil)

		campaign, err := svc.GetCampaign(5)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInactive, campaign.Status)
		mockRepo.AssertCalled(t, "UpdateStatus", uint(5), model.StatusInactive)
	})
}

func TestUpdateCampaign(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	existing := func() *model.Campaign {
		return &model.Campaign{
			BaseModel:                 baseModel.BaseModel{ID: 1},
			Name:                      "Summer Sale",
			DiscountType:              model.DiscountTypeCart,
			DiscountFlat:              decPtr("50"),
			StartDate:                 now.Add(-24 * time.Hour),
			EndDate:                   now.Add(24 * time.Hour),
			TotalBudget:               dec("10000"),
			MaxUsagePerCustomerPerDay: 1,
			Status:                    model.StatusActive,
		}
	}

	t.Run("Switching to percentage clears flat amount", func(t *testing.T) {
		mockRepo := new(MockCampaignRepository)
		service := NewCampaignService(mockRepo, new(MockCustomerRepository))

		mockRepo.On("GetByID", uint(1)).Return(existing(), nil)
		mockRepo.On("Update", mock.AnythingOfType("*model.Campaign")).Return(nil)

		campaign, err := service.UpdateCampaign(1, UpdateCampaignInput{DiscountPercentage: decPtr("15")})
		require.NoError(t, err)
		require.NotNil(t, campaign.DiscountPercentage)
		assert.Nil(t, campaign.DiscountFlat)
	})

	t.Run("Update re-runs validation", func(t *testing.T) {
		mockRepo := new(MockCampaignRepository)
		service := NewCampaignService(mockRepo, new(MockCustomerRepository))

		mockRepo.On("GetByID", uint(1)).Return(existing(), nil)

		_, err := service.UpdateCampaign(1, UpdateCampaignInput{TotalBudget: decPtr("0")})
		assertValidation(t, err)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("Budget cannot drop below used budget", func(t *testing.T) {
		mockRepo := new(MockCampaignRepository)
		service := NewCampaignService(mockRepo, new(MockCustomerRepository))

		spent := existing()
		spent.UsedBudget = dec("800")
		mockRepo.On("GetByID", uint(1)).Return(spent, nil)

		_, err := service.UpdateCampaign(1, UpdateCampaignInput{TotalBudget: decPtr("500")})
		assertValidation(t, err)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("Enabling targeting requires a target set", func(t *testing.T) {
		mockRepo := new(MockCampaignRepository)
		service := NewCampaignService(mockRepo, new(MockCustomerRepository))

		yes := true
		mockRepo.On("GetByID", uint(1)).Return(existing(), nil)

		_, err := service.UpdateCampaign(1, UpdateCampaignInput{IsTargeted: &yes})
		assertValidation(t, err)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("Enabling targeting keeps an existing target set", func(t *testing.T) {
		mockRepo := new(MockCampaignRepository)
		service := NewCampaignService(mockRepo, new(MockCustomerRepository))

		yes := true
		withTargets := existing()
		withTargets.TargetCustomers = []customerModel.Customer{{BaseModel: baseModel.BaseModel{ID: 7}}}
		mockRepo.On("GetByID", uint(1)).Return(withTargets, nil)
		mockRepo.On("Update", mock.AnythingOfType("*model.Campaign")).Return(nil)

		campaign, err := service.UpdateCampaign(1, UpdateCampaignInput{IsTargeted: &yes})
		require.NoError(t, err)
		assert.True(t, campaign.IsTargeted)
	})
}

func TestUpdateCampaignStatus(t *testing.T) {
	t.Run("Reactivation allowed", func(t *testing.T) {
		mockRepo := new(MockCampaignRepository)
		service := NewCampaignService(mockRepo, new(MockCustomerRepository))

		inactive := &model.Campaign{
			BaseModel: baseModel.BaseModel{ID: 3},
			Status:    model.StatusInactive,
		}
		mockRepo.On("GetByID", uint(3)).Return(inactive, nil)
		mockRepo.On("UpdateStatus", uint(3), model.StatusActive).Return(nil)

		campaign, err := service.UpdateCampaignStatus(3, model.StatusActive)
		require.NoError(t, err)
		assert.Equal(t, model.StatusActive, campaign.Status)
	})

	t.Run("Unknown status rejected", func(t *testing.T) {
		service := NewCampaignService(new(MockCampaignRepository), new(MockCustomerRepository))
		_, err := service.UpdateCampaignStatus(3, "paused")
		assertValidation(t, err)
	})
}
