package service

import (
	"testing"
	"time"

	"discount_campaign_api/internal/domain/campaign/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestRefreshStatus(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	active := func() *model.Campaign {
		return &model.Campaign{
			StartDate:   now.Add(-24 * time.Hour),
			EndDate:     now.Add(24 * time.Hour),
			TotalBudget: dec("1000"),
			UsedBudget:  dec("100"),
			Status:      model.StatusActive,
		}
	}

	t.Run("Healthy active campaign unchanged", func(t *testing.T) {
		c := active()
		changed, cause := RefreshStatus(c, now)
		assert.False(t, changed)
		assert.Empty(t, cause)
		assert.Equal(t, model.StatusActive, c.Status)
	})

	t.Run("Budget exhausted deactivates", func(t *testing.T) {
		c := active()
		c.UsedBudget = dec("1000")
		changed, cause := RefreshStatus(c, now)
		assert.True(t, changed)
		assert.Equal(t, DeactivationBudgetExhausted, cause)
		assert.Equal(t, model.StatusInactive, c.Status)
	})

	t.Run("Past end date deactivates", func(t *testing.T) {
		c := active()
		c.EndDate = now.Add(-time.Minute)
		changed, cause := RefreshStatus(c, now)
		assert.True(t, changed)
		assert.Equal(t, DeactivationExpired, cause)
		assert.Equal(t, model.StatusInactive, c.Status)
	})

	t.Run("Budget exhaustion reported over expiry when both hold", func(t *testing.T) {
		c := active()
		c.UsedBudget = dec("1000")
		c.EndDate = now.Add(-time.Minute)
		_, cause := RefreshStatus(c, now)
		assert.Equal(t, DeactivationBudgetExhausted, cause)
	})

	t.Run("Inactive campaign never touched", func(t *testing.T) {
		c := active()
		c.Status = model.StatusInactive
		c.EndDate = now.Add(-time.Minute)
		changed, _ := RefreshStatus(c, now)
		assert.False(t, changed)
	})

	t.Run("Idempotent", func(t *testing.T) {
		c := active()
		c.EndDate = now.Add(-time.Minute)
		changed, _ := RefreshStatus(c, now)
		assert.True(t, changed)
		changed, _ = RefreshStatus(c, now)
		assert.False(t, changed)
	})

	t.Run("Exact end date boundary still active", func(t *testing.T) {
		c := active()
		c.EndDate = now
		changed, _ := RefreshStatus(c, now)
		assert.False(t, changed)
	})
}
