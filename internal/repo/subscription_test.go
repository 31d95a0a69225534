package repo

import (
	"testing"
	"time"

	"github.com/dsparrowm/blockfundz-sub001/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionRepository_NewPlanSupersedesActive(t *testing.T) {
	r := setupTestRepo(t)

	plan := &models.Plan{Name: "Starter", InterestRate: decimal.NewFromFloat(18.25)}
	require.NoError(t, r.db.Create(plan).Error)

	first := &models.Subscription{
		UserID:                  1,
		PlanID:                  plan.ID,
		Amount:                  decimal.NewFromInt(1000),
		LastInterestCalculation: time.Now().UTC(),
	}
	require.NoError(t, r.CreateSubscription(first))
	assert.Equal(t, models.SubscriptionActive, first.Status)

	second := &models.Subscription{
		UserID:                  1,
		PlanID:                  plan.ID,
		Amount:                  decimal.NewFromInt(5000),
		LastInterestCalculation: time.Now().UTC(),
	}
	require.NoError(t, r.CreateSubscription(second))

	active, err := r.GetActiveSubscriptions()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)
	assert.Equal(t, "Starter", active[0].Plan.Name)
}

func TestSubscriptionRepository_UpdateAdvancesLastCalculation(t *testing.T) {
	r := setupTestRepo(t)

	plan := &models.Plan{Name: "Gold", InterestRate: decimal.NewFromFloat(36.5)}
	require.NoError(t, r.db.Create(plan).Error)

	past := time.Now().UTC().Add(-48 * time.Hour).Truncate(time.Second)
	sub := &models.Subscription{
		UserID:                  2,
		PlanID:                  plan.ID,
		Amount:                  decimal.NewFromInt(10000),
		LastInterestCalculation: past,
	}
	require.NoError(t, r.CreateSubscription(sub))

	now := time.Now().UTC().Truncate(time.Second)
	sub.LastInterestCalculation = now
	require.NoError(t, r.UpdateSubscription(sub))

	got, err := r.GetSubscriptionByID(sub.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, now, got.LastInterestCalculation, time.Second)
}
