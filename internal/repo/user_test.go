package repo

import (
	"testing"

	"github.com/dsparrowm/blockfundz-sub001/internal/models"
	"github.com/dsparrowm/blockfundz-sub001/pkg/types/prices"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	r := setupTestRepo(t)

	user := &models.User{
		Name:           "Ada",
		Email:          "ada@example.com",
		BitcoinBalance: decimal.NewFromFloat(0.5),
	}
	require.NoError(t, r.CreateUser(user))
	require.NotZero(t, user.ID)

	got, err := r.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.True(t, got.BitcoinBalance.Equal(decimal.NewFromFloat(0.5)))
}

func TestUserRepository_UpdateBalancesWritesZeroes(t *testing.T) {
	r := setupTestRepo(t)

	user := &models.User{
		Email:          "zero@example.com",
		MainBalance:    decimal.NewFromInt(100),
		BitcoinBalance: decimal.NewFromInt(2),
	}
	require.NoError(t, r.CreateUser(user))

	user.MainBalance = decimal.Zero
	user.BitcoinBalance = decimal.Zero
	require.NoError(t, r.UpdateUserBalances(user))

	got, err := r.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.True(t, got.MainBalance.IsZero())
	assert.True(t, got.BitcoinBalance.IsZero())
}

func TestUser_AssetBalanceAccessors(t *testing.T) {
	u := &models.User{}
	require.True(t, u.SetAssetBalance(prices.AssetEthereum, decimal.NewFromInt(3)))

	bal, ok := u.AssetBalance(prices.AssetEthereum)
	require.True(t, ok)
	assert.True(t, bal.Equal(decimal.NewFromInt(3)))

	_, ok = u.AssetBalance("DOGE")
	assert.False(t, ok)
	assert.False(t, u.SetAssetBalance("DOGE", decimal.NewFromInt(1)))

	holdings := u.Holdings()
	assert.Len(t, holdings, 4)
	assert.True(t, holdings[prices.AssetEthereum].Equal(decimal.NewFromInt(3)))
}
