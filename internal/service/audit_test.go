package service

import (
	"context"
	"testing"

	"github.com/dsparrowm/blockfundz-sub001/internal/models"
	"github.com/dsparrowm/blockfundz-sub001/pkg/types/prices"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAudit(t *testing.T, oracle QuoteSource) *AuditTrail {
	audit, err := NewAuditTrail(
		WithAuditLogger(discardLogger),
		WithAuditOracle(oracle),
	)
	require.NoError(t, err)
	return audit
}

func TestAuditTrail_RecordEnrichesWithQuotes(t *testing.T) {
	_, r := setupServiceDB(t)
	audit := newTestAudit(t, testQuotes())
	user := createTestUser(t, r, true)

	record, err := audit.Record(context.Background(), r, Entry{
		Action:   ActionCredit,
		Asset:    prices.AssetBitcoin,
		Amount:   decimal.NewFromFloat(0.5),
		UserID:   user.ID,
		UserName: user.Name,
		Details:  "test credit",
	})
	require.NoError(t, err)

	assert.Equal(t, "CREDIT_BITCOIN", record.Type)
	require.NotNil(t, record.ExchangeRate)
	require.NotNil(t, record.UsdEquivalent)
	assert.True(t, record.ExchangeRate.Equal(decimal.NewFromInt(45000)))
	assert.True(t, record.UsdEquivalent.Equal(decimal.NewFromInt(22500)),
		"usd equivalent %s", record.UsdEquivalent)

	stored, err := r.GetTransactionByReference(record.Reference)
	require.NoError(t, err)
	assert.Equal(t, record.ID, stored.ID)
}

func TestAuditTrail_RecordCommitsWhenPricesDegraded(t *testing.T) {
	_, r := setupServiceDB(t)
	quotes := testQuotes()
	quotes.degraded = true
	audit := newTestAudit(t, quotes)
	user := createTestUser(t, r, true)

	record, err := audit.Record(context.Background(), r, Entry{
		Action: ActionCredit,
		Asset:  prices.AssetEthereum,
		Amount: decimal.NewFromInt(3),
		UserID: user.ID,
	})
	require.NoError(t, err, "degraded prices must not block the audit record")

	assert.Nil(t, record.ExchangeRate)
	assert.Nil(t, record.UsdEquivalent)

	stored, err := r.GetTransactionByReference(record.Reference)
	require.NoError(t, err)
	assert.Nil(t, stored.UsdEquivalent)
}

func TestAuditTrail_UsdRecordsSkipEnrichment(t *testing.T) {
	_, r := setupServiceDB(t)
	audit := newTestAudit(t, testQuotes())
	user := createTestUser(t, r, true)

	record, err := audit.Record(context.Background(), r, Entry{
		Action: ActionInterest,
		Asset:  prices.AssetUsd,
		Amount: decimal.NewFromInt(20),
		UserID: user.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TypeDeposit, record.Type)
	assert.Nil(t, record.ExchangeRate)
	assert.Nil(t, record.UsdEquivalent)
}

func TestAuditTrail_ManualUpdateSuppressesNoise(t *testing.T) {
	_, r := setupServiceDB(t)
	audit := newTestAudit(t, testQuotes())
	user := createTestUser(t, r, true)

	// recalculation noise under a cent, no admin attached
	record, err := audit.RecordManualUpdate(context.Background(), r, Entry{
		Asset:           prices.AssetUsd,
		PreviousBalance: decimal.NewFromFloat(100.001),
		NewBalance:      decimal.NewFromFloat(100.005),
		UserID:          user.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, record)

	// the same delta with an admin identity is deliberate and recorded
	record, err = audit.RecordManualUpdate(context.Background(), r, Entry{
		Asset:           prices.AssetUsd,
		PreviousBalance: decimal.NewFromFloat(100.001),
		NewBalance:      decimal.NewFromFloat(100.005),
		UserID:          user.ID,
		AdminID:         "admin-1",
	})
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.Amount.Equal(decimal.NewFromFloat(0.004)))
}

func TestAuditTrail_ManualUpdateClassifiesBySign(t *testing.T) {
	_, r := setupServiceDB(t)
	audit := newTestAudit(t, testQuotes())
	user := createTestUser(t, r, true)

	up, err := audit.RecordManualUpdate(context.Background(), r, Entry{
		Asset:           prices.AssetUsdt,
		PreviousBalance: decimal.NewFromInt(10),
		NewBalance:      decimal.NewFromInt(25),
		UserID:          user.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, up)
	assert.Equal(t, "CREDIT_USDT", up.Type)
	assert.True(t, up.Amount.Equal(decimal.NewFromInt(15)))

	down, err := audit.RecordManualUpdate(context.Background(), r, Entry{
		Asset:           prices.AssetUsdt,
		PreviousBalance: decimal.NewFromInt(25),
		NewBalance:      decimal.NewFromInt(5),
		UserID:          user.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, down)
	assert.Equal(t, models.TypeWithdrawal, down.Type)
	assert.True(t, down.Amount.Equal(decimal.NewFromInt(20)))
	assert.Contains(t, down.Details, "from 25 to 5")
}
