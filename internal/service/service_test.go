package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/dsparrowm/blockfundz-sub001/internal/models"
	"github.com/dsparrowm/blockfundz-sub001/internal/repo"
	"github.com/dsparrowm/blockfundz-sub001/pkg/types/prices"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func setupServiceDB(t *testing.T) (*gorm.DB, *repo.Repository) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	r, err := repo.New(db)
	require.NoError(t, err)
	require.NoError(t, r.Migrate())
	return db, r
}

// stubQuotes is a deterministic QuoteSource for ledger and audit tests.
type stubQuotes struct {
	quotes   map[string]float64
	degraded bool
}

func (s *stubQuotes) Price(_ context.Context, asset string) float64 {
	if asset == prices.AssetUsd {
		return 1
	}
	return s.quotes[asset]
}

func (s *stubQuotes) TryPrice(ctx context.Context, asset string) (float64, error) {
	if s.degraded {
		return s.Price(ctx, asset), errors.Wrap(ErrPriceUnavailable, "stub degraded")
	}
	return s.Price(ctx, asset), nil
}

func (s *stubQuotes) Snapshot(_ context.Context) map[string]float64 {
	return s.quotes
}

func testQuotes() *stubQuotes {
	return &stubQuotes{quotes: map[string]float64{
		prices.AssetBitcoin:  45000,
		prices.AssetEthereum: 3000,
		prices.AssetUsdt:     1,
		prices.AssetUsdc:     1,
	}}
}

func newTestLedger(t *testing.T, db *gorm.DB, r *repo.Repository, oracle QuoteSource) *Ledger {
	audit, err := NewAuditTrail(
		WithAuditLogger(discardLogger),
		WithAuditOracle(oracle),
	)
	require.NoError(t, err)

	ledger, err := NewLedger(
		WithLedgerDB(db),
		WithLedgerRepository(r),
		WithLedgerLogger(discardLogger),
		WithLedgerOracle(oracle),
		WithLedgerAudit(audit),
	)
	require.NoError(t, err)
	return ledger
}

func createTestUser(t *testing.T, r *repo.Repository, calculated bool) *models.User {
	user := &models.User{
		Name:                 "Test User",
		Email:                "user@example.com",
		Phone:                "+15550100",
		UseCalculatedBalance: calculated,
		MainBalance:          decimal.Zero,
	}
	require.NoError(t, r.CreateUser(user))
	return user
}
