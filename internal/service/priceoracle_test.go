package service

import (
	"context"
	"testing"
	"time"

	"github.com/dsparrowm/blockfundz-sub001/pkg/integrations/memcache"
	"github.com/dsparrowm/blockfundz-sub001/pkg/types/prices"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSpot counts calls and can be switched to fail.
type stubSpot struct {
	quotes map[string]float64
	err    error
	calls  int
}

func (s *stubSpot) FetchSpot(_ context.Context) (map[string]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.quotes, nil
}

func liveSpot() *stubSpot {
	return &stubSpot{quotes: map[string]float64{
		prices.AssetBitcoin:  52000,
		prices.AssetEthereum: 3100,
		prices.AssetUsdt:     1.001,
		prices.AssetUsdc:     0.999,
	}}
}

func newTestOracle(t *testing.T, store PriceStore, source prices.SpotSource) *PriceOracle {
	oracle, err := NewPriceOracle(
		WithOracleLogger(discardLogger),
		WithOracleCache(memcache.NewWithTTL[string, float64](memoryQuoteTTL)),
		WithOracleStore(store),
		WithOracleSource(source),
	)
	require.NoError(t, err)
	return oracle
}

func TestPriceOracle_UsdIsAlwaysOne(t *testing.T) {
	_, r := setupServiceDB(t)
	source := liveSpot()
	oracle := newTestOracle(t, r, source)

	value, err := oracle.TryPrice(context.Background(), prices.AssetUsd)
	require.NoError(t, err)
	assert.Equal(t, float64(1), value)
	assert.Zero(t, source.calls)
}

func TestPriceOracle_FetchPopulatesAllTiers(t *testing.T) {
	_, r := setupServiceDB(t)
	source := liveSpot()
	oracle := newTestOracle(t, r, source)

	value, err := oracle.TryPrice(context.Background(), prices.AssetBitcoin)
	require.NoError(t, err)
	assert.Equal(t, float64(52000), value)
	assert.Equal(t, 1, source.calls)

	// every supported asset is now cached, no further upstream calls
	for _, asset := range []string{prices.AssetEthereum, prices.AssetUsdt, prices.AssetUsdc} {
		_, err := oracle.TryPrice(context.Background(), asset)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, source.calls)

	rows, err := r.GetCachedPrices()
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestPriceOracle_ServesFreshStoredRowsWithoutFetching(t *testing.T) {
	_, r := setupServiceDB(t)
	source := liveSpot()
	oracle := newTestOracle(t, r, source)

	require.NoError(t, r.UpsertCachedPrices(map[string]float64{
		prices.AssetEthereum: 2950,
	}, time.Now().UTC()))

	value, err := oracle.TryPrice(context.Background(), prices.AssetEthereum)
	require.NoError(t, err)
	assert.Equal(t, float64(2950), value)
	assert.Zero(t, source.calls, "fresh stored rows must not trigger an upstream fetch")
}

func TestPriceOracle_FailingSourceFallsBackToStaleRow(t *testing.T) {
	_, r := setupServiceDB(t)
	source := &stubSpot{err: errors.New("upstream down")}
	oracle := newTestOracle(t, r, source)

	require.NoError(t, r.UpsertCachedPrices(map[string]float64{
		prices.AssetBitcoin: 48000,
	}, time.Now().UTC().Add(-time.Hour)))

	value, err := oracle.TryPrice(context.Background(), prices.AssetBitcoin)
	require.NoError(t, err, "a stale row is still a usable quote")
	assert.Equal(t, float64(48000), value)
	assert.Equal(t, 1, source.calls)
}

func TestPriceOracle_DefaultTableIsLastResort(t *testing.T) {
	_, r := setupServiceDB(t)
	source := &stubSpot{err: errors.New("upstream down")}
	oracle := newTestOracle(t, r, source)

	// Price never fails
	value := oracle.Price(context.Background(), prices.AssetBitcoin)
	assert.Equal(t, float64(45000), value)

	// TryPrice flags the default tier so audit enrichment can be skipped
	value, err := oracle.TryPrice(context.Background(), prices.AssetEthereum)
	require.ErrorIs(t, err, ErrPriceUnavailable)
	assert.Equal(t, float64(3000), value)
}

func TestPriceOracle_SnapshotCoversAllAssets(t *testing.T) {
	_, r := setupServiceDB(t)
	source := liveSpot()
	oracle := newTestOracle(t, r, source)

	snapshot := oracle.Snapshot(context.Background())
	assert.Equal(t, 1, source.calls, "one fetch must serve the whole snapshot")

	require.Len(t, snapshot, len(prices.Supported()))
	assert.Equal(t, float64(52000), snapshot[prices.AssetBitcoin])
	assert.Equal(t, float64(0.999), snapshot[prices.AssetUsdc])
}
