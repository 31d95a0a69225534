package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dsparrowm/blockfundz-sub001/internal/models"
	"github.com/dsparrowm/blockfundz-sub001/pkg/metrics"
	"github.com/dsparrowm/blockfundz-sub001/pkg/types/cache"
	"github.com/dsparrowm/blockfundz-sub001/pkg/types/prices"

	"github.com/pkg/errors"
)

var ErrInvalidOracleConfig = errors.New("invalid price oracle config")

const (
	memoryQuoteTTL = 5 * time.Minute
	storedQuoteTTL = 10 * time.Minute
)

// defaultQuotes is the authoritative last-resort fallback table, used only
// when both the external source and the persisted cache are unavailable.
var defaultQuotes = map[string]float64{
	prices.AssetBitcoin:  45000,
	prices.AssetEthereum: 3000,
	prices.AssetUsdt:     1,
	prices.AssetUsdc:     1,
}

// PriceStore is the persisted mirror of the in-process quote cache.
type PriceStore interface {
	UpsertCachedPrices(quotes map[string]float64, at time.Time) error
	GetCachedPrices() ([]models.CachedPrice, error)
}

// PriceOracle resolves USD spot prices through four tiers: in-process cache,
// persisted cache, external source, hardcoded defaults. Price never fails;
// TryPrice reports when the result came from the default table so callers
// like the audit trail can skip enrichment.
type PriceOracle struct {
	logger *slog.Logger
	cache  cache.Cache[string, float64]
	store  PriceStore
	source prices.SpotSource
}

type OracleOption func(*PriceOracle)

func WithOracleLogger(l *slog.Logger) OracleOption {
	return func(o *PriceOracle) {
		o.logger = l
	}
}

func WithOracleCache(c cache.Cache[string, float64]) OracleOption {
	return func(o *PriceOracle) {
		o.cache = c
	}
}

func WithOracleStore(s PriceStore) OracleOption {
	return func(o *PriceOracle) {
		o.store = s
	}
}

func WithOracleSource(s prices.SpotSource) OracleOption {
	return func(o *PriceOracle) {
		o.source = s
	}
}

func (o *PriceOracle) IsValid() error {
	switch {
	case o.logger == nil:
		return errors.Wrap(ErrInvalidOracleConfig, "logger cannot be nil")
	case o.cache == nil:
		return errors.Wrap(ErrInvalidOracleConfig, "cache cannot be nil")
	case o.store == nil:
		return errors.Wrap(ErrInvalidOracleConfig, "store cannot be nil")
	case o.source == nil:
		return errors.Wrap(ErrInvalidOracleConfig, "source cannot be nil")
	default:
		return nil
	}
}

func NewPriceOracle(opts ...OracleOption) (*PriceOracle, error) {
	o := &PriceOracle{}

	for _, opt := range opts {
		opt(o)
	}

	return o, o.IsValid()
}

// Price returns a usable USD quote for the asset, degrading through tiers.
func (o *PriceOracle) Price(ctx context.Context, asset string) float64 {
	value, _ := o.resolve(ctx, asset)
	return value
}

// TryPrice behaves like Price but returns ErrPriceUnavailable when the
// quote came from the hardcoded default table.
func (o *PriceOracle) TryPrice(ctx context.Context, asset string) (float64, error) {
	return o.resolve(ctx, asset)
}

// Snapshot resolves every supported asset at once. A single external fetch
// populates all tiers, so at most one upstream call is made.
func (o *PriceOracle) Snapshot(ctx context.Context) map[string]float64 {
	quotes := make(map[string]float64, len(prices.Supported()))
	for _, asset := range prices.Supported() {
		quotes[asset] = o.Price(ctx, asset)
	}
	return quotes
}

func (o *PriceOracle) resolve(ctx context.Context, asset string) (float64, error) {
	if asset == prices.AssetUsd {
		return 1, nil
	}

	if value, ok := o.cache.Get(asset); ok {
		metrics.PriceTierServed.WithLabelValues("memory").Inc()
		return value, nil
	}

	rows, err := o.store.GetCachedPrices()
	if err != nil {
		o.logger.Warn("persisted price cache read failed", "error", err)
		rows = nil
	}
	now := time.Now().UTC()
	var stale *models.CachedPrice
	for i := range rows {
		row := rows[i]
		if row.Symbol != asset {
			continue
		}
		if now.Sub(row.UpdatedAt) < storedQuoteTTL {
			// refresh the in-process tier from every fresh row
			for _, r := range rows {
				if now.Sub(r.UpdatedAt) < storedQuoteTTL {
					o.cache.Set(r.Symbol, r.Price)
				}
			}
			metrics.PriceTierServed.WithLabelValues("store").Inc()
			return row.Price, nil
		}
		stale = &row
	}

	quotes, err := o.source.FetchSpot(ctx)
	if err == nil {
		if upsertErr := o.store.UpsertCachedPrices(quotes, now); upsertErr != nil {
			o.logger.Warn("persisted price cache upsert failed", "error", upsertErr)
		}
		for symbol, value := range quotes {
			o.cache.Set(symbol, value)
		}
		if value, ok := quotes[asset]; ok {
			metrics.PriceTierServed.WithLabelValues("source").Inc()
			return value, nil
		}
	} else {
		metrics.PriceSourceFailures.Inc()
		o.logger.Warn("external price source failed", "asset", asset, "error", err)
	}

	if stale != nil {
		metrics.PriceTierServed.WithLabelValues("stale").Inc()
		return stale.Price, nil
	}

	metrics.PriceTierServed.WithLabelValues("default").Inc()
	value, ok := defaultQuotes[asset]
	if !ok {
		return 0, errors.Wrapf(ErrPriceUnavailable, "no default quote for %s", asset)
	}
	return value, errors.Wrapf(ErrPriceUnavailable, "served default quote for %s", asset)
}
