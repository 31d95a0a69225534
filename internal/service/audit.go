package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dsparrowm/blockfundz-sub001/internal/models"
	"github.com/dsparrowm/blockfundz-sub001/internal/repo"
	"github.com/dsparrowm/blockfundz-sub001/pkg/types/prices"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrInvalidAuditConfig = errors.New("invalid audit trail config")

// Audit actions, mapped onto persisted transaction types.
type Action string

const (
	ActionCredit     Action = "CREDIT"
	ActionDebit      Action = "DEBIT"
	ActionAdjustment Action = "ADJUSTMENT"
	ActionReset      Action = "RESET"
	ActionInterest   Action = "INTEREST"
)

// QuoteSource is the oracle surface the audit trail and ledger consume.
type QuoteSource interface {
	Price(ctx context.Context, asset string) float64
	TryPrice(ctx context.Context, asset string) (float64, error)
	Snapshot(ctx context.Context) map[string]float64
}

// Entry describes one balance mutation to be recorded.
type Entry struct {
	Action          Action
	Asset           string
	Amount          decimal.Decimal
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	UserID          uint
	UserName        string
	UserPhone       string
	Details         string
	PlanID          *uint
	AdminID         string
}

// AuditTrail writes one immutable record per balance mutation. Records are
// enriched with exchange rate and USD equivalent on a best-effort basis:
// balance correctness never depends on price availability, enrichment may.
type AuditTrail struct {
	logger *slog.Logger
	oracle QuoteSource
}

type AuditOption func(*AuditTrail)

func WithAuditLogger(l *slog.Logger) AuditOption {
	return func(a *AuditTrail) {
		a.logger = l
	}
}

func WithAuditOracle(o QuoteSource) AuditOption {
	return func(a *AuditTrail) {
		a.oracle = o
	}
}

func (a *AuditTrail) IsValid() error {
	switch {
	case a.logger == nil:
		return errors.Wrap(ErrInvalidAuditConfig, "logger cannot be nil")
	case a.oracle == nil:
		return errors.Wrap(ErrInvalidAuditConfig, "oracle cannot be nil")
	default:
		return nil
	}
}

func NewAuditTrail(opts ...AuditOption) (*AuditTrail, error) {
	a := &AuditTrail{}

	for _, opt := range opts {
		opt(a)
	}

	return a, a.IsValid()
}

func (e Entry) transactionType() string {
	switch e.Action {
	case ActionCredit:
		return models.TypeCredit(e.Asset)
	case ActionDebit:
		return models.TypeWithdrawal
	case ActionReset:
		return models.TypeAdminReset
	case ActionInterest:
		return models.TypeDeposit
	default:
		return models.TypeAdjustment
	}
}

// Record writes the audit record through the given (usually tx-scoped)
// repository so it commits together with the balance mutation.
func (a *AuditTrail) Record(ctx context.Context, r *repo.Repository, e Entry) (*models.Transaction, error) {
	record := &models.Transaction{
		Reference: uuid.NewString(),
		Type:      e.transactionType(),
		Asset:     e.Asset,
		Amount:    e.Amount,
		Status:    models.StatusCompleted,
		UserID:    e.UserID,
		Name:      e.UserName,
		Phone:     e.UserPhone,
		Details:   e.Details,
		PlanID:    e.PlanID,
		Date:      time.Now().UTC(),
	}

	if e.Asset != prices.AssetUsd {
		rate, err := a.oracle.TryPrice(ctx, e.Asset)
		if err != nil {
			// degraded: record still commits, conversion fields stay empty
			a.logger.Warn("audit record written without price enrichment",
				"asset", e.Asset, "user", e.UserID, "error", err)
		} else {
			exchangeRate := decimal.NewFromFloat(rate)
			usdEquivalent := e.Amount.Mul(exchangeRate).Round(2)
			record.ExchangeRate = &exchangeRate
			record.UsdEquivalent = &usdEquivalent
		}
	}

	if err := r.CreateTransaction(record); err != nil {
		return nil, errors.Wrap(err, "failed to write audit record")
	}
	return record, nil
}

// RecordManualUpdate handles admin balance adjustments and recalculation
// passes. A zero delta is never recorded. Deltas under one cent are treated
// as recalculation noise and skipped unless an admin identity is attached.
func (a *AuditTrail) RecordManualUpdate(ctx context.Context, r *repo.Repository, e Entry) (*models.Transaction, error) {
	delta := e.NewBalance.Sub(e.PreviousBalance)
	if delta.IsZero() {
		return nil, nil
	}
	if e.AdminID == "" && delta.Abs().LessThan(decimal.New(1, -2)) {
		a.logger.Debug("skipping audit for recalculation noise",
			"user", e.UserID, "delta", delta.String())
		return nil, nil
	}

	if delta.IsPositive() {
		e.Action = ActionCredit
	} else {
		e.Action = ActionDebit
	}
	e.Amount = delta.Abs()

	details := fmt.Sprintf("balance adjusted from %s to %s", e.PreviousBalance.String(), e.NewBalance.String())
	if e.AdminID != "" {
		details = fmt.Sprintf("%s by admin %s", details, e.AdminID)
	}
	if e.Details != "" {
		details = fmt.Sprintf("%s: %s", details, e.Details)
	}
	e.Details = details

	return a.Record(ctx, r, e)
}
