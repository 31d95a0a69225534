package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dsparrowm/blockfundz-sub001/internal/models"
	"github.com/dsparrowm/blockfundz-sub001/internal/repo"
	"github.com/dsparrowm/blockfundz-sub001/pkg/types/prices"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrInvalidLedgerConfig = errors.New("invalid ledger config")

// Ledger owns all balance mutation. Every operation runs inside one bounded
// store transaction spanning the balance write and the audit record; price
// resolution happens before the transaction opens so a slow price lookup
// cannot eat into the store's time budget.
type Ledger struct {
	db         *gorm.DB
	repository *repo.Repository
	logger     *slog.Logger
	oracle     QuoteSource
	audit      *AuditTrail
	txTimeout  time.Duration
}

type LedgerOption func(*Ledger)

func WithLedgerDB(db *gorm.DB) LedgerOption {
	return func(l *Ledger) {
		l.db = db
	}
}

func WithLedgerRepository(r *repo.Repository) LedgerOption {
	return func(l *Ledger) {
		l.repository = r
	}
}

func WithLedgerLogger(logger *slog.Logger) LedgerOption {
	return func(l *Ledger) {
		l.logger = logger
	}
}

func WithLedgerOracle(o QuoteSource) LedgerOption {
	return func(l *Ledger) {
		l.oracle = o
	}
}

func WithLedgerAudit(a *AuditTrail) LedgerOption {
	return func(l *Ledger) {
		l.audit = a
	}
}

func WithLedgerTxTimeout(d time.Duration) LedgerOption {
	return func(l *Ledger) {
		l.txTimeout = d
	}
}

func (l *Ledger) IsValid() error {
	switch {
	case l.db == nil:
		return errors.Wrap(ErrInvalidLedgerConfig, "db cannot be nil")
	case l.repository == nil:
		return errors.Wrap(ErrInvalidLedgerConfig, "repository cannot be nil")
	case l.logger == nil:
		return errors.Wrap(ErrInvalidLedgerConfig, "logger cannot be nil")
	case l.oracle == nil:
		return errors.Wrap(ErrInvalidLedgerConfig, "oracle cannot be nil")
	case l.audit == nil:
		return errors.Wrap(ErrInvalidLedgerConfig, "audit trail cannot be nil")
	default:
		return nil
	}
}

func NewLedger(opts ...LedgerOption) (*Ledger, error) {
	l := &Ledger{
		txTimeout: defaultTxTimeout,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, l.IsValid()
}

// CalculateMainBalance sums asset holdings at the given quote snapshot,
// rounded to 2 decimal places. Deterministic for a fixed snapshot.
func CalculateMainBalance(holdings map[string]decimal.Decimal, quotes map[string]float64) decimal.Decimal {
	total := decimal.Zero
	for asset, amount := range holdings {
		total = total.Add(amount.Mul(decimal.NewFromFloat(quotes[asset])))
	}
	return total.Round(2)
}

type CreditRequest struct {
	UserID         uint
	Asset          string
	Amount         decimal.Decimal
	Reason         string
	IdempotencyKey string
}

type DebitRequest struct {
	UserID         uint
	Asset          string
	Amount         decimal.Decimal
	Details        string
	IdempotencyKey string
}

type AdjustRequest struct {
	UserID         uint
	BalanceType    string // MAIN or an asset code
	NewValue       decimal.Decimal
	Reason         string
	AdminID        string
	IdempotencyKey string
}

// Credit adds amount to the user's asset balance and recomputes the main
// balance from updated holdings.
func (l *Ledger) Credit(ctx context.Context, req CreditRequest) (*models.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.Wrap(ErrValidation, "credit amount must be positive")
	}
	if !prices.IsSupported(req.Asset) {
		return nil, errors.Wrapf(ErrValidation, "unsupported asset %q", req.Asset)
	}

	quotes := l.oracle.Snapshot(ctx)

	var record *models.Transaction
	err := runInTx(ctx, l.db, l.txTimeout, func(tx *gorm.DB) error {
		r := l.repository.WithTx(tx)

		if replayed, ok, err := l.replay(r, req.IdempotencyKey); err != nil {
			return err
		} else if ok {
			record = replayed
			return nil
		}

		user, err := r.GetUserByID(req.UserID)
		if err != nil {
			return asNotFound(err, fmt.Sprintf("user %d", req.UserID))
		}

		previous, _ := user.AssetBalance(req.Asset)
		user.SetAssetBalance(req.Asset, previous.Add(req.Amount))
		if user.UseCalculatedBalance {
			user.MainBalance = CalculateMainBalance(user.Holdings(), quotes)
		}
		if err := r.UpdateUserBalances(user); err != nil {
			return err
		}

		reason := req.Reason
		if reason == "" {
			reason = "balance credit"
		}
		record, err = l.audit.Record(ctx, r, Entry{
			Action:          ActionCredit,
			Asset:           req.Asset,
			Amount:          req.Amount,
			PreviousBalance: previous,
			NewBalance:      previous.Add(req.Amount),
			UserID:          user.ID,
			UserName:        user.Name,
			UserPhone:       user.Phone,
			Details:         reason,
		})
		if err != nil {
			return err
		}

		return l.remember(r, req.IdempotencyKey, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Debit removes amount from the user's asset balance. Insufficient holdings
// leave state untouched.
func (l *Ledger) Debit(ctx context.Context, req DebitRequest) (*models.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.Wrap(ErrValidation, "debit amount must be positive")
	}
	if !prices.IsSupported(req.Asset) {
		return nil, errors.Wrapf(ErrValidation, "unsupported asset %q", req.Asset)
	}

	quotes := l.oracle.Snapshot(ctx)

	var record *models.Transaction
	err := runInTx(ctx, l.db, l.txTimeout, func(tx *gorm.DB) error {
		r := l.repository.WithTx(tx)

		if replayed, ok, err := l.replay(r, req.IdempotencyKey); err != nil {
			return err
		} else if ok {
			record = replayed
			return nil
		}

		var err error
		record, err = l.debitTx(ctx, r, req, quotes)
		if err != nil {
			return err
		}
		return l.remember(r, req.IdempotencyKey, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// debitTx applies a debit within an already-open transaction. Shared with
// withdrawal settlement so request approval and the debit commit together.
func (l *Ledger) debitTx(ctx context.Context, r *repo.Repository, req DebitRequest, quotes map[string]float64) (*models.Transaction, error) {
	user, err := r.GetUserByID(req.UserID)
	if err != nil {
		return nil, asNotFound(err, fmt.Sprintf("user %d", req.UserID))
	}

	previous, _ := user.AssetBalance(req.Asset)
	if req.Amount.GreaterThan(previous) {
		return nil, errors.Wrapf(ErrInsufficientBalance,
			"%s balance %s is below requested %s", req.Asset, previous.String(), req.Amount.String())
	}

	user.SetAssetBalance(req.Asset, previous.Sub(req.Amount))
	if user.UseCalculatedBalance {
		user.MainBalance = CalculateMainBalance(user.Holdings(), quotes)
	}
	if err := r.UpdateUserBalances(user); err != nil {
		return nil, err
	}

	details := req.Details
	if details == "" {
		details = "balance debit"
	}
	return l.audit.Record(ctx, r, Entry{
		Action:          ActionDebit,
		Asset:           req.Asset,
		Amount:          req.Amount,
		PreviousBalance: previous,
		NewBalance:      previous.Sub(req.Amount),
		UserID:          user.ID,
		UserName:        user.Name,
		UserPhone:       user.Phone,
		Details:         details,
	})
}

// AdjustBalance sets the named balance field to an absolute value. The
// audit record carries the derived delta; a manual main-balance adjustment
// switches the user off calculated mode.
func (l *Ledger) AdjustBalance(ctx context.Context, req AdjustRequest) (*models.Transaction, error) {
	if req.NewValue.IsNegative() {
		return nil, errors.Wrap(ErrValidation, "balance cannot be set negative")
	}
	asset := req.BalanceType
	if req.BalanceType == models.BalanceMain {
		asset = prices.AssetUsd
	} else if !prices.IsSupported(req.BalanceType) {
		return nil, errors.Wrapf(ErrValidation, "unknown balance type %q", req.BalanceType)
	}

	var quotes map[string]float64
	if req.BalanceType != models.BalanceMain {
		quotes = l.oracle.Snapshot(ctx)
	}

	var record *models.Transaction
	err := runInTx(ctx, l.db, l.txTimeout, func(tx *gorm.DB) error {
		r := l.repository.WithTx(tx)

		if replayed, ok, err := l.replay(r, req.IdempotencyKey); err != nil {
			return err
		} else if ok {
			record = replayed
			return nil
		}

		user, err := r.GetUserByID(req.UserID)
		if err != nil {
			return asNotFound(err, fmt.Sprintf("user %d", req.UserID))
		}

		var previous decimal.Decimal
		if req.BalanceType == models.BalanceMain {
			previous = user.MainBalance
			user.MainBalance = req.NewValue
			user.UseCalculatedBalance = false
		} else {
			previous, _ = user.AssetBalance(req.BalanceType)
			user.SetAssetBalance(req.BalanceType, req.NewValue)
			if user.UseCalculatedBalance {
				user.MainBalance = CalculateMainBalance(user.Holdings(), quotes)
			}
		}
		if err := r.UpdateUserBalances(user); err != nil {
			return err
		}

		record, err = l.audit.RecordManualUpdate(ctx, r, Entry{
			Asset:           asset,
			PreviousBalance: previous,
			NewBalance:      req.NewValue,
			UserID:          user.ID,
			UserName:        user.Name,
			UserPhone:       user.Phone,
			Details:         req.Reason,
			AdminID:         req.AdminID,
		})
		if err != nil {
			return err
		}

		return l.remember(r, req.IdempotencyKey, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ResetBalances zeroes every balance field. Prior history is archived as
// SUPERSEDED rather than deleted, and the reset itself is recorded.
func (l *Ledger) ResetBalances(ctx context.Context, userID uint) error {
	return runInTx(ctx, l.db, l.txTimeout, func(tx *gorm.DB) error {
		r := l.repository.WithTx(tx)

		user, err := r.GetUserByID(userID)
		if err != nil {
			return asNotFound(err, fmt.Sprintf("user %d", userID))
		}

		if err := r.SupersedeTransactionsByUser(userID); err != nil {
			return err
		}

		previousMain := user.MainBalance
		details := fmt.Sprintf("balances reset: main=%s bitcoin=%s ethereum=%s usdt=%s usdc=%s",
			user.MainBalance, user.BitcoinBalance, user.EthereumBalance, user.UsdtBalance, user.UsdcBalance)

		user.MainBalance = decimal.Zero
		user.BitcoinBalance = decimal.Zero
		user.EthereumBalance = decimal.Zero
		user.UsdtBalance = decimal.Zero
		user.UsdcBalance = decimal.Zero
		if err := r.UpdateUserBalances(user); err != nil {
			return err
		}

		_, err = l.audit.Record(ctx, r, Entry{
			Action:          ActionReset,
			Asset:           prices.AssetUsd,
			Amount:          previousMain,
			PreviousBalance: previousMain,
			NewBalance:      decimal.Zero,
			UserID:          user.ID,
			UserName:        user.Name,
			UserPhone:       user.Phone,
			Details:         details,
		})
		return err
	})
}

// Transactions returns a user's audit history, newest first.
func (l *Ledger) Transactions(userID uint) ([]models.Transaction, error) {
	return l.repository.GetTransactionsByUser(userID)
}

// Balances returns the user's current balance record.
func (l *Ledger) Balances(userID uint) (*models.User, error) {
	user, err := l.repository.GetUserByID(userID)
	if err != nil {
		return nil, asNotFound(err, fmt.Sprintf("user %d", userID))
	}
	return user, nil
}

func (l *Ledger) replay(r *repo.Repository, key string) (*models.Transaction, bool, error) {
	if key == "" {
		return nil, false, nil
	}
	existing, err := r.GetIdempotencyKey(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	record, err := r.GetTransactionByReference(existing.Reference)
	if err != nil {
		return nil, false, err
	}
	l.logger.Info("replayed idempotent mutation", "key", key, "reference", existing.Reference)
	return record, true, nil
}

func (l *Ledger) remember(r *repo.Repository, key string, record *models.Transaction) error {
	if key == "" || record == nil {
		return nil
	}
	return r.CreateIdempotencyKey(&models.IdempotencyKey{
		Key:       key,
		Reference: record.Reference,
		UserID:    record.UserID,
	})
}
