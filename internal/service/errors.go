package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Error taxonomy surfaced by the ledger, settlement and accrual services.
// ErrValidation, ErrNotFound and ErrInsufficientBalance are terminal for a
// request; ErrConcurrencyTimeout is retryable. ErrPriceUnavailable never
// escapes the oracle/audit boundary.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrConcurrencyTimeout  = errors.New("store transaction timed out")
	ErrPriceUnavailable    = errors.New("spot price unavailable")
)

const defaultTxTimeout = 10 * time.Second

// runInTx executes fn inside a single bounded store transaction. Balances
// and audit records commit together or not at all; hitting the time bound
// rolls back fully and surfaces ErrConcurrencyTimeout.
func runInTx(ctx context.Context, db *gorm.DB, timeout time.Duration, fn func(tx *gorm.DB) error) error {
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := db.WithContext(ctx).Transaction(fn)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(ErrConcurrencyTimeout, err.Error())
	}
	return err
}

// asNotFound converts a gorm record miss into the service taxonomy.
func asNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, what)
	}
	return err
}
