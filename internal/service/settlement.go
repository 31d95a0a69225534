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

var ErrInvalidSettlementConfig = errors.New("invalid settlement service config")

// SettlementService transitions withdrawal requests through their state
// machine: PENDING to APPROVED or REJECTED, both terminal. Approval debits
// the user's balance in the same transaction as the status change.
type SettlementService struct {
	db         *gorm.DB
	repository *repo.Repository
	logger     *slog.Logger
	ledger     *Ledger
	txTimeout  time.Duration
}

type SettlementOption func(*SettlementService)

func WithSettlementDB(db *gorm.DB) SettlementOption {
	return func(s *SettlementService) {
		s.db = db
	}
}

func WithSettlementRepository(r *repo.Repository) SettlementOption {
	return func(s *SettlementService) {
		s.repository = r
	}
}

func WithSettlementLogger(l *slog.Logger) SettlementOption {
	return func(s *SettlementService) {
		s.logger = l
	}
}

func WithSettlementLedger(l *Ledger) SettlementOption {
	return func(s *SettlementService) {
		s.ledger = l
	}
}

func WithSettlementTxTimeout(d time.Duration) SettlementOption {
	return func(s *SettlementService) {
		s.txTimeout = d
	}
}

func (s *SettlementService) IsValid() error {
	switch {
	case s.db == nil:
		return errors.Wrap(ErrInvalidSettlementConfig, "db cannot be nil")
	case s.repository == nil:
		return errors.Wrap(ErrInvalidSettlementConfig, "repository cannot be nil")
	case s.logger == nil:
		return errors.Wrap(ErrInvalidSettlementConfig, "logger cannot be nil")
	case s.ledger == nil:
		return errors.Wrap(ErrInvalidSettlementConfig, "ledger cannot be nil")
	default:
		return nil
	}
}

func NewSettlementService(opts ...SettlementOption) (*SettlementService, error) {
	s := &SettlementService{
		txTimeout: defaultTxTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, s.IsValid()
}

// Submit creates a PENDING withdrawal request on behalf of a user.
func (s *SettlementService) Submit(ctx context.Context, userID uint, asset string, amount decimal.Decimal, address string) (*models.WithdrawalRequest, error) {
	if !amount.IsPositive() {
		return nil, errors.Wrap(ErrValidation, "withdrawal amount must be positive")
	}
	if !prices.IsSupported(asset) {
		return nil, errors.Wrapf(ErrValidation, "unsupported asset %q", asset)
	}
	if address == "" {
		return nil, errors.Wrap(ErrValidation, "destination address is required")
	}
	if _, err := s.repository.GetUserByID(userID); err != nil {
		return nil, asNotFound(err, fmt.Sprintf("user %d", userID))
	}

	req := &models.WithdrawalRequest{
		UserID:  userID,
		Asset:   asset,
		Amount:  amount,
		Address: address,
		Status:  models.WithdrawalPending,
	}
	if err := s.repository.CreateWithdrawalRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Approve settles a pending request: status APPROVED, balance debited and
// the WITHDRAWAL audit record written, all in one transaction. Insufficient
// holdings roll everything back and the request stays PENDING.
func (s *SettlementService) Approve(ctx context.Context, requestID uint) (*models.WithdrawalRequest, error) {
	var req *models.WithdrawalRequest

	// resolve prices before the store transaction opens
	quotes := s.ledger.oracle.Snapshot(ctx)

	err := runInTx(ctx, s.db, s.txTimeout, func(tx *gorm.DB) error {
		r := s.repository.WithTx(tx)

		var err error
		req, err = r.GetWithdrawalRequestByID(requestID)
		if err != nil {
			return asNotFound(err, fmt.Sprintf("withdrawal request %d", requestID))
		}
		if req.Status != models.WithdrawalPending {
			return errors.Wrapf(ErrValidation, "withdrawal request %d is already %s", requestID, req.Status)
		}

		if _, err := s.ledger.debitTx(ctx, r, DebitRequest{
			UserID:  req.UserID,
			Asset:   req.Asset,
			Amount:  req.Amount,
			Details: fmt.Sprintf("withdrawal %d to %s approved", req.ID, req.Address),
		}, quotes); err != nil {
			return err
		}

		req.Status = models.WithdrawalApproved
		return r.UpdateWithdrawalStatus(req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal approved",
		"request", req.ID, "user", req.UserID, "asset", req.Asset, "amount", req.Amount.String())
	return req, nil
}

// Reject closes a pending request with no balance effect.
func (s *SettlementService) Reject(ctx context.Context, requestID uint) (*models.WithdrawalRequest, error) {
	var req *models.WithdrawalRequest

	err := runInTx(ctx, s.db, s.txTimeout, func(tx *gorm.DB) error {
		r := s.repository.WithTx(tx)

		var err error
		req, err = r.GetWithdrawalRequestByID(requestID)
		if err != nil {
			return asNotFound(err, fmt.Sprintf("withdrawal request %d", requestID))
		}
		if req.Status != models.WithdrawalPending {
			return errors.Wrapf(ErrValidation, "withdrawal request %d is already %s", requestID, req.Status)
		}

		req.Status = models.WithdrawalRejected
		return r.UpdateWithdrawalStatus(req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// List returns withdrawal requests, optionally filtered by status.
func (s *SettlementService) List(status string) ([]models.WithdrawalRequest, error) {
	return s.repository.ListWithdrawalsByStatus(status)
}
