package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dsparrowm/blockfundz-sub001/internal/models"
	"github.com/dsparrowm/blockfundz-sub001/internal/repo"
	tickerScheduler "github.com/dsparrowm/blockfundz-sub001/pkg/integrations/scheduler"
	"github.com/dsparrowm/blockfundz-sub001/pkg/metrics"
	"github.com/dsparrowm/blockfundz-sub001/pkg/types/prices"
	"github.com/dsparrowm/blockfundz-sub001/pkg/types/scheduler"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrInvalidInterestConfig = errors.New("invalid interest service config")

const hoursPerDay = 24

// daysPerYear underlies the daily rate: annual % / 100 / 365.
var annualRateDivisor = decimal.NewFromInt(36500)

// AccrualSummary reports one batch run for observability.
type AccrualSummary struct {
	Processed     int             `json:"processed"`
	TotalCredited decimal.Decimal `json:"total_credited"`
}

// InterestService credits daily investment interest to active
// subscriptions, once per day at a fixed UTC hour. RunOnce is also exposed
// for manual and backfill runs. The scheduler is a single in-process timer;
// redundant deployments need a leader-election guard in front of Start.
type InterestService struct {
	ctx        context.Context
	db         *gorm.DB
	repository *repo.Repository
	logger     *slog.Logger
	audit      *AuditTrail
	sched      scheduler.Scheduler
	runHour    int
	txTimeout  time.Duration
}

type InterestOption func(*InterestService)

func WithInterestContext(ctx context.Context) InterestOption {
	return func(s *InterestService) {
		s.ctx = ctx
	}
}

func WithInterestDB(db *gorm.DB) InterestOption {
	return func(s *InterestService) {
		s.db = db
	}
}

func WithInterestRepository(r *repo.Repository) InterestOption {
	return func(s *InterestService) {
		s.repository = r
	}
}

func WithInterestLogger(l *slog.Logger) InterestOption {
	return func(s *InterestService) {
		s.logger = l
	}
}

func WithInterestAudit(a *AuditTrail) InterestOption {
	return func(s *InterestService) {
		s.audit = a
	}
}

func WithInterestRunHourUTC(hour int) InterestOption {
	return func(s *InterestService) {
		s.runHour = hour
	}
}

func WithInterestTxTimeout(d time.Duration) InterestOption {
	return func(s *InterestService) {
		s.txTimeout = d
	}
}

func (s *InterestService) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidInterestConfig, "ctx cannot be nil")
	case s.db == nil:
		return errors.Wrap(ErrInvalidInterestConfig, "db cannot be nil")
	case s.repository == nil:
		return errors.Wrap(ErrInvalidInterestConfig, "repository cannot be nil")
	case s.logger == nil:
		return errors.Wrap(ErrInvalidInterestConfig, "logger cannot be nil")
	case s.audit == nil:
		return errors.Wrap(ErrInvalidInterestConfig, "audit trail cannot be nil")
	default:
		return nil
	}
}

func NewInterestService(opts ...InterestOption) (*InterestService, error) {
	s := &InterestService{
		txTimeout: defaultTxTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}

	sched, err := tickerScheduler.New(
		tickerScheduler.WithContext(s.ctx),
		tickerScheduler.WithLogger(s.logger),
		tickerScheduler.WithDailyAtUTC(s.runHour),
		tickerScheduler.WithHandler(s.tick),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scheduler")
	}
	s.sched = sched

	return s, nil
}

func (s *InterestService) Start() error {
	return s.sched.Start()
}

func (s *InterestService) Stop() {
	s.sched.Stop()
}

func (s *InterestService) tick() error {
	summary, err := s.RunOnce(s.ctx)
	if err != nil {
		return err
	}
	s.logger.Info("interest accrual run complete",
		"processed", summary.Processed, "total_credited", summary.TotalCredited.String())
	return nil
}

// RunOnce walks all active subscriptions and credits owed interest. One bad
// subscription is logged and skipped, never aborting the batch.
func (s *InterestService) RunOnce(ctx context.Context) (AccrualSummary, error) {
	summary := AccrualSummary{TotalCredited: decimal.Zero}

	subs, err := s.repository.GetActiveSubscriptions()
	if err != nil {
		return summary, errors.Wrap(err, "failed to list active subscriptions")
	}

	metrics.InterestRunsTotal.Inc()

	for i := range subs {
		credited, err := s.accrue(ctx, &subs[i])
		if err != nil {
			s.logger.Error("interest accrual failed for subscription",
				"subscription", subs[i].ID, "user", subs[i].UserID, "error", err)
			continue
		}
		if credited.IsPositive() {
			summary.Processed++
			summary.TotalCredited = summary.TotalCredited.Add(credited)
			metrics.InterestSubscriptionsProcessed.Inc()
			credFloat, _ := credited.Float64()
			metrics.InterestCreditedUSD.Add(credFloat)
		}
	}

	return summary, nil
}

func (s *InterestService) accrue(ctx context.Context, sub *models.Subscription) (decimal.Decimal, error) {
	now := time.Now().UTC()

	days := int64(now.Sub(sub.LastInterestCalculation).Hours()) / hoursPerDay
	if days < 1 {
		return decimal.Zero, nil
	}

	dailyRate := sub.Plan.InterestRate.Div(annualRateDivisor)
	interest := sub.Amount.Mul(dailyRate).Mul(decimal.NewFromInt(days)).Round(8)
	if !interest.IsPositive() {
		return decimal.Zero, nil
	}

	err := runInTx(ctx, s.db, s.txTimeout, func(tx *gorm.DB) error {
		r := s.repository.WithTx(tx)

		user, err := r.GetUserByID(sub.UserID)
		if err != nil {
			return asNotFound(err, fmt.Sprintf("user %d", sub.UserID))
		}

		previous := user.MainBalance
		user.MainBalance = previous.Add(interest)
		if err := r.UpdateUserBalances(user); err != nil {
			return err
		}

		sub.LastInterestCalculation = now
		if err := r.UpdateSubscription(sub); err != nil {
			return err
		}

		planID := sub.PlanID
		_, err = s.audit.Record(ctx, r, Entry{
			Action:          ActionInterest,
			Asset:           prices.AssetUsd,
			Amount:          interest,
			PreviousBalance: previous,
			NewBalance:      previous.Add(interest),
			UserID:          user.ID,
			UserName:        user.Name,
			UserPhone:       user.Phone,
			Details: fmt.Sprintf("daily interest for plan %s: %s days at %s%% annual",
				sub.Plan.Name, decimal.NewFromInt(days), sub.Plan.InterestRate),
			PlanID: &planID,
		})
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return interest, nil
}
