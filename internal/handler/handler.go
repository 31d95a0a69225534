package handler

import (
	"errors"
	"net/http"

	"github.com/dsparrowm/blockfundz-sub001/internal/controller"
	"github.com/dsparrowm/blockfundz-sub001/internal/repo"
	"github.com/dsparrowm/blockfundz-sub001/internal/service"
	"github.com/dsparrowm/blockfundz-sub001/pkg/metrics"

	"github.com/gin-gonic/gin"
)

var (
	ErrNilEngine     = errors.New("engine is required")
	ErrNilRepository = errors.New("repository is required")
	ErrNilLedger     = errors.New("ledger is required")
	ErrNilSettlement = errors.New("settlement service is required")
	ErrNilOracle     = errors.New("oracle is required")
)

type Handler struct {
	engine     *gin.Engine
	repository *repo.Repository
	ledger     *service.Ledger
	settlement *service.SettlementService
	interest   *service.InterestService
	oracle     service.QuoteSource
}

func (h *Handler) IsValid() error {
	switch {
	case h.engine == nil:
		return ErrNilEngine
	case h.repository == nil:
		return ErrNilRepository
	case h.ledger == nil:
		return ErrNilLedger
	case h.settlement == nil:
		return ErrNilSettlement
	case h.oracle == nil:
		return ErrNilOracle
	default:
		return nil
	}
}

type Option func(*Handler)

func WithEngine(engine *gin.Engine) Option {
	return func(h *Handler) {
		h.engine = engine
	}
}

func WithRepository(repository *repo.Repository) Option {
	return func(h *Handler) {
		h.repository = repository
	}
}

func WithLedger(l *service.Ledger) Option {
	return func(h *Handler) {
		h.ledger = l
	}
}

func WithSettlement(s *service.SettlementService) Option {
	return func(h *Handler) {
		h.settlement = s
	}
}

func WithInterest(s *service.InterestService) Option {
	return func(h *Handler) {
		h.interest = s
	}
}

func WithOracle(o service.QuoteSource) Option {
	return func(h *Handler) {
		h.oracle = o
	}
}

func New(opts ...Option) (*Handler, error) {
	h := &Handler{}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.IsValid(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Handler) Setup() error {
	ctrl, err := controller.New(
		controller.WithRepository(h.repository),
		controller.WithLedger(h.ledger),
		controller.WithSettlement(h.settlement),
		controller.WithInterest(h.interest),
		controller.WithOracle(h.oracle),
	)
	if err != nil {
		return err
	}

	h.engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	h.engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := h.engine.Group("/api")

	users := api.Group("/users")
	users.POST("", ctrl.CreateUser)
	users.GET("/:id/balances", ctrl.GetBalances)
	users.GET("/:id/transactions", ctrl.ListTransactions)
	users.POST("/:id/credit", ctrl.CreditBalance)
	users.POST("/:id/debit", ctrl.DebitBalance)
	users.POST("/:id/adjust", ctrl.AdjustBalance)
	users.POST("/:id/reset", ctrl.ResetBalances)

	withdrawals := api.Group("/withdrawals")
	withdrawals.POST("", ctrl.SubmitWithdrawal)
	withdrawals.GET("", ctrl.ListWithdrawals)
	withdrawals.POST("/:id/approve", ctrl.ApproveWithdrawal)
	withdrawals.POST("/:id/reject", ctrl.RejectWithdrawal)

	plans := api.Group("/plans")
	plans.GET("", ctrl.ListPlans)
	plans.POST("", ctrl.CreatePlan)

	subscriptions := api.Group("/subscriptions")
	subscriptions.POST("", ctrl.CreateSubscription)

	interest := api.Group("/interest")
	interest.POST("/run", ctrl.RunInterest)

	assetPrices := api.Group("/prices")
	assetPrices.GET("", ctrl.ListPrices)
	assetPrices.GET("/:asset", ctrl.GetPrice)

	return nil
}
