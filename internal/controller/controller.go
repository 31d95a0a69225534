package controller

import (
	"github.com/dsparrowm/blockfundz-sub001/internal/repo"
	"github.com/dsparrowm/blockfundz-sub001/internal/service"
)

type Controller struct {
	repo       *repo.Repository
	ledger     *service.Ledger
	settlement *service.SettlementService
	interest   *service.InterestService
	oracle     service.QuoteSource
}

type Option func(*Controller)

func WithRepository(r *repo.Repository) Option {
	return func(c *Controller) {
		c.repo = r
	}
}

func WithLedger(l *service.Ledger) Option {
	return func(c *Controller) {
		c.ledger = l
	}
}

func WithSettlement(s *service.SettlementService) Option {
	return func(c *Controller) {
		c.settlement = s
	}
}

func WithInterest(s *service.InterestService) Option {
	return func(c *Controller) {
		c.interest = s
	}
}

func WithOracle(o service.QuoteSource) Option {
	return func(c *Controller) {
		c.oracle = o
	}
}

func (c *Controller) IsValid() error {
	switch {
	case c.repo == nil:
		return ErrNilRepository
	case c.ledger == nil:
		return ErrNilLedger
	case c.settlement == nil:
		return ErrNilSettlement
	case c.oracle == nil:
		return ErrNilOracle
	default:
		return nil
	}
}

func New(opts ...Option) (*Controller, error) {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.IsValid(); err != nil {
		return nil, err
	}
	return c, nil
}
