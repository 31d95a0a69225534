package controller

import (
	"net/http"
	"time"

	"github.com/dsparrowm/blockfundz-sub001/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type planPayload struct {
	Name         string          `json:"name"          binding:"required"`
	InterestRate decimal.Decimal `json:"interest_rate" binding:"required"`
	MinAmount    decimal.Decimal `json:"min_amount"`
	MaxAmount    decimal.Decimal `json:"max_amount"`
}

func (c *Controller) ListPlans(ctx *gin.Context) {
	plans, err := c.repo.ListPlans()
	if err != nil {
		internalError(ctx, "Failed to fetch plans")
		return
	}
	ctx.JSON(http.StatusOK, plans)
}

func (c *Controller) CreatePlan(ctx *gin.Context) {
	var payload planPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		badRequestWithDetails(ctx, "Invalid input", err.Error())
		return
	}
	if payload.InterestRate.IsNegative() {
		badRequest(ctx, "Interest rate cannot be negative")
		return
	}

	plan := &models.Plan{
		Name:         payload.Name,
		InterestRate: payload.InterestRate,
		MinAmount:    payload.MinAmount,
		MaxAmount:    payload.MaxAmount,
	}
	if err := c.repo.CreatePlan(plan); err != nil {
		internalError(ctx, "Failed to create plan")
		return
	}
	ctx.JSON(http.StatusCreated, plan)
}

type subscriptionPayload struct {
	UserID uint            `json:"user_id" binding:"required"`
	PlanID uint            `json:"plan_id" binding:"required"`
	Amount decimal.Decimal `json:"amount"  binding:"required"`
}

func (c *Controller) CreateSubscription(ctx *gin.Context) {
	var payload subscriptionPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		badRequestWithDetails(ctx, "Invalid input", err.Error())
		return
	}
	if !payload.Amount.IsPositive() {
		badRequest(ctx, "Subscription amount must be positive")
		return
	}

	if _, err := c.repo.GetUserByID(payload.UserID); err != nil {
		ctx.JSON(http.StatusNotFound, APIError{Error: "User not found"})
		return
	}
	plan, err := c.repo.GetPlanByID(payload.PlanID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, APIError{Error: "Plan not found"})
		return
	}
	if payload.Amount.LessThan(plan.MinAmount) ||
		(plan.MaxAmount.IsPositive() && payload.Amount.GreaterThan(plan.MaxAmount)) {
		badRequest(ctx, "Amount is outside the plan's limits")
		return
	}

	sub := &models.Subscription{
		UserID:                  payload.UserID,
		PlanID:                  plan.ID,
		Amount:                  payload.Amount,
		Status:                  models.SubscriptionActive,
		LastInterestCalculation: time.Now().UTC(),
	}
	if err := c.repo.CreateSubscription(sub); err != nil {
		internalError(ctx, "Failed to create subscription")
		return
	}
	ctx.JSON(http.StatusCreated, sub)
}
