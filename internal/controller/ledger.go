package controller

import (
	"net/http"
	"strconv"

	"github.com/dsparrowm/blockfundz-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const idempotencyHeader = "Idempotency-Key"

type creditPayload struct {
	Asset  string          `json:"asset"  binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason"`
}

type debitPayload struct {
	Asset   string          `json:"asset"  binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Details string          `json:"details"`
}

type adjustPayload struct {
	BalanceType string          `json:"balance_type" binding:"required"`
	NewValue    decimal.Decimal `json:"new_value"`
	Reason      string          `json:"reason"`
	AdminID     string          `json:"admin_id"`
}

func userIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		badRequest(ctx, "Invalid user ID")
		return 0, false
	}
	return uint(id), true
}

func (c *Controller) CreditBalance(ctx *gin.Context) {
	userID, ok := userIDParam(ctx)
	if !ok {
		return
	}

	var payload creditPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		badRequestWithDetails(ctx, "Invalid input", err.Error())
		return
	}

	record, err := c.ledger.Credit(ctx.Request.Context(), service.CreditRequest{
		UserID:         userID,
		Asset:          payload.Asset,
		Amount:         payload.Amount,
		Reason:         payload.Reason,
		IdempotencyKey: ctx.GetHeader(idempotencyHeader),
	})
	if err != nil {
		serviceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, record)
}

func (c *Controller) DebitBalance(ctx *gin.Context) {
	userID, ok := userIDParam(ctx)
	if !ok {
		return
	}

	var payload debitPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		badRequestWithDetails(ctx, "Invalid input", err.Error())
		return
	}

	record, err := c.ledger.Debit(ctx.Request.Context(), service.DebitRequest{
		UserID:         userID,
		Asset:          payload.Asset,
		Amount:         payload.Amount,
		Details:        payload.Details,
		IdempotencyKey: ctx.GetHeader(idempotencyHeader),
	})
	if err != nil {
		serviceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, record)
}

func (c *Controller) AdjustBalance(ctx *gin.Context) {
	userID, ok := userIDParam(ctx)
	if !ok {
		return
	}

	var payload adjustPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		badRequestWithDetails(ctx, "Invalid input", err.Error())
		return
	}

	record, err := c.ledger.AdjustBalance(ctx.Request.Context(), service.AdjustRequest{
		UserID:         userID,
		BalanceType:    payload.BalanceType,
		NewValue:       payload.NewValue,
		Reason:         payload.Reason,
		AdminID:        payload.AdminID,
		IdempotencyKey: ctx.GetHeader(idempotencyHeader),
	})
	if err != nil {
		serviceError(ctx, err)
		return
	}
	if record == nil {
		ctx.JSON(http.StatusOK, gin.H{"message": "no change recorded"})
		return
	}
	ctx.JSON(http.StatusOK, record)
}

func (c *Controller) ResetBalances(ctx *gin.Context) {
	userID, ok := userIDParam(ctx)
	if !ok {
		return
	}

	if err := c.ledger.ResetBalances(ctx.Request.Context(), userID); err != nil {
		serviceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "balances reset"})
}

func (c *Controller) GetBalances(ctx *gin.Context) {
	userID, ok := userIDParam(ctx)
	if !ok {
		return
	}

	user, err := c.ledger.Balances(userID)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

func (c *Controller) ListTransactions(ctx *gin.Context) {
	userID, ok := userIDParam(ctx)
	if !ok {
		return
	}

	history, err := c.ledger.Transactions(userID)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, history)
}
