package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type withdrawalPayload struct {
	UserID  uint            `json:"user_id" binding:"required"`
	Asset   string          `json:"asset"   binding:"required"`
	Amount  decimal.Decimal `json:"amount"  binding:"required"`
	Address string          `json:"address" binding:"required"`
}

func (c *Controller) SubmitWithdrawal(ctx *gin.Context) {
	var payload withdrawalPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		badRequestWithDetails(ctx, "Invalid input", err.Error())
		return
	}

	req, err := c.settlement.Submit(ctx.Request.Context(),
		payload.UserID, payload.Asset, payload.Amount, payload.Address)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, req)
}

func (c *Controller) ListWithdrawals(ctx *gin.Context) {
	requests, err := c.settlement.List(ctx.Query("status"))
	if err != nil {
		serviceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, requests)
}

func withdrawalIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		badRequest(ctx, "Invalid withdrawal request ID")
		return 0, false
	}
	return uint(id), true
}

func (c *Controller) ApproveWithdrawal(ctx *gin.Context) {
	id, ok := withdrawalIDParam(ctx)
	if !ok {
		return
	}

	req, err := c.settlement.Approve(ctx.Request.Context(), id)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, req)
}

func (c *Controller) RejectWithdrawal(ctx *gin.Context) {
	id, ok := withdrawalIDParam(ctx)
	if !ok {
		return
	}

	req, err := c.settlement.Reject(ctx.Request.Context(), id)
	if err != nil {
		serviceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, req)
}
