package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RunInterest triggers one accrual batch outside the daily schedule,
// for backfills and operational reruns.
func (c *Controller) RunInterest(ctx *gin.Context) {
	if c.interest == nil {
		ctx.JSON(http.StatusServiceUnavailable, APIError{Error: "interest service not available"})
		return
	}

	summary, err := c.interest.RunOnce(ctx.Request.Context())
	if err != nil {
		internalError(ctx, "Failed to run interest accrual")
		return
	}
	ctx.JSON(http.StatusOK, summary)
}
