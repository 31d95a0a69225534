package controller

import (
	"net/http"

	"github.com/dsparrowm/blockfundz-sub001/pkg/types/prices"

	"github.com/gin-gonic/gin"
)

func (c *Controller) ListPrices(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.oracle.Snapshot(ctx.Request.Context()))
}

func (c *Controller) GetPrice(ctx *gin.Context) {
	asset := ctx.Param("asset")
	if !prices.IsSupported(asset) && asset != prices.AssetUsd {
		badRequest(ctx, "Unsupported asset")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"asset": asset,
		"price": c.oracle.Price(ctx.Request.Context(), asset),
	})
}
