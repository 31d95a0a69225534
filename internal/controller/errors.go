package controller

import (
	"errors"
	"net/http"

	"github.com/dsparrowm/blockfundz-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

var (
	ErrNilRepository = errors.New("repository cannot be nil")
	ErrNilLedger     = errors.New("ledger cannot be nil")
	ErrNilSettlement = errors.New("settlement service cannot be nil")
	ErrNilOracle     = errors.New("oracle cannot be nil")
)

type APIError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// serviceError maps ledger sentinels onto HTTP statuses. Anything unknown
// is a 500 with a generic message so internals never leak to clients.
func serviceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		ctx.JSON(http.StatusBadRequest, APIError{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		ctx.JSON(http.StatusNotFound, APIError{Error: err.Error()})
	case errors.Is(err, service.ErrInsufficientBalance):
		ctx.JSON(http.StatusUnprocessableEntity, APIError{Error: err.Error()})
	case errors.Is(err, service.ErrConcurrencyTimeout):
		ctx.JSON(http.StatusServiceUnavailable, APIError{Error: "operation timed out, please retry"})
	default:
		ctx.JSON(http.StatusInternalServerError, APIError{Error: "internal error"})
	}
}

func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, APIError{Error: message})
}

func badRequestWithDetails(ctx *gin.Context, message string, details string) {
	ctx.JSON(http.StatusBadRequest, APIError{Error: message, Details: details})
}

func internalError(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusInternalServerError, APIError{Error: message})
}
