package controller

import (
	"net/http"

	"github.com/dsparrowm/blockfundz-sub001/internal/models"

	"github.com/gin-gonic/gin"
)

type userPayload struct {
	Name  string `json:"name"  binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

func (c *Controller) CreateUser(ctx *gin.Context) {
	var payload userPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		badRequestWithDetails(ctx, "Invalid input", err.Error())
		return
	}

	user := &models.User{
		Name:                 payload.Name,
		Email:                payload.Email,
		Phone:                payload.Phone,
		UseCalculatedBalance: true,
	}
	if err := c.repo.CreateUser(user); err != nil {
		internalError(ctx, "Failed to create user")
		return
	}
	ctx.JSON(http.StatusCreated, user)
}
