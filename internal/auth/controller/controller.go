package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	authhandler "github.com/swiftcart/flashsale/internal/auth/handler"
)

type AuthController struct {
	handler authhandler.Authenticator
}

func NewController(handler authhandler.Authenticator) *AuthController {
	return &AuthController{handler: handler}
}

type sendCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type loginRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// SendCode handles POST /api/v1/auth/code
func (c *AuthController) SendCode(ctx *gin.Context) {
	var body sendCodeRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, err := c.handler.SendCode(ctx.Request.Context(), body.Phone)
	if errors.Is(err, authhandler.ErrInvalidPhone) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("send code failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "code sent"})
}

// Login handles POST /api/v1/auth/login
func (c *AuthController) Login(ctx *gin.Context) {
	var body loginRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := c.handler.Login(ctx.Request.Context(), body.Phone, body.Code)
	if errors.Is(err, authhandler.ErrInvalidPhone) || errors.Is(err, authhandler.ErrInvalidCode) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("login failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
