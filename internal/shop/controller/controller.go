package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/swiftcart/flashsale/internal/repositories/sql/shop"
	shophandler "github.com/swiftcart/flashsale/internal/shop/handler"
)

type ShopController struct {
	handler shophandler.Handler
}

func NewController(handler shophandler.Handler) *ShopController {
	return &ShopController{handler: handler}
}

// GetById handles GET /api/v1/shop/:id
func (c *ShopController) GetById(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop id"})
		return
	}
	s, err := c.handler.GetById(ctx.Request.Context(), id)
	if errors.Is(err, shophandler.ErrShopNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("shop lookup failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(http.StatusOK, s)
}

// Update handles PUT /api/v1/shop
func (c *ShopController) Update(ctx *gin.Context) {
	var body shop.Table
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Id == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "shop id is required"})
		return
	}
	if err := c.handler.Update(ctx.Request.Context(), &body); err != nil {
		log.Error().Err(err).Msg("shop update failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "updated"})
}
