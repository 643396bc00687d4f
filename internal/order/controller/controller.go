package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	orderhandler "github.com/swiftcart/flashsale/internal/order/handler"
)

type OrderController struct {
	handler orderhandler.Handler
}

func NewController(handler orderhandler.Handler) *OrderController {
	return &OrderController{handler: handler}
}

type placeOrderResponse struct {
	OrderId int64 `json:"orderId,string"`
}

// PlaceOrder handles POST /api/v1/voucher/:voucherId/order. The user identity
// is an explicit header, injected by the session middleware upstream.
func (c *OrderController) PlaceOrder(ctx *gin.Context) {
	voucherId, err := strconv.ParseInt(ctx.Param("voucherId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid voucher id"})
		return
	}
	userId, err := strconv.ParseInt(ctx.GetHeader("X-User-Id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	orderId, err := c.handler.PlaceOrder(ctx.Request.Context(), voucherId, userId)
	if err != nil {
		c.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, placeOrderResponse{OrderId: orderId})
}

func (c *OrderController) writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, orderhandler.ErrNotStarted),
		errors.Is(err, orderhandler.ErrEnded):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, orderhandler.ErrOutOfStock):
		ctx.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.Is(err, orderhandler.ErrAlreadyPurchased):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, orderhandler.ErrDuplicateRequest):
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("order placement failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
