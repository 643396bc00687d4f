package router

import (
	"github.com/swiftcart/flashsale/internal/configs"
	"github.com/swiftcart/flashsale/internal/order/controller"
	orderhandler "github.com/swiftcart/flashsale/internal/order/handler"
	"github.com/swiftcart/flashsale/pkg/httpframework"
)

// Init expects http framework and infra to be initialized before calling this function
func Init(config configs.Configs) {
	ctrl := controller.NewController(orderhandler.InitOrderHandler(config))
	api := httpframework.Instance().Group("/api/v1")
	{
		api.POST("/voucher/:voucherId/order", ctrl.PlaceOrder)
	}
}
