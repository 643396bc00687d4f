package router

import (
	"github.com/swiftcart/flashsale/internal/configs"
	"github.com/swiftcart/flashsale/internal/shop/controller"
	shophandler "github.com/swiftcart/flashsale/internal/shop/handler"
	"github.com/swiftcart/flashsale/pkg/httpframework"
)

// Init expects http framework and infra to be initialized before calling this function
func Init(config configs.Configs) {
	ctrl := controller.NewController(shophandler.InitShopHandler(config))
	api := httpframework.Instance().Group("/api/v1")
	{
		api.GET("/shop/:id", ctrl.GetById)
		api.PUT("/shop", ctrl.Update)
	}
}
