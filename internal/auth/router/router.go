package router

import (
	"github.com/gin-gonic/gin"
	"github.com/swiftcart/flashsale/internal/auth/controller"
	authhandler "github.com/swiftcart/flashsale/internal/auth/handler"
	"github.com/swiftcart/flashsale/internal/configs"
	"github.com/swiftcart/flashsale/pkg/httpframework"
)

// Init expects http framework and infra to be initialized before calling this function
func Init(config configs.Configs) {
	ctrl := controller.NewController(authhandler.InitAuthHandler(config))
	api := httpframework.Instance().Group("/api/v1")
	{
		api.POST("/auth/code", ctrl.SendCode)
		api.POST("/auth/login", ctrl.Login)
		api.GET("/health", Health)
	}
}

func Health(c *gin.Context) {
	c.JSON(200, gin.H{"message": "Application is up!!!"})
}
