package main

import (
	"strconv"

	"github.com/rs/zerolog/log"

	authhandler "github.com/swiftcart/flashsale/internal/auth/handler"
	authRouter "github.com/swiftcart/flashsale/internal/auth/router"
	"github.com/swiftcart/flashsale/internal/configs"
	"github.com/swiftcart/flashsale/internal/middleware"
	orderRouter "github.com/swiftcart/flashsale/internal/order/router"
	shopRouter "github.com/swiftcart/flashsale/internal/shop/router"
	"github.com/swiftcart/flashsale/pkg/httpframework"
	"github.com/swiftcart/flashsale/pkg/infra"
	"github.com/swiftcart/flashsale/pkg/logger"
	"github.com/swiftcart/flashsale/pkg/metric"
)

type AppConfig struct {
	Configs configs.Configs
}

func (cfg *AppConfig) GetStaticConfig() interface{} {
	return &cfg.Configs
}

var (
	appConfig AppConfig
)

func main() {
	configs.InitConfig(&appConfig)

	logger.Init(appConfig.Configs)

	// MySQL and Redis connections (credentials in env)
	infra.InitConnectors()

	metric.Init(appConfig.Configs)

	// Session middleware needs infra, so the authenticator is built first.
	authenticator := authhandler.InitAuthHandler(appConfig.Configs)
	httpframework.Init(middleware.SessionResolver(authenticator))

	authRouter.Init(appConfig.Configs)
	shopRouter.Init(appConfig.Configs)
	orderRouter.Init(appConfig.Configs)

	port := appConfig.Configs.AppPort
	if port == 0 {
		port = 8080
		log.Warn().Int("port", port).Msg("App port not set, defaulting to 8080")
	}
	httpframework.Instance().Run(":" + strconv.Itoa(port))
}
