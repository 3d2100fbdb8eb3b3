package server

import (
	"agrimarket/internal/config"
	"agrimarket/internal/handler"

	"github.com/labstack/echo/v4"
)

func New(cfg config.Config, authH *handler.AuthHandler, cropH *handler.CropHandler, orderH *handler.OrderHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	authH.RegisterRoutes(e, cfg)
	cropH.RegisterRoutes(e, cfg)
	orderH.RegisterRoutes(e, cfg)

	return e
}

func Start(e *echo.Echo, cfg config.Config) error {
	return e.Start(":" + cfg.Port)
}
