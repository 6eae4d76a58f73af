package server

import (
	"github.com/githubRahuld/TrendyCart/internal/config"
	"github.com/githubRahuld/TrendyCart/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はechoを組み立てて全ルートを登録する。
func New(
	cfg config.Config,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	cartH *handler.CartHandler,
	couponH *handler.CouponHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	//CORSはフロントのoriginだけ許可
	if cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.FEURL},
			AllowCredentials: true,
		}))
	}

	authH.RegisterRoutes(e)
	productH.RegisterRoutes(e, cfg)
	cartH.RegisterRoutes(e, cfg)
	couponH.RegisterRoutes(e, cfg)

	return e
}

// Start はサーバーを起動する。
func Start(e *echo.Echo, cfg config.Config) error {
	addr := ":" + cfg.Port
	if len(cfg.Port) > 0 && cfg.Port[0] == ':' {
		addr = cfg.Port
	}
	return e.Start(addr)
}
