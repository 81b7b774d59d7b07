package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	CartHandler *CartHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/cart/:user_id", d.CartHandler.GetCart)
	e.POST("/cart/:user_id/add/:product_id", d.CartHandler.AddToCart)
	e.POST("/cart/:user_id/remove/:product_id", d.CartHandler.RemoveFromCart)
}
