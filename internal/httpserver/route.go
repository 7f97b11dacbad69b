package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/geotag_api/internal/logging"
	"github.com/Skotchmaster/geotag_api/internal/middleware/auth"
)

type Deps struct {
	ProductHandler *ProductHTTP
	AuthHandler    *AuthHTTP
	Guards         *auth.Guards
	// Ready reports whether dependencies (the database) are reachable.
	Ready   func(ctx context.Context) error
	DocsURL string
	// SearchEnabled mounts GET /api/v1/products/search.
	SearchEnabled bool
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Warn("not_ready", "error", err)
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	e.GET("/", func(c echo.Context) error { return c.Redirect(http.StatusFound, d.DocsURL) })

	g := d.Guards
	api := e.Group("/api/v1")

	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)

	api.GET("/products", d.ProductHandler.ListProducts, g.RequireAPIKey, g.LimitPerPage)
	api.POST("/products", d.ProductHandler.CreateProduct, g.RequireAPIKey)
	if d.SearchEnabled {
		api.GET("/products/search", d.ProductHandler.SearchProducts, g.RequireAPIKey, g.LimitPerPage)
	}

	api.GET("/product/:product_id", d.ProductHandler.GetProduct, g.RequireAPIKey, g.RequireProduct)
	api.PUT("/product/:product_id", d.ProductHandler.UpdateProduct, g.RequireAPIKey, g.RequireProduct)
	api.DELETE("/product/:product_id", d.ProductHandler.DeleteProduct, g.RequireAPIKey, g.RequireProduct)
}
