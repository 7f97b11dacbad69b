package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/geotag_api/internal/apperr"
	"github.com/Skotchmaster/geotag_api/internal/logging"
	"github.com/Skotchmaster/geotag_api/internal/models"
	"github.com/Skotchmaster/geotag_api/internal/repo"
	"github.com/Skotchmaster/geotag_api/internal/transport"
	"github.com/Skotchmaster/geotag_api/internal/util"
)

const (
	MsgInvalidAPIKey    = "Invalid / Missing api key"
	MsgMissingProductID = "Missing product_id"
	MsgInvalidProductID = "Invalid product_id"
	MsgPageNotFound     = "Page Not Found"

	userKey      = "user"
	productIDKey = "product_id"
)

type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*models.User, error)
}

type ProductLookup interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
}

// Guards are the checks that run in front of the product handlers. Routes
// chain them API key first.
type Guards struct {
	Users      Authenticator
	Products   ProductLookup
	MaxPerPage int
}

func (g *Guards) RequireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("guard", "api_key")

		args, err := transport.ArgsFrom(c)
		if err != nil {
			return err
		}
		var req transport.APIKeyRequest
		if err := transport.Decode(args, &req); err != nil {
			return err
		}
		if req.Key == nil {
			l.Warn("api_key_rejected", "status", 403, "reason", "missing key")
			return apperr.Auth(MsgInvalidAPIKey)
		}

		user, err := g.Users.Authenticate(ctx, *req.Key)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				l.Warn("api_key_rejected", "status", 403, "reason", "unknown key")
				return apperr.Auth(MsgInvalidAPIKey)
			}
			l.Error("api_key_lookup_failed", "status", 500, "error", err)
			return apperr.Internal(apperr.MsgInternal, err)
		}

		c.Set(userKey, user)
		return next(c)
	}
}

func (g *Guards) RequireProduct(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("guard", "product")

		param := c.Param("product_id")
		if param == "" {
			return apperr.NotFound(MsgMissingProductID)
		}
		id, err := strconv.ParseUint(param, 10, 0)
		if err != nil {
			return apperr.NotFound(MsgPageNotFound)
		}

		if _, err := g.Products.GetProduct(ctx, uint(id)); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				l.Warn("product_rejected", "status", 404, "product_id", id)
				return apperr.NotFound(MsgInvalidProductID)
			}
			l.Error("product_lookup_failed", "status", 500, "error", err)
			return apperr.Internal(apperr.MsgInternal, err)
		}

		c.Set(productIDKey, uint(id))
		return next(c)
	}
}

// LimitPerPage rejects pages larger than MaxPerPage. The rejection keeps the
// legacy 200 status.
func (g *Guards) LimitPerPage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		args, err := transport.ArgsFrom(c)
		if err != nil {
			return err
		}
		var req transport.PageSizeRequest
		if err := transport.Decode(args, &req); err != nil {
			return err
		}

		perPage := util.DefaultPerPage
		if req.PerPage != nil {
			perPage = util.OrDefault(*req.PerPage, util.DefaultPerPage)
		}
		if perPage > g.maxPerPage() {
			return apperr.Validation(http.StatusOK, fmt.Sprintf("You can only show a maximum of %d products per page", g.maxPerPage()))
		}
		return next(c)
	}
}

func (g *Guards) maxPerPage() int {
	if g.MaxPerPage > 0 {
		return g.MaxPerPage
	}
	return util.MaxPerPage
}

func UserFromContext(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(userKey).(*models.User)
	return u, ok
}

func ProductIDFromContext(c echo.Context) (uint, bool) {
	id, ok := c.Get(productIDKey).(uint)
	return id, ok
}
