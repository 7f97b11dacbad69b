package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/geotag_api/internal/apperr"
	"github.com/Skotchmaster/geotag_api/internal/logging"
	"github.com/Skotchmaster/geotag_api/internal/middleware/auth"
	"github.com/Skotchmaster/geotag_api/internal/models"
	"github.com/Skotchmaster/geotag_api/internal/repo"
	"github.com/Skotchmaster/geotag_api/internal/service"
	"github.com/Skotchmaster/geotag_api/internal/transport"
	"github.com/Skotchmaster/geotag_api/internal/util"
	"github.com/Skotchmaster/geotag_api/internal/validate"
)

const (
	MsgProductAdded    = "Product has been successfully added"
	MsgProductUpdated  = "This product has been successfully updated"
	MsgProductDeleted  = "This product has been successfully deleted"
	MsgProductNotExist = "This product does not exist"
	MsgPageNotExist    = "This page does not exist"
	MsgNoFilterMatch   = "Product with given date_time and description was not found"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_products")

	args, err := transport.ArgsFrom(c)
	if err != nil {
		return err
	}
	var req transport.ListProductsRequest
	if err := transport.Decode(args, &req); err != nil {
		l.Warn("list_products_error", "status", 400, "reason", "invalid arguments", "error", err)
		return err
	}

	page, perPage := pageArgs(req.Page, req.PerPage)

	var filter *models.ProductFilter
	if req.DateTime != nil && *req.DateTime != "" && req.Description != nil && *req.Description != "" {
		dt, err := validate.Datetime(*req.DateTime)
		if err != nil {
			l.Warn("list_products_error", "status", 200, "reason", "invalid date_time")
			return err
		}
		filter = &models.ProductFilter{DateTime: dt, Description: *req.Description}
	}

	res, err := h.Svc.ListProducts(ctx, filter, page, perPage)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoMatch):
			l.Warn("list_products_error", "status", 404, "reason", "filter matched nothing")
			return apperr.NotFound(MsgNoFilterMatch)
		case errors.Is(err, service.ErrPageNotFound):
			l.Warn("list_products_error", "status", 404, "reason", "page out of range", "page", page, "per_page", perPage)
		default:
			l.Error("list_products_error", "status", 404, "reason", "cannot list products", "error", err)
		}
		return apperr.NotFound(MsgPageNotExist)
	}

	l.Info("list_products_success", "page", page, "count", len(res.Items))
	return c.JSON(http.StatusOK, transport.NewProductListResponse(res))
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search_products")

	args, err := transport.ArgsFrom(c)
	if err != nil {
		return err
	}
	var req transport.SearchProductsRequest
	if err := transport.Decode(args, &req); err != nil {
		l.Warn("search_products_error", "status", 400, "reason", "invalid arguments", "error", err)
		return err
	}

	page, perPage := pageArgs(req.Page, req.PerPage)

	res, err := h.Svc.SearchProducts(ctx, *req.Q, page, perPage)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPageNotFound):
			l.Warn("search_products_error", "status", 404, "reason", "page out of range")
			return apperr.NotFound(MsgPageNotExist)
		case errors.Is(err, service.ErrSearchDisabled):
			l.Warn("search_products_error", "status", 404, "reason", "search disabled")
			return apperr.NotFound(auth.MsgPageNotFound)
		}
		l.Error("search_products_error", "status", 500, "reason", "search failed", "error", err)
		return apperr.Internal(apperr.MsgInternal, err)
	}

	l.Info("search_products_success", "count", len(res.Items))
	return c.JSON(http.StatusOK, transport.NewProductListResponse(res))
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	args, err := transport.ArgsFrom(c)
	if err != nil {
		return err
	}
	var req transport.CreateProductRequest
	if err := transport.Decode(args, &req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid arguments", "error", err)
		return err
	}

	dt, err := validate.Datetime(*req.DateTime)
	if err != nil {
		l.Warn("create_product_error", "status", 200, "reason", "invalid date_time")
		return err
	}

	prod := models.Product{
		DateTime:    dt,
		Description: *req.Description,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		Elevation:   *req.Elevation,
	}
	if err := h.Svc.CreateProduct(ctx, &prod); err != nil {
		l.Error("create_product_error", "status", 500, "reason", "cannot add product to db", "error", err)
		return apperr.Internal(apperr.MsgInternal, err)
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: MsgProductAdded})
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := productID(c)
	if err != nil {
		return err
	}

	prod, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		logNotExist(l, "get_product_error", err)
		return apperr.NotFound(MsgProductNotExist)
	}

	return c.JSON(http.StatusOK, transport.NewProductResponse(*prod))
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := productID(c)
	if err != nil {
		return err
	}

	args, err := transport.ArgsFrom(c)
	if err != nil {
		return err
	}
	var req transport.UpdateProductRequest
	if err := transport.Decode(args, &req); err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "invalid arguments", "error", err)
		return err
	}

	dt, err := validate.Datetime(*req.DateTime)
	if err != nil {
		l.Warn("update_product_error", "status", 200, "reason", "invalid date_time")
		return err
	}

	patch := models.ProductPatch{
		DateTime:    &dt,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Elevation:   req.Elevation,
	}
	if err := h.Svc.UpdateProduct(ctx, id, patch); err != nil {
		logNotExist(l, "update_product_error", err)
		return apperr.NotFound(MsgProductNotExist)
	}

	l.Info("update_product_success", "product_id", id)
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: MsgProductUpdated})
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := productID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		logNotExist(l, "delete_product_error", err)
		return apperr.NotFound(MsgProductNotExist)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: MsgProductDeleted})
}

// productID prefers the id resolved by the product guard.
func productID(c echo.Context) (uint, error) {
	if id, ok := auth.ProductIDFromContext(c); ok {
		return id, nil
	}
	id, err := strconv.ParseUint(c.Param("product_id"), 10, 0)
	if err != nil {
		return 0, apperr.NotFound(auth.MsgPageNotFound)
	}
	return uint(id), nil
}

// pageArgs applies the defaults; zero counts as absent.
func pageArgs(page, perPage *int) (int, int) {
	p, pp := util.DefaultPage, util.DefaultPerPage
	if page != nil {
		p = util.OrDefault(*page, util.DefaultPage)
	}
	if perPage != nil {
		pp = util.OrDefault(*perPage, util.DefaultPerPage)
	}
	return p, pp
}

func logNotExist(l *slog.Logger, event string, err error) {
	if errors.Is(err, repo.ErrNotFound) {
		l.Warn(event, "status", 404, "reason", "product does not exist", "error", err)
		return
	}
	l.Error(event, "status", 404, "reason", "datastore fault", "error", err)
}
