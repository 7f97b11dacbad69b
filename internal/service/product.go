package service

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/Skotchmaster/geotag_api/internal/logging"
	"github.com/Skotchmaster/geotag_api/internal/models"
	"github.com/Skotchmaster/geotag_api/internal/util"
)

type ProductService struct {
	Store  ProductStore
	Events Publisher
	// Search is nil when no search index is configured.
	Search Indexer
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Store.GetProduct(ctx, id)
}

// ListProducts returns one page. Page 1 may be empty; any other empty page
// is ErrPageNotFound. A filter that matches nothing is ErrNoMatch.
func (s *ProductService) ListProducts(ctx context.Context, filter *models.ProductFilter, page, perPage int) (models.Page[models.Product], error) {
	if !pageInRange(page, perPage) {
		return models.Page[models.Product]{}, ErrPageNotFound
	}

	res, err := s.Store.ListProducts(ctx, filter, page, perPage)
	if err != nil {
		return models.Page[models.Product]{}, fmt.Errorf("list products: %w", err)
	}
	if len(res.Items) == 0 && page != 1 {
		return models.Page[models.Product]{}, ErrPageNotFound
	}
	if filter != nil && res.Total == 0 {
		return models.Page[models.Product]{}, ErrNoMatch
	}
	return res, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, prod *models.Product) error {
	l := logging.FromContext(ctx).With("svc", "product.create")

	if err := s.Store.CreateProduct(ctx, prod); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	s.publish(ctx, "product_created", *prod)
	s.index(ctx, *prod)
	l.Info("product_created", "product_id", prod.ID)
	return nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uint, patch models.ProductPatch) error {
	l := logging.FromContext(ctx).With("svc", "product.update", "product_id", id)

	if err := s.Store.UpdateProduct(ctx, id, patch); err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}

	prod, err := s.Store.GetProduct(ctx, id)
	if err != nil {
		l.Warn("product_reload_failed", "error", err)
		prod = &models.Product{ID: id}
	} else {
		s.index(ctx, *prod)
	}
	s.publish(ctx, "product_updated", *prod)
	l.Info("product_updated")
	return nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "product.delete", "product_id", id)

	if err := s.Store.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	s.publish(ctx, "product_deleted", models.Product{ID: id})
	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			l.Warn("search_unindex_failed", "error", err)
		}
	}
	l.Info("product_deleted")
	return nil
}

// SearchProducts runs a full-text query against the search index and pages
// the hits the same way ListProducts pages rows.
func (s *ProductService) SearchProducts(ctx context.Context, query string, page, perPage int) (models.Page[models.Product], error) {
	if s.Search == nil {
		return models.Page[models.Product]{}, ErrSearchDisabled
	}
	if !pageInRange(page, perPage) {
		return models.Page[models.Product]{}, ErrPageNotFound
	}

	from, size := util.Calculate(page, perPage)
	total, items, err := s.Search.SearchProducts(ctx, query, from, size)
	if err != nil {
		return models.Page[models.Product]{}, fmt.Errorf("search products: %w", err)
	}
	if len(items) == 0 && page != 1 {
		return models.Page[models.Product]{}, ErrPageNotFound
	}
	return models.Page[models.Product]{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: util.TotalPages(total, perPage),
	}, nil
}

// pageInRange rejects pages whose offset would not fit in an int.
func pageInRange(page, perPage int) bool {
	return page >= 1 && perPage >= 1 && page-1 <= math.MaxInt/perPage
}

func (s *ProductService) publish(ctx context.Context, typ string, prod models.Product) {
	if s.Events == nil {
		return
	}
	pctx, cancel := publishContext(ctx)
	defer cancel()

	ev := ProductEvent{Type: typ, ProductID: prod.ID, Description: prod.Description}
	if err := s.Events.PublishEvent(pctx, ProductTopic, strconv.FormatUint(uint64(prod.ID), 10), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", ProductTopic, "type", typ, "error", err)
	}
}

func (s *ProductService) index(ctx context.Context, prod models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", prod.ID, "error", err)
	}
}
