package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/geotag_api/internal/models"
)

const (
	ProductTopic = "product_events"
	UserTopic    = "user_events"

	publishTimeout = 5 * time.Second
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPageNotFound       = errors.New("page does not exist")
	ErrNoMatch            = errors.New("no product matches the filter")
	ErrSearchDisabled     = errors.New("search index is not configured")
)

type ProductStore interface {
	CreateProduct(ctx context.Context, prod *models.Product) error
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context, filter *models.ProductFilter, page, perPage int) (models.Page[models.Product], error)
	UpdateProduct(ctx context.Context, id uint, patch models.ProductPatch) error
	DeleteProduct(ctx context.Context, id uint) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByAPIKey(ctx context.Context, key string) (*models.User, error)
}

// Publisher delivers domain events. mykafka.Producer and mykafka.Nop satisfy it.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Indexer mirrors products into the search index.
type Indexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type ProductEvent struct {
	Type        string `json:"type"`
	ProductID   uint   `json:"productID"`
	Description string `json:"description,omitempty"`
}

type UserEvent struct {
	Type     string `json:"type"`
	UserID   uint   `json:"userID"`
	Username string `json:"username"`
}

// publishContext ignores request cancellation and is bounded by publishTimeout.
func publishContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
}
