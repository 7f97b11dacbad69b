package transport

import (
	"github.com/Skotchmaster/geotag_api/internal/models"
)

const (
	HelpDateTime    = `Incorrect / Missing date_time, should be "YYYY-MM-DD HH:MM:SS"`
	HelpDescription = "Incorrect / Missing description, should be a string"
	HelpLatitude    = "Incorrect / Missing latitude, should be a float"
	HelpLongitude   = "Incorrect / Missing longitude, should be a float"
	HelpElevation   = "Incorrect / Missing elevation, should be an integer"
	HelpPage        = "Incorrect page, should be an integer"
	HelpPerPage     = "Incorrect per_page, should be an integer"
	HelpUsername    = "Incorrect / Missing username, should be a string"
	HelpEmail       = "Incorrect / Missing email, should be a string"
	HelpPassword    = "Incorrect / Missing password, should be a string"
	HelpQuery       = "Incorrect / Missing q, should be a string"
	HelpAPIKey      = "Invalid / Missing api key, should be an string"
)

// helpTexts is keyed by the json name of a request field.
var helpTexts = map[string]string{
	"date_time":   HelpDateTime,
	"description": HelpDescription,
	"latitude":    HelpLatitude,
	"longitude":   HelpLongitude,
	"elevation":   HelpElevation,
	"page":        HelpPage,
	"per_page":    HelpPerPage,
	"username":    HelpUsername,
	"email":       HelpEmail,
	"password":    HelpPassword,
	"q":           HelpQuery,
	"key":         HelpAPIKey,
}

type ListProductsRequest struct {
	Page        *int    `json:"page"`
	PerPage     *int    `json:"per_page"`
	DateTime    *string `json:"date_time"`
	Description *string `json:"description"`
}

type SearchProductsRequest struct {
	Q       *string `json:"q"        validate:"required"`
	Page    *int    `json:"page"`
	PerPage *int    `json:"per_page"`
}

type CreateProductRequest struct {
	DateTime    *string  `json:"date_time"   validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Latitude    *float64 `json:"latitude"    validate:"required"`
	Longitude   *float64 `json:"longitude"   validate:"required"`
	Elevation   *int     `json:"elevation"   validate:"required"`
}

// UpdateProductRequest requires date_time; every other field is optional.
type UpdateProductRequest struct {
	DateTime    *string  `json:"date_time"   validate:"required"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Elevation   *int     `json:"elevation"`
}

type RegisterRequest struct {
	Username *string `json:"username" validate:"required"`
	Email    *string `json:"email"    validate:"required"`
	Password *string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    *string `json:"email"    validate:"required"`
	Password *string `json:"password" validate:"required"`
}

type APIKeyRequest struct {
	Key *string `json:"key"`
}

type PageSizeRequest struct {
	PerPage *int `json:"per_page"`
}

// DateTimeLayout is how product timestamps are rendered in responses.
const DateTimeLayout = "2006-01-02T15:04:05"

type ProductResponse struct {
	ID          uint    `json:"id"`
	DateTime    string  `json:"date_time"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Elevation   int     `json:"elevation"`
}

func NewProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		DateTime:    p.DateTime.UTC().Format(DateTimeLayout),
		Description: p.Description,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Elevation:   p.Elevation,
	}
}

type ProductListResponse struct {
	CurPage         int               `json:"cur_page"`
	TotalPages      int               `json:"total_pages"`
	TotalProducts   int64             `json:"total_products"`
	ProductsPerPage int               `json:"products_per_page"`
	Products        []ProductResponse `json:"products"`
}

func NewProductListResponse(page models.Page[models.Product]) ProductListResponse {
	items := make([]ProductResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, NewProductResponse(p))
	}
	return ProductListResponse{
		CurPage:         page.Page,
		TotalPages:      page.TotalPages,
		TotalProducts:   page.Total,
		ProductsPerPage: page.PerPage,
		Products:        items,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	APIKey  string `json:"api_key"`
}

type LoginResponse struct {
	APIKey string `json:"api_key"`
}
