package models

import "time"

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"        json:"id"`
	Username string `gorm:"size:250;uniqueIndex;not null"   json:"username"`
	Email    string `gorm:"size:250;uniqueIndex;not null"   json:"email"`
	Password string `gorm:"size:60;not null"                json:"-"`
	APIKey   string `gorm:"size:40;index;not null"          json:"api_key"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DateTime    time.Time `gorm:"not null"                 json:"date_time"`
	Description string    `gorm:"type:text;not null"       json:"description"`
	Latitude    float64   `gorm:"not null"                 json:"latitude"`
	Longitude   float64   `gorm:"not null"                 json:"longitude"`
	Elevation   int       `gorm:"not null"                 json:"elevation"`
}

// ProductPatch carries the columns of a partial update. Nil fields are left unchanged.
type ProductPatch struct {
	DateTime    *time.Time
	Description *string
	Latitude    *float64
	Longitude   *float64
	Elevation   *int
}

func (p ProductPatch) Columns() map[string]any {
	cols := make(map[string]any, 5)
	if p.DateTime != nil {
		cols["date_time"] = *p.DateTime
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Latitude != nil {
		cols["latitude"] = *p.Latitude
	}
	if p.Longitude != nil {
		cols["longitude"] = *p.Longitude
	}
	if p.Elevation != nil {
		cols["elevation"] = *p.Elevation
	}
	return cols
}

// Page is one slice of a paginated query.
type Page[T any] struct {
	Items      []T
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
}

// ProductFilter selects products by exact date_time and description.
type ProductFilter struct {
	DateTime    time.Time
	Description string
}
