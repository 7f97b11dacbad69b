package repo

import "gorm.io/gorm"

// GormRepo is the datastore behind the product and user services.
type GormRepo struct {
	DB *gorm.DB
}
