package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/geotag_api/internal/models"
	"github.com/Skotchmaster/geotag_api/internal/util"
)

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &product, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, filter *models.ProductFilter, page, perPage int) (models.Page[models.Product], error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&models.Product{})
		if filter != nil {
			db = db.Where("date_time = ? AND description = ?", filter.DateTime, filter.Description)
		}
		return db
	}

	var total int64
	if err := r.DB.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return models.Page[models.Product]{}, err
	}

	offset, limit := util.Calculate(page, perPage)
	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).Scopes(scope).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return models.Page[models.Product]{}, err
	}

	return models.Page[models.Product]{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: util.TotalPages(total, perPage),
	}, nil
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, patch models.ProductPatch) error {
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil
	}

	res := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
