package repository

import (
	"context"

	"webpay-checkout/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	FindByID(ctx context.Context, productID uint) (*model.Product, error)
	// DecrementStock subtracts qty from the product's stock in a single
	// conditional statement, flooring at zero. Never goes negative and is
	// safe under concurrent purchases.
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, qty int64) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, qty int64) error {
	result := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr(
			"CASE WHEN stock >= ? THEN stock - ? ELSE 0 END", qty, qty,
		))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
