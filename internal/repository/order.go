package repository

import (
	"context"
	"time"

	"webpay-checkout/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByBuyOrder(ctx context.Context, buyOrder string) (*model.Order, error)
	// MarkAuthorized flips created → authorized and records the payment
	// details. Returns false when the order was not in created state, which
	// is how a duplicate commit callback is detected.
	MarkAuthorized(ctx context.Context, tx *gorm.DB, buyOrder string, d *model.PaymentDetails) (bool, error)
	// MarkAborted records a non-authorized gateway outcome. Only orders
	// still in created state are touched; a late abort callback must not
	// downgrade an authorized order.
	MarkAborted(ctx context.Context, tx *gorm.DB, buyOrder string, d *model.PaymentDetails) error
	UpdateStatus(ctx context.Context, buyOrder, status string) (bool, error)
	CreateItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	GetItems(ctx context.Context, orderID uint) ([]*model.OrderItem, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByBuyOrder(ctx context.Context, buyOrder string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("buy_order = ?", buyOrder).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) MarkAuthorized(ctx context.Context, tx *gorm.DB, buyOrder string, d *model.PaymentDetails) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("buy_order = ? AND status = ?", buyOrder, model.StatusCreated).
		Updates(map[string]interface{}{
			"status":             model.StatusAuthorized,
			"gateway_response":   d.RawResponse,
			"authorization_code": d.AuthorizationCode,
			"response_code":      d.ResponseCode,
			"payment_type_code":  d.PaymentTypeCode,
			"card_last4":         d.CardLast4,
			"installments":       d.Installments,
			"updated_at":         time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *orderRepoImpl) MarkAborted(ctx context.Context, tx *gorm.DB, buyOrder string, d *model.PaymentDetails) error {
	return tx.WithContext(ctx).Model(&model.Order{}).
		Where("buy_order = ? AND status = ?", buyOrder, model.StatusCreated).
		Updates(map[string]interface{}{
			"status":           model.StatusAborted,
			"gateway_response": d.RawResponse,
			"response_code":    d.ResponseCode,
			"updated_at":       time.Now(),
		}).Error
}

func (r *orderRepoImpl) UpdateStatus(ctx context.Context, buyOrder, status string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("buy_order = ?", buyOrder).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *orderRepoImpl) CreateItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) GetItems(ctx context.Context, orderID uint) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}
