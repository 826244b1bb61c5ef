package repository

import (
	"context"
	"errors"
	"testing"

	"webpay-checkout/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.Order{}, &model.OrderItem{}))
	return db
}

func pendingOrder(t *testing.T, db *gorm.DB, buyOrder string) *model.Order {
	t.Helper()
	order := &model.Order{
		BuyOrder:      buyOrder,
		SessionID:     "SES-00000000-0",
		Amount:        25000,
		Status:        model.StatusCreated,
		CustomerName:  "Test",
		CustomerEmail: "t@test.com",
		Items:         `[{"id":1,"price":25000,"quantity":1}]`,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestMarkAuthorizedFlipsExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	pendingOrder(t, db, "ORD00000001aaaaaa")
	details := &model.PaymentDetails{
		AuthorizationCode: "1213",
		PaymentTypeCode:   "VN",
		CardLast4:         "6623",
		RawResponse:       `{"status":"AUTHORIZED"}`,
	}

	applied, err := repo.MarkAuthorized(ctx, db, "ORD00000001aaaaaa", details)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.MarkAuthorized(ctx, db, "ORD00000001aaaaaa", details)
	require.NoError(t, err)
	assert.False(t, applied)

	order, err := repo.FindByBuyOrder(ctx, "ORD00000001aaaaaa")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAuthorized, order.Status)
	assert.Equal(t, "1213", order.AuthorizationCode)
}

func TestMarkAbortedDoesNotDowngradeAuthorized(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	pendingOrder(t, db, "ORD00000002aaaaaa")
	details := &model.PaymentDetails{RawResponse: `{"status":"AUTHORIZED"}`}

	applied, err := repo.MarkAuthorized(ctx, db, "ORD00000002aaaaaa", details)
	require.NoError(t, err)
	require.True(t, applied)

	// late abort callback after a successful commit
	require.NoError(t, repo.MarkAborted(ctx, db, "ORD00000002aaaaaa", &model.PaymentDetails{
		ResponseCode: -1,
		RawResponse:  `{"status":"FAILED"}`,
	}))

	order, err := repo.FindByBuyOrder(ctx, "ORD00000002aaaaaa")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAuthorized, order.Status)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	updated, err := repo.UpdateStatus(context.Background(), "ORD00000000ffffff", model.StatusShipped)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestDecrementStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Product{ID: 1, Name: "Polera", Price: 15000, Stock: 5}).Error)

	require.NoError(t, repo.DecrementStock(ctx, db, 1, 2))

	product, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), product.Stock)
}

func TestDecrementStockFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Product{ID: 1, Name: "Polera", Price: 15000, Stock: 1}).Error)

	require.NoError(t, repo.DecrementStock(ctx, db, 1, 3))

	product, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), product.Stock)
}

func TestDecrementStockMissingProduct(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)

	err := repo.DecrementStock(context.Background(), db, 99, 1)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
