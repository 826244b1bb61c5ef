package model

import "time"

const (
	StatusCreated    = "created"
	StatusAuthorized = "authorized"
	StatusAborted    = "aborted"

	// Administrative fulfillment states, set by back-office after payment.
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
)

type Product struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	Price     int64  `gorm:"not null"` // CLP, no fractional units
	Stock     int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID uint `gorm:"primaryKey"`
	// Merchant order code, the idempotency key of the whole flow.
	// Gateway limit is 26 chars.
	BuyOrder  string `gorm:"size:26;uniqueIndex;not null"`
	SessionID string `gorm:"size:61;not null"`
	Amount    int64  `gorm:"not null"`
	Status    string `gorm:"size:32;index;not null"` // created, authorized, aborted, shipped, delivered

	// Gateway commit result, stored verbatim for audit.
	GatewayResponse   string `gorm:"type:text"`
	AuthorizationCode string `gorm:"size:16"`
	ResponseCode      *int
	PaymentTypeCode   string `gorm:"size:8"`
	CardLast4         string `gorm:"size:4"`
	Installments      int

	CustomerName  string `gorm:"size:255;not null"`
	CustomerEmail string `gorm:"size:255;not null"`
	CustomerPhone string `gorm:"size:32"`
	ShipAddress   string `gorm:"size:255"`
	ShipCity      string `gorm:"size:128"`

	// Cart snapshot at checkout time; never re-derived from order_items.
	Items string `gorm:"type:text;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → orders.id
	OrderID uint `gorm:"index;not null"`
	// FK → products.id
	ProductID uint  `gorm:"index;not null"`
	Quantity  int64 `gorm:"not null"`
	// Unit price captured at purchase time, independent of later catalog changes.
	UnitPrice int64 `gorm:"not null"`

	CreatedAt time.Time
}

// PaymentDetails carries the commit outcome written onto an order row.
type PaymentDetails struct {
	AuthorizationCode string
	ResponseCode      int
	PaymentTypeCode   string
	CardLast4         string
	Installments      int
	RawResponse       string
}
