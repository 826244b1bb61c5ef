package service

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"webpay-checkout/internal/apperrors"
	"webpay-checkout/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutSession is the validated, priced input handed to the orchestrator.
type CheckoutSession struct {
	BuyOrder  string
	SessionID string
	Amount    int64
	Items     []dto.CartItem
	Customer  dto.CustomerInfo
}

// CheckoutBuilder computes order totals and identifiers from cart contents.
// Pure computation, no storage access.
type CheckoutBuilder struct {
	now func() time.Time
}

func NewCheckoutBuilder() *CheckoutBuilder {
	return &CheckoutBuilder{now: time.Now}
}

func (b *CheckoutBuilder) Build(items []dto.CartItem, customer dto.CustomerInfo) (*CheckoutSession, error) {
	if len(items) == 0 {
		return nil, apperrors.Validation("cart is empty")
	}
	if strings.TrimSpace(customer.Name) == "" {
		return nil, apperrors.Validation("customer name is required")
	}
	if strings.TrimSpace(customer.Email) == "" {
		return nil, apperrors.Validation("customer email is required")
	}

	total := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperrors.Validation("item quantity must be positive")
		}
		price := decimal.NewFromFloat(item.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(item.Quantity)))
	}

	// Round to the smallest indivisible CLP unit.
	amount := total.Round(0).IntPart()
	if amount <= 0 {
		return nil, apperrors.Validation("order total must be positive")
	}

	now := b.now()

	return &CheckoutSession{
		BuyOrder:  buildBuyOrder(now),
		SessionID: buildSessionID(customer.Email, now),
		Amount:    amount,
		Items:     items,
		Customer:  customer,
	}, nil
}

// buildBuyOrder generates the merchant order code: "ORD" + 8 timestamp digits
// + 6 random hex chars. 17 chars total, under the gateway's 26-char limit;
// the random suffix disambiguates codes created within the same millisecond.
func buildBuyOrder(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("ORD%08d%s", now.UnixMilli()%100_000_000, suffix)
}

// buildSessionID derives the gateway session id from the customer email and
// the checkout timestamp. Gateway limit is 61 chars.
func buildSessionID(email string, now time.Time) string {
	h := fnv.New32a()
	h.Write([]byte(email))
	return fmt.Sprintf("SES-%08x-%d", h.Sum32(), now.UnixMilli())
}
