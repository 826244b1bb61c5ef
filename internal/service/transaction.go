package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"webpay-checkout/internal/apperrors"
	"webpay-checkout/internal/client"
	"webpay-checkout/internal/dto"
	"webpay-checkout/internal/logging"
	"webpay-checkout/internal/metrics"
	"webpay-checkout/internal/model"
	"webpay-checkout/internal/repository"

	"gorm.io/gorm"
)

type TransactionService interface {
	CreateCheckout(ctx context.Context, items []dto.CartItem, customer dto.CustomerInfo) (*dto.CheckoutResponse, error)
	Commit(ctx context.Context, token string) (*dto.CommitResponse, error)
	Status(ctx context.Context, token string) (*client.TransactionResult, error)
	OrderByCode(ctx context.Context, buyOrder string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, buyOrder, status string) error
}

type transactionServiceImpl struct {
	db          *gorm.DB
	webpay      client.WebpayClient
	builder     *CheckoutBuilder
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	returnURL   string
	log         *slog.Logger
	metrics     *metrics.PaymentMetrics
}

func NewTransactionService(
	db *gorm.DB,
	webpay client.WebpayClient,
	builder *CheckoutBuilder,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	returnURL string,
	m *metrics.PaymentMetrics,
) TransactionService {
	return &transactionServiceImpl{
		db:          db,
		webpay:      webpay,
		builder:     builder,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		returnURL:   returnURL,
		log:         logging.New("transaction"),
		metrics:     m,
	}
}

// CreateCheckout prices the cart, creates the gateway transaction and
// persists the pending order. Fails closed: no order row exists if the
// gateway create fails.
func (s *transactionServiceImpl) CreateCheckout(ctx context.Context, items []dto.CartItem, customer dto.CustomerInfo) (*dto.CheckoutResponse, error) {
	session, err := s.builder.Build(items, customer)
	if err != nil {
		return nil, err
	}

	resp, err := s.webpay.Create(ctx, session.BuyOrder, session.SessionID, session.Amount, s.returnURL)
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(session.Items)
	if err != nil {
		return nil, apperrors.Persistence("marshal items snapshot", err)
	}

	order := &model.Order{
		BuyOrder:      session.BuyOrder,
		SessionID:     session.SessionID,
		Amount:        session.Amount,
		Status:        model.StatusCreated,
		CustomerName:  session.Customer.Name,
		CustomerEmail: session.Customer.Email,
		CustomerPhone: session.Customer.Phone,
		ShipAddress:   session.Customer.Address,
		ShipCity:      session.Customer.City,
		Items:         string(snapshot),
	}

	if err := s.orderRepo.Create(ctx, s.db, order); err != nil {
		return nil, apperrors.Persistence("create order", err)
	}

	if s.metrics != nil {
		s.metrics.CheckoutsCreated.Inc()
	}
	s.log.InfoContext(ctx, "checkout created",
		"buy_order", session.BuyOrder, "amount", session.Amount)

	return &dto.CheckoutResponse{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL(),
		BuyOrder:    session.BuyOrder,
		Amount:      session.Amount,
	}, nil
}

// Commit reconciles the gateway outcome with the order record. The gateway is
// the source of truth for which transaction the token names. Safe to run more
// than once for the same order: inventory effects apply only on the
// created → authorized flip.
func (s *transactionServiceImpl) Commit(ctx context.Context, token string) (*dto.CommitResponse, error) {
	if token == "" {
		return nil, apperrors.Validation("missing gateway token")
	}

	result, err := s.webpay.Commit(ctx, token)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByBuyOrder(ctx, result.BuyOrder)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", result.BuyOrder)
		}
		return nil, apperrors.Persistence("find order", err)
	}

	details := &model.PaymentDetails{
		AuthorizationCode: result.AuthorizationCode,
		ResponseCode:      result.ResponseCode,
		PaymentTypeCode:   result.PaymentTypeCode,
		CardLast4:         result.CardDetail.CardNumber,
		Installments:      result.InstallmentsNumber,
		RawResponse:       string(result.Raw),
	}

	if !result.Authorized() {
		if err := s.orderRepo.MarkAborted(ctx, s.db, result.BuyOrder, details); err != nil {
			return nil, apperrors.Persistence("mark order aborted", err)
		}
		if s.metrics != nil {
			s.metrics.Commits.WithLabelValues("rejected").Inc()
		}
		s.log.InfoContext(ctx, "commit not authorized",
			"buy_order", result.BuyOrder, "status", result.Status, "response_code", result.ResponseCode)

		return &dto.CommitResponse{
			Authorized:   false,
			Status:       result.Status,
			BuyOrder:     result.BuyOrder,
			Amount:       result.Amount,
			ResponseCode: result.ResponseCode,
		}, nil
	}

	applied := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applied, err = s.orderRepo.MarkAuthorized(ctx, tx, result.BuyOrder, details)
		if err != nil {
			return fmt.Errorf("mark order authorized: %w", err)
		}
		if !applied {
			// Duplicate callback: the order already left created state.
			return nil
		}

		return s.adjustInventory(ctx, tx, order)
	})
	if err != nil {
		return nil, apperrors.Persistence("commit order", err)
	}

	outcome := "authorized"
	if !applied {
		outcome = "duplicate"
		s.log.InfoContext(ctx, "duplicate commit callback, inventory untouched",
			"buy_order", result.BuyOrder)
	}
	if s.metrics != nil {
		s.metrics.Commits.WithLabelValues(outcome).Inc()
	}

	return &dto.CommitResponse{
		Authorized:        true,
		Status:            result.Status,
		BuyOrder:          result.BuyOrder,
		Amount:            result.Amount,
		AuthorizationCode: result.AuthorizationCode,
		ResponseCode:      result.ResponseCode,
		CardDetail:        result.CardDetail.CardNumber,
	}, nil
}

// adjustInventory records the purchased line items and decrements stock from
// the order's cart snapshot. Item inserts share the commit transaction. A
// per-item stock failure is logged and skipped rather than failing the
// commit, since the payment is already authorized.
func (s *transactionServiceImpl) adjustInventory(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	var snapshot []dto.CartItem
	if err := json.Unmarshal([]byte(order.Items), &snapshot); err != nil {
		return fmt.Errorf("decode items snapshot: %w", err)
	}

	orderItems := make([]*model.OrderItem, len(snapshot))
	for i, item := range snapshot {
		orderItems[i] = &model.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: int64(item.Price),
		}
	}

	if err := s.orderRepo.CreateItems(ctx, tx, orderItems); err != nil {
		return fmt.Errorf("create order items: %w", err)
	}

	for _, item := range snapshot {
		if err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			s.log.WarnContext(ctx, "stock adjustment failed, skipping item",
				"buy_order", order.BuyOrder, "product_id", item.ProductID, "error", err)
			if s.metrics != nil {
				s.metrics.StockAdjustFailures.Inc()
			}
		}
	}

	return nil
}

// Status returns the gateway's view of the transaction verbatim. Read-only.
func (s *transactionServiceImpl) Status(ctx context.Context, token string) (*client.TransactionResult, error) {
	if token == "" {
		return nil, apperrors.Validation("missing gateway token")
	}
	return s.webpay.Status(ctx, token)
}

func (s *transactionServiceImpl) OrderByCode(ctx context.Context, buyOrder string) (*model.Order, error) {
	order, err := s.orderRepo.FindByBuyOrder(ctx, buyOrder)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", buyOrder)
		}
		return nil, apperrors.Persistence("find order", err)
	}
	return order, nil
}

// UpdateOrderStatus applies an administrative fulfillment transition.
func (s *transactionServiceImpl) UpdateOrderStatus(ctx context.Context, buyOrder, status string) error {
	switch status {
	case model.StatusShipped, model.StatusDelivered:
	default:
		return apperrors.Validation("status %q is not an administrative transition", status)
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, buyOrder, status)
	if err != nil {
		return apperrors.Persistence("update order status", err)
	}
	if !updated {
		return apperrors.NotFound("order", buyOrder)
	}
	return nil
}
