package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"galleri/internal/models"
	"galleri/internal/repositories"
	"galleri/pkg/paypal"
)

// Validation sentinels for the payment guard. Their messages restate
// server-known facts only; the stored amount itself is logged, never returned.
var (
	ErrAmountMismatch    = errors.New("amount does not match order total")
	ErrCurrencyMismatch  = errors.New("currency does not match order currency")
	ErrItemCountMismatch = errors.New("items do not match order items")
)

// PaymentItem is a client-submitted line item. Only Quantity is trusted;
// title and price are taken from the stored order.
type PaymentItem struct {
	Title    string  `json:"title" validate:"required"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"omitempty,gt=0"`
}

// ValidateOrderPayment checks client-submitted amount, currency and items
// against the stored order before any gateway call. On success it rebuilds
// the gateway line items from the stored order's titles and prices, merging
// in only the client-supplied quantity (default 1).
func ValidateOrderPayment(order *models.Order, amount float64, currency string, items []PaymentItem) ([]paypal.Item, error) {
	if order.TotalAmount != amount {
		return nil, ErrAmountMismatch
	}
	if order.Currency != currency {
		return nil, ErrCurrencyMismatch
	}
	if len(order.Items) != len(items) {
		return nil, ErrItemCountMismatch
	}

	paypalItems := make([]paypal.Item, 0, len(order.Items))
	for i, orderItem := range order.Items {
		quantity := 1
		if items[i].Quantity > 0 {
			quantity = items[i].Quantity
		}
		paypalItems = append(paypalItems, paypal.Item{
			Name:     orderItem.Title,
			Quantity: strconv.Itoa(quantity),
			UnitAmount: paypal.Money{
				CurrencyCode: order.Currency,
				Value:        fmt.Sprintf("%.2f", orderItem.Price),
			},
		})
	}
	return paypalItems, nil
}

// PaymentGateway is the remote payment protocol consumed by the reconciler.
// *paypal.Client satisfies it.
type PaymentGateway interface {
	CreateOrder(params paypal.CreateOrderParams) (*paypal.Order, error)
	CaptureOrder(orderID string) (*paypal.CaptureResult, error)
}

// EventPublisher is the outbound notification channel. *rabbitmq.Client
// satisfies it. Publishing failures never affect the payment workflow.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// PaymentService reconciles local orders against the payment gateway:
// validate, create the gateway order, persist the correlation id, capture,
// and update local status plus the payment detail snapshot.
type PaymentService struct {
	orderRepo repositories.OrderRepository
	gateway   PaymentGateway
	cleanup   *CleanupService
	publisher EventPublisher
}

// NewPaymentService creates a new PaymentService. cleanup and publisher may
// be nil, in which case the corresponding post-completion step is skipped.
func NewPaymentService(orderRepo repositories.OrderRepository, gateway PaymentGateway, cleanup *CleanupService, publisher EventPublisher) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		gateway:   gateway,
		cleanup:   cleanup,
		publisher: publisher,
	}
}

// PaymentOrderRequest carries the client's create-payment-order submission.
type PaymentOrderRequest struct {
	OrderID         string
	Amount          float64
	Currency        string
	Items           []PaymentItem
	ShippingAddress *models.ShippingAddress
}

// CreatePaymentOrder validates the submission against the stored order,
// creates the gateway order from the stored amount and currency, and persists
// the returned gateway id on the order. The order stays pending. A repeat
// call creates a fresh gateway order and overwrites the stored correlation
// id; capture is keyed by that id, so only the latest gateway order can
// complete the local order.
func (s *PaymentService) CreatePaymentOrder(req PaymentOrderRequest) (*paypal.Order, error) {
	order, err := s.orderRepo.FindByOrderID(req.OrderID)
	if err != nil {
		return nil, err
	}

	items, err := ValidateOrderPayment(order, req.Amount, req.Currency, req.Items)
	if err != nil {
		if errors.Is(err, ErrAmountMismatch) {
			log.Printf("Amount mismatch for order %s: expected %v, got %v", order.OrderID, order.TotalAmount, req.Amount)
		}
		if errors.Is(err, ErrItemCountMismatch) {
			log.Printf("Item count mismatch for order %s: expected %d, got %d", order.OrderID, len(order.Items), len(req.Items))
		}
		return nil, err
	}

	var shipping *paypal.ShippingAddress
	if req.ShippingAddress != nil {
		shipping = &paypal.ShippingAddress{
			AddressLine1: req.ShippingAddress.Address,
			AdminArea2:   req.ShippingAddress.City,
			PostalCode:   req.ShippingAddress.PostalCode,
			CountryCode:  CountryCode(req.ShippingAddress.Country),
		}
	}

	// The stored amount and currency go to the gateway, never the submitted
	// ones.
	paypalOrder, err := s.gateway.CreateOrder(paypal.CreateOrderParams{
		Amount:   order.TotalAmount,
		Currency: order.Currency,
		Items:    items,
		Shipping: shipping,
	})
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Update(order.ID, map[string]interface{}{
		"pay_pal_order_id": paypalOrder.ID,
	}); err != nil {
		return nil, fmt.Errorf("order %s: %w", order.OrderID, err)
	}

	return paypalOrder, nil
}

// CaptureOutcome is the reconciler's result of a capture attempt.
type CaptureOutcome struct {
	Success       bool
	Status        string
	OrderID       string
	PayPalOrderID string
}

// CapturePaymentOrder captures the gateway order and reconciles the local
// order. The local status only moves on a definitively parsed gateway
// response: a transport or gateway error leaves the order pending so an
// indeterminate capture never silently becomes completed.
func (s *PaymentService) CapturePaymentOrder(paypalOrderID string) (*CaptureOutcome, error) {
	order, err := s.orderRepo.FindByPayPalOrderID(paypalOrderID)
	if err != nil {
		return nil, err
	}

	capture, err := s.gateway.CaptureOrder(paypalOrderID)
	if err != nil {
		return nil, err
	}

	capturedID := capture.ID
	if capturedID == "" {
		capturedID = paypalOrderID
	}
	now := time.Now().UTC().Format(time.RFC3339)

	if capture.Status == paypal.StatusCompleted {
		details := &models.PaymentDetails{
			PayPalOrderID: capturedID,
			Status:        capture.Status,
			CompletedAt:   now,
		}
		if capture.Payer != nil && capture.Payer.EmailAddress != "" {
			email := capture.Payer.EmailAddress
			details.PayerEmail = &email
		}

		if err := s.orderRepo.Update(order.ID, map[string]interface{}{
			"order_status":    models.OrderStatusCompleted,
			"payment_details": details,
		}); err != nil {
			return nil, fmt.Errorf("order %s: %w", order.OrderID, err)
		}

		order.OrderStatus = models.OrderStatusCompleted
		if s.cleanup != nil {
			s.cleanup.CleanupSoldItems(order)
		}
		s.publishOrderEvent("order.completed", order, capturedID)

		return &CaptureOutcome{
			Success:       true,
			Status:        capture.Status,
			OrderID:       order.OrderID,
			PayPalOrderID: capturedID,
		}, nil
	}

	status := capture.Status
	if status == "" {
		status = "UNKNOWN"
	}
	details := &models.PaymentDetails{
		PayPalOrderID: capturedID,
		Status:        status,
		FailedAt:      now,
	}
	if err := s.orderRepo.Update(order.ID, map[string]interface{}{
		"order_status":    models.OrderStatusFailed,
		"payment_details": details,
	}); err != nil {
		return nil, fmt.Errorf("order %s: %w", order.OrderID, err)
	}

	return &CaptureOutcome{
		Success:       false,
		Status:        status,
		OrderID:       order.OrderID,
		PayPalOrderID: capturedID,
	}, nil
}

// publishOrderEvent emits a fire-and-forget order event. Failures are logged
// and swallowed.
func (s *PaymentService) publishOrderEvent(eventType string, order *models.Order, paypalOrderID string) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"orderId":       order.OrderID,
		"paypalOrderId": paypalOrderID,
		"status":        order.OrderStatus,
		"customerEmail": order.CustomerEmail,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for order %s: %v", eventType, order.OrderID, err)
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", eventType, order.OrderID, err)
	}
}
