package services

import (
	"encoding/json"
	"fmt"
	"log"

	"galleri/internal/models"
	"galleri/internal/repositories"
)

// DefaultCurrency is used when the checkout client omits the currency.
const DefaultCurrency = "SEK"

// OrderService handles the checkout client's order intake and the staff
// order listing.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, publisher EventPublisher) *OrderService {
	return &OrderService{orderRepo: orderRepo, publisher: publisher}
}

// CreateOrder persists a new pending order. The status is forced to pending
// regardless of client input; totalAmount and currency become authoritative
// from here on. An order.created event is emitted fire-and-forget.
func (s *OrderService) CreateOrder(order *models.Order) error {
	order.OrderStatus = models.OrderStatusPending
	order.PayPalOrderID = ""
	order.PaymentDetails = nil
	if order.Currency == "" {
		order.Currency = DefaultCurrency
	}

	if err := s.orderRepo.Create(order); err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.OrderID, err)
	}

	if s.publisher != nil {
		body, err := json.Marshal(map[string]interface{}{
			"orderId":       order.OrderID,
			"status":        order.OrderStatus,
			"total":         order.TotalAmount,
			"currency":      order.Currency,
			"customerEmail": order.CustomerEmail,
		})
		if err != nil {
			log.Printf("Failed to marshal order.created event for order %s: %v", order.OrderID, err)
		} else if err := s.publisher.Publish("order.created", body); err != nil {
			log.Printf("Warning: failed to publish order.created event for order %s: %v", order.OrderID, err)
		}
	}

	return nil
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByOrderID retrieves a single order by its client-generated orderId.
func (s *OrderService) GetOrderByOrderID(orderID string) (*models.Order, error) {
	return s.orderRepo.FindByOrderID(orderID)
}
