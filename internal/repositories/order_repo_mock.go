package repositories

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"galleri/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository used
// by tests and local development.
type MockOrderRepository struct {
	mu     sync.RWMutex
	nextID uint
	orders map[uint]models.Order
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[uint]models.Order)}
}

// Create adds a new order, assigning the store key.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.orders {
		if existing.OrderID == order.OrderID {
			return fmt.Errorf("order %s: %w", order.OrderID, ErrOrderExists)
		}
	}
	r.nextID++
	order.ID = r.nextID
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// GetAll returns all orders.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, order)
	}
	return orders, nil
}

// FindByOrderID returns an order by its client-generated orderId.
func (r *MockOrderRepository) FindByOrderID(orderID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.OrderID == orderID {
			o := order
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
}

// FindByPayPalOrderID returns an order by its gateway correlation id.
func (r *MockOrderRepository) FindByPayPalOrderID(paypalOrderID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.PayPalOrderID == paypalOrderID {
			o := order
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order with paypal id %s: %w", paypalOrderID, ErrOrderNotFound)
}

// Update applies a partial patch using the same column keys as the GORM
// implementation.
func (r *MockOrderRepository) Update(id uint, patch map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %d: %w", id, ErrOrderNotFound)
	}
	for column, value := range patch {
		switch column {
		case "pay_pal_order_id":
			order.PayPalOrderID = value.(string)
		case "order_status":
			order.OrderStatus = value.(string)
		case "payment_details":
			// Round-trip through JSON like the GORM store, so values the
			// real store cannot serialize are rejected here too.
			raw, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("unsupported payment_details value: %w", err)
			}
			var details *models.PaymentDetails
			if err := json.Unmarshal(raw, &details); err != nil {
				return fmt.Errorf("unsupported payment_details value: %w", err)
			}
			order.PaymentDetails = details
		default:
			return fmt.Errorf("unsupported patch column %q", column)
		}
	}
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}
