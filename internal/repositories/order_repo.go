package repositories

import (
	"errors"

	"galleri/internal/models"
)

// ErrOrderNotFound is returned when no order matches the given key.
var ErrOrderNotFound = errors.New("order not found")

// ErrOrderExists is returned when creating an order whose orderId is taken.
var ErrOrderExists = errors.New("order already exists")

// OrderRepository defines the order store consumed by the payment workflow.
// Update applies a partial patch, not a full overwrite.
type OrderRepository interface {
	Create(order *models.Order) error
	GetAll() ([]models.Order, error)
	FindByOrderID(orderID string) (*models.Order, error)
	FindByPayPalOrderID(paypalOrderID string) (*models.Order, error)
	Update(id uint, patch map[string]interface{}) error
}
