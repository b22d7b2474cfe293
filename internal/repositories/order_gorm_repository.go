package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"galleri/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create persists a new order. The orderId column is unique; a conflict is
// reported as ErrOrderExists.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("order %s: %w", order.OrderID, ErrOrderExists)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetAll retrieves all orders, newest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// FindByOrderID retrieves an order by its client-generated orderId.
func (r *GORMOrderRepository) FindByOrderID(orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to find order by orderId %s: %w", orderID, err)
	}
	return &order, nil
}

// FindByPayPalOrderID retrieves an order by its gateway correlation id.
func (r *GORMOrderRepository) FindByPayPalOrderID(paypalOrderID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "pay_pal_order_id = ?", paypalOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with paypal id %s: %w", paypalOrderID, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to find order by paypal id %s: %w", paypalOrderID, err)
	}
	return &order, nil
}

// Update applies a partial column patch to the order with the given store key.
// GORM does not run field serializers for map-valued updates, so struct and
// slice values are marshaled to JSON text here before they reach the driver.
func (r *GORMOrderRepository) Update(id uint, patch map[string]interface{}) error {
	columns, err := serializeJSONColumns(patch)
	if err != nil {
		return fmt.Errorf("failed to serialize patch for order %d: %w", id, err)
	}
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return fmt.Errorf("failed to update order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", id, ErrOrderNotFound)
	}
	return nil
}

// serializeJSONColumns marshals non-scalar patch values into JSON strings,
// matching what the serializer:json fields store on create.
func serializeJSONColumns(patch map[string]interface{}) (map[string]interface{}, error) {
	columns := make(map[string]interface{}, len(patch))
	for column, value := range patch {
		switch value.(type) {
		case nil, string, bool, int, int32, int64, uint, uint32, uint64, float32, float64, []byte:
			columns[column] = value
		default:
			raw, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", column, err)
			}
			columns[column] = string(raw)
		}
	}
	return columns, nil
}
