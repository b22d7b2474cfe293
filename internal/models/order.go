package models

import "time"

// Order statuses. Transitions are one-directional: a pending order may become
// completed or failed, and nothing moves out of a terminal status. "cancelled"
// is set by the checkout client, never by the payment workflow.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
	OrderStatusCancelled = "cancelled"
)

// OrderItem is a snapshot of a purchased gallery item at order-creation time.
type OrderItem struct {
	Title                 string  `json:"title" validate:"required"`
	Price                 float64 `json:"price" validate:"required,gt=0"`
	GalleryItemDocumentID string  `json:"galleryItemDocumentId,omitempty"`
}

// ShippingAddress is the structured delivery address captured at checkout.
type ShippingAddress struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// PaymentDetails is the audit snapshot of the last capture attempt.
// CompletedAt/FailedAt are RFC 3339 timestamps; exactly one of them is set.
type PaymentDetails struct {
	PayPalOrderID string  `json:"paypalOrderId"`
	Status        string  `json:"status"`
	CompletedAt   string  `json:"completedAt,omitempty"`
	FailedAt      string  `json:"failedAt,omitempty"`
	PayerEmail    *string `json:"payerEmail,omitempty"`
}

// Order is the locally persisted record of a purchase attempt. TotalAmount,
// Currency and Items are authoritative from creation on and are never
// overwritten from client input on later payment calls.
type Order struct {
	ID              uint            `json:"-" gorm:"primaryKey"`
	OrderID         string          `json:"orderId" gorm:"uniqueIndex;type:varchar(64)" validate:"required"`
	OrderStatus     string          `json:"orderStatus" gorm:"type:varchar(16)"`
	TotalAmount     float64         `json:"totalAmount" validate:"required,gt=0"`
	Currency        string          `json:"currency" gorm:"type:varchar(3)"`
	CustomerName    string          `json:"customerName" validate:"required"`
	CustomerEmail   string          `json:"customerEmail" validate:"required,email"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"serializer:json"`
	Items           []OrderItem     `json:"items" gorm:"serializer:json" validate:"required,min=1,dive"`
	PayPalOrderID   string          `json:"paypalOrderId,omitempty" gorm:"index;type:varchar(64)"`
	PaymentDetails  *PaymentDetails `json:"paymentDetails,omitempty" gorm:"serializer:json"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
