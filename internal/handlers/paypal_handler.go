package handlers

import (
	"errors"
	"log"

	"galleri/internal/models"
	"galleri/internal/repositories"
	"galleri/internal/services"
	"galleri/pkg/paypal"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PayPalHandler handles the payment workflow endpoints.
type PayPalHandler struct {
	paymentService *services.PaymentService
	validate       *validator.Validate
}

// NewPayPalHandler creates a new PayPalHandler.
func NewPayPalHandler(paymentService *services.PaymentService) *PayPalHandler {
	return &PayPalHandler{
		paymentService: paymentService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PayPalHandler) RegisterRoutes(router fiber.Router) {
	paypalRoutes := router.Group("/paypal")
	paypalRoutes.Post("/create-order", h.HandleCreateOrder)
	paypalRoutes.Post("/capture-order", h.HandleCaptureOrder)
}

// CreateOrderRequest is the create-payment-order request body.
type CreateOrderRequest struct {
	OrderID         string                  `json:"orderId" validate:"required"`
	Amount          float64                 `json:"amount" validate:"required,gt=0"`
	Currency        string                  `json:"currency" validate:"required,len=3"`
	Items           []services.PaymentItem  `json:"items" validate:"required,min=1,dive"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
}

// HandleCreateOrder validates the submission against the stored order and
// creates a gateway order. Gateway error detail never reaches the client;
// auth failures surface as 403 and everything else as a generic 500.
func (h *PayPalHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create-order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing orderId",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields: amount, currency, items",
		})
	}

	paypalOrder, err := h.paymentService.CreatePaymentOrder(services.PaymentOrderRequest{
		OrderID:         req.OrderID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		return h.createOrderError(c, err)
	}

	return c.JSON(fiber.Map{
		"id":     paypalOrder.ID,
		"status": paypalOrder.Status,
		"links":  paypalOrder.Links,
	})
}

// createOrderError classifies a create-payment-order failure to an HTTP
// status. Validation sentinels are safe to return; gateway errors are not.
func (h *PayPalHandler) createOrderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	case errors.Is(err, services.ErrAmountMismatch),
		errors.Is(err, services.ErrCurrencyMismatch),
		errors.Is(err, services.ErrItemCountMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": capitalize(err.Error()),
		})
	}

	log.Printf("PayPal create order error: %v", err)
	var authErr *paypal.AuthError
	if errors.As(err, &authErr) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "PayPal authentication failed. Please contact support.",
		})
	}
	var createErr *paypal.CreateOrderError
	if errors.As(err, &createErr) && (createErr.StatusCode == fiber.StatusUnauthorized || createErr.StatusCode == fiber.StatusForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "PayPal authentication failed. Please contact support.",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to create PayPal order. Please try again.",
	})
}

// CaptureOrderRequest is the capture-payment-order request body. The orderId
// here is the gateway order id, not the local one.
type CaptureOrderRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// HandleCaptureOrder captures the gateway order and reports the reconciled
// local order state.
func (h *PayPalHandler) HandleCaptureOrder(c *fiber.Ctx) error {
	var req CaptureOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing capture-order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing orderId",
		})
	}

	outcome, err := h.paymentService.CapturePaymentOrder(req.OrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order not found",
			})
		}
		log.Printf("PayPal capture order error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to capture PayPal order. Please contact support.",
		})
	}

	if !outcome.Success {
		return c.JSON(fiber.Map{
			"success": false,
			"status":  outcome.Status,
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"order": fiber.Map{
			"id":            outcome.OrderID,
			"status":        models.OrderStatusCompleted,
			"paypalOrderId": outcome.PayPalOrderID,
		},
	})
}

// capitalize upper-cases the first byte of an ASCII sentinel message for the
// client-facing error body.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
