package handlers

import (
	"errors"
	"log"

	"galleri/internal/models"
	"galleri/internal/repositories"
	"galleri/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles order intake and the staff order listing.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers the checkout-facing order routes.
func (h *OrderHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Post("/orders", h.HandleCreateOrder)
}

// RegisterStaffRoutes registers the order listing routes. Callers are
// expected to mount them behind auth middleware.
func (h *OrderHandler) RegisterStaffRoutes(router fiber.Router) {
	router.Get("/orders", h.HandleGetOrders)
	router.Get("/orders/:orderId", h.HandleGetOrderByID)
}

// HandleCreateOrder creates a pending order from the checkout submission.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var order models.Order
	if err := c.BodyParser(&order); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(order); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make(map[string]string)
			for _, e := range validationErrors {
				fields[e.Field()] = "failed on the '" + e.Tag() + "' rule"
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": fields,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Validation failed",
		})
	}

	if err := h.service.CreateOrder(&order); err != nil {
		log.Printf("Error creating order %s: %v", order.OrderID, err)
		if errors.Is(err, repositories.ErrOrderExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "An order with this orderId already exists",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create order",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders retrieves all orders for gallery staff.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve orders",
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its orderId.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	order, err := h.service.GetOrderByOrderID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order not found",
			})
		}
		log.Printf("Error getting order %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve order",
		})
	}
	return c.JSON(order)
}
