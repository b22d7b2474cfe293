package services_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"galleri/internal/models"
	"galleri/internal/repositories"
	"galleri/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func checkoutOrder() *models.Order {
	return &models.Order{
		OrderID:       "ORD-10",
		OrderStatus:   "completed", // client input, must be ignored
		TotalAmount:   750,
		CustomerName:  "Erik Berg",
		CustomerEmail: "erik@example.com",
		Items:         []models.OrderItem{{Title: "Sculpture", Price: 750}},
	}
}

func TestCreateOrder_ForcesPendingAndDefaults(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	publisher := new(MockEventPublisher)
	service := services.NewOrderService(orderRepo, publisher)

	publisher.On("Publish", "order.created", mock.MatchedBy(func(body []byte) bool {
		var event map[string]interface{}
		if err := json.Unmarshal(body, &event); err != nil {
			return false
		}
		return event["orderId"] == "ORD-10" && event["status"] == "pending"
	})).Return(nil).Once()

	order := checkoutOrder()
	order.PayPalOrderID = "PAY-forged"
	require.NoError(t, service.CreateOrder(order))

	stored, err := orderRepo.FindByOrderID("ORD-10")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, stored.OrderStatus)
	assert.Equal(t, services.DefaultCurrency, stored.Currency)
	assert.Empty(t, stored.PayPalOrderID, "client cannot preset a gateway id")
	assert.Nil(t, stored.PaymentDetails)
	publisher.AssertExpectations(t)
}

func TestCreateOrder_DuplicateOrderID(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	service := services.NewOrderService(orderRepo, nil)

	require.NoError(t, service.CreateOrder(checkoutOrder()))
	err := service.CreateOrder(checkoutOrder())

	assert.ErrorIs(t, err, repositories.ErrOrderExists)
}

func TestCreateOrder_PublishFailureDoesNotFailIntake(t *testing.T) {
	orderRepo := repositories.NewMockOrderRepository()
	publisher := new(MockEventPublisher)
	service := services.NewOrderService(orderRepo, publisher)

	publisher.On("Publish", "order.created", mock.Anything).Return(fmt.Errorf("broker down")).Once()

	assert.NoError(t, service.CreateOrder(checkoutOrder()))
	publisher.AssertExpectations(t)
}
