package repositories_test

import (
	"fmt"
	"testing"

	"galleri/internal/models"
	"galleri/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.GalleryItem{}, &models.Page{}))
	return db
}

func pendingOrder(orderID string) *models.Order {
	return &models.Order{
		OrderID:       orderID,
		OrderStatus:   models.OrderStatusPending,
		TotalAmount:   500,
		Currency:      "SEK",
		CustomerName:  "Anna Svensson",
		CustomerEmail: "anna@example.com",
		Items: []models.OrderItem{
			{Title: "Vase", Price: 500, GalleryItemDocumentID: "doc-1"},
		},
	}
}

func TestGORMOrderRepository_UpdatePersistsPaymentDetails(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	order := pendingOrder("order-1")
	require.NoError(t, repo.Create(order))

	email := "payer@example.com"
	details := &models.PaymentDetails{
		PayPalOrderID: "PAY-1",
		Status:        "COMPLETED",
		CompletedAt:   "2026-08-31T12:00:00Z",
		PayerEmail:    &email,
	}
	err := repo.Update(order.ID, map[string]interface{}{
		"order_status":    models.OrderStatusCompleted,
		"payment_details": details,
	})
	require.NoError(t, err)

	reloaded, err := repo.FindByOrderID("order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, reloaded.OrderStatus)
	require.NotNil(t, reloaded.PaymentDetails)
	assert.Equal(t, "PAY-1", reloaded.PaymentDetails.PayPalOrderID)
	assert.Equal(t, "COMPLETED", reloaded.PaymentDetails.Status)
	assert.Equal(t, "2026-08-31T12:00:00Z", reloaded.PaymentDetails.CompletedAt)
	require.NotNil(t, reloaded.PaymentDetails.PayerEmail)
	assert.Equal(t, email, *reloaded.PaymentDetails.PayerEmail)
}

func TestGORMOrderRepository_UpdateScalarColumns(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	order := pendingOrder("order-2")
	require.NoError(t, repo.Create(order))

	require.NoError(t, repo.Update(order.ID, map[string]interface{}{
		"pay_pal_order_id": "PAY-2",
	}))

	reloaded, err := repo.FindByPayPalOrderID("PAY-2")
	require.NoError(t, err)
	assert.Equal(t, "order-2", reloaded.OrderID)
	assert.Equal(t, models.OrderStatusPending, reloaded.OrderStatus)
	assert.Nil(t, reloaded.PaymentDetails)
}

func TestGORMOrderRepository_UpdateUnknownID(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	err := repo.Update(99, map[string]interface{}{
		"order_status": models.OrderStatusCompleted,
	})
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

func TestGORMContentRepository_UpdatePageBlocksPersists(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMContentRepository(db)

	page := &models.Page{
		Slug:  "galleri",
		Title: "Galleri",
		Blocks: []models.ContentBlock{
			{Type: "text", Body: "Welcome"},
			{Type: models.BlockTypeGallery, GalleryItemIDs: []uint{1, 2}},
		},
	}
	require.NoError(t, repo.CreatePage(page))

	pruned := []models.ContentBlock{
		{Type: "text", Body: "Welcome"},
		{Type: models.BlockTypeGallery, GalleryItemIDs: []uint{2}},
	}
	require.NoError(t, repo.UpdatePageBlocks(page.ID, pruned))

	pages, err := repo.FindPagesWithGalleryBlocks()
	require.NoError(t, err)
	require.Len(t, pages, 1)
	require.Len(t, pages[0].Blocks, 2)
	assert.Equal(t, []uint{2}, pages[0].Blocks[1].GalleryItemIDs)
}

func TestGORMContentRepository_UpdatePageBlocksCanEmptyPage(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMContentRepository(db)

	page := &models.Page{
		Slug: "start",
		Blocks: []models.ContentBlock{
			{Type: models.BlockTypeGallery, GalleryItemIDs: []uint{7}},
		},
	}
	require.NoError(t, repo.CreatePage(page))

	require.NoError(t, repo.UpdatePageBlocks(page.ID, []models.ContentBlock{}))

	pages, err := repo.FindPagesWithGalleryBlocks()
	require.NoError(t, err)
	assert.Empty(t, pages)

	var reloaded models.Page
	require.NoError(t, db.First(&reloaded, "id = ?", page.ID).Error)
	assert.Empty(t, reloaded.Blocks)
}

// The in-memory mock and the GORM store must accept the same patches and land
// in the same state, since service tests run against the mock.
func TestOrderRepositoryPatchParity(t *testing.T) {
	db := setupDB(t)
	gormRepo := repositories.NewGORMOrderRepository(db)
	mockRepo := repositories.NewMockOrderRepository()

	patch := map[string]interface{}{
		"order_status": models.OrderStatusFailed,
		"payment_details": &models.PaymentDetails{
			PayPalOrderID: "PAY-3",
			Status:        "DECLINED",
			FailedAt:      "2026-08-31T12:00:00Z",
		},
	}

	for name, repo := range map[string]repositories.OrderRepository{
		"gorm": gormRepo,
		"mock": mockRepo,
	} {
		t.Run(name, func(t *testing.T) {
			order := pendingOrder("order-parity-" + name)
			require.NoError(t, repo.Create(order))
			require.NoError(t, repo.Update(order.ID, patch))

			reloaded, err := repo.FindByOrderID(order.OrderID)
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatusFailed, reloaded.OrderStatus)
			require.NotNil(t, reloaded.PaymentDetails)
			assert.Equal(t, "PAY-3", reloaded.PaymentDetails.PayPalOrderID)
			assert.Equal(t, "DECLINED", reloaded.PaymentDetails.Status)
			assert.Equal(t, "2026-08-31T12:00:00Z", reloaded.PaymentDetails.FailedAt)
		})
	}
}
