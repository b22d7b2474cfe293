package services_test

import (
	"testing"

	"galleri/internal/models"
	"galleri/internal/repositories"
	"galleri/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T) *repositories.MockContentRepository {
	t.Helper()
	repo := repositories.NewMockContentRepository()

	items := []models.GalleryItem{
		{ID: 1, DocumentID: "doc-vase", Title: "Vase", Price: 500},
		{ID: 2, DocumentID: "doc-bowl", Title: "Bowl", Price: 200},
		{ID: 3, DocumentID: "doc-print", Title: "Print", Price: 150},
	}
	for i := range items {
		require.NoError(t, repo.CreateGalleryItem(&items[i]))
	}

	pages := []models.Page{
		{
			ID:   1,
			Slug: "home",
			Blocks: []models.ContentBlock{
				{Type: "hero", Heading: "Welcome"},
				{Type: models.BlockTypeGallery, GalleryItemIDs: []uint{1, 2, 3}},
			},
		},
		{
			ID:   2,
			Slug: "shop",
			Blocks: []models.ContentBlock{
				{Type: models.BlockTypeGallery, GalleryItemIDs: []uint{1, 2}},
				{Type: "about", Body: "The gallery"},
			},
		},
		{
			ID:   3,
			Slug: "prints",
			Blocks: []models.ContentBlock{
				{Type: models.BlockTypeGallery, GalleryItemIDs: []uint{3}},
			},
		},
	}
	for i := range pages {
		require.NoError(t, repo.CreatePage(&pages[i]))
	}
	return repo
}

func soldOrder(refs ...string) *models.Order {
	order := &models.Order{OrderID: "ORD-1", OrderStatus: models.OrderStatusCompleted}
	for _, ref := range refs {
		order.Items = append(order.Items, models.OrderItem{
			Title: ref, Price: 100, GalleryItemDocumentID: ref,
		})
	}
	return order
}

func TestCleanupSoldItems_DeletesItemsAndPrunesBlocks(t *testing.T) {
	repo := seedCatalog(t)
	cleanup := services.NewCleanupService(repo)

	cleanup.CleanupSoldItems(soldOrder("doc-vase", "doc-bowl"))

	assert.Equal(t, 1, repo.GalleryItemCount(), "only the print remains")

	home, err := repo.GetPage(1)
	require.NoError(t, err)
	require.Len(t, home.Blocks, 2, "hero block untouched, gallery block kept")
	assert.Equal(t, []uint{3}, home.Blocks[1].GalleryItemIDs, "deleted ids pruned")

	shop, err := repo.GetPage(2)
	require.NoError(t, err)
	require.Len(t, shop.Blocks, 1, "emptied gallery block is dropped")
	assert.Equal(t, "about", shop.Blocks[0].Type)

	prints, err := repo.GetPage(3)
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, prints.Blocks[0].GalleryItemIDs, "unrelated page untouched")
}

func TestCleanupSoldItems_NoGalleryReferencesIsNoop(t *testing.T) {
	repo := seedCatalog(t)
	cleanup := services.NewCleanupService(repo)

	order := &models.Order{
		OrderID: "ORD-2",
		Items:   []models.OrderItem{{Title: "Gift card", Price: 100}},
	}
	cleanup.CleanupSoldItems(order)

	assert.Equal(t, 3, repo.GalleryItemCount())
}

func TestCleanupSoldItems_UnresolvableReferenceContinues(t *testing.T) {
	repo := seedCatalog(t)
	cleanup := services.NewCleanupService(repo)

	cleanup.CleanupSoldItems(soldOrder("doc-ghost", "doc-vase"))

	assert.Equal(t, 2, repo.GalleryItemCount(), "the vase is still deleted")
	home, err := repo.GetPage(1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, home.Blocks[1].GalleryItemIDs)
}

func TestCleanupSoldItems_SecondRunIsNoop(t *testing.T) {
	repo := seedCatalog(t)
	cleanup := services.NewCleanupService(repo)
	order := soldOrder("doc-vase", "doc-bowl")

	cleanup.CleanupSoldItems(order)
	cleanup.CleanupSoldItems(order)

	assert.Equal(t, 1, repo.GalleryItemCount())
	home, err := repo.GetPage(1)
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, home.Blocks[1].GalleryItemIDs)
}

func TestCleanupSoldItems_DuplicateReferencesDeleteOnce(t *testing.T) {
	repo := seedCatalog(t)
	cleanup := services.NewCleanupService(repo)

	cleanup.CleanupSoldItems(soldOrder("doc-vase", "doc-vase"))

	assert.Equal(t, 2, repo.GalleryItemCount())
}
