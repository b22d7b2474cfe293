package repositories

import (
	"encoding/json"
	"fmt"

	"galleri/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMContentRepository is a GORM implementation of ContentRepository.
type GORMContentRepository struct {
	db *gorm.DB
}

// NewGORMContentRepository creates a new instance of GORMContentRepository.
func NewGORMContentRepository(db *gorm.DB) *GORMContentRepository {
	return &GORMContentRepository{db: db}
}

// CreateGalleryItem persists a new gallery item, assigning a documentId when
// the caller did not provide one.
func (r *GORMContentRepository) CreateGalleryItem(item *models.GalleryItem) error {
	if item.DocumentID == "" {
		item.DocumentID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create gallery item: %w", err)
	}
	return nil
}

// FindGalleryItemsByDocumentID retrieves the gallery items matching the given
// stable document reference. At most one item matches under normal operation;
// a slice keeps resolution failures distinguishable from empty results.
func (r *GORMContentRepository) FindGalleryItemsByDocumentID(documentID string) ([]models.GalleryItem, error) {
	var items []models.GalleryItem
	if err := r.db.Limit(1).Find(&items, "document_id = ?", documentID).Error; err != nil {
		return nil, fmt.Errorf("failed to find gallery items by documentId %s: %w", documentID, err)
	}
	return items, nil
}

// DeleteGalleryItem removes a gallery item from the catalog.
func (r *GORMContentRepository) DeleteGalleryItem(id uint) error {
	res := r.db.Delete(&models.GalleryItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete gallery item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("gallery item %d: %w", id, ErrGalleryItemNotFound)
	}
	return nil
}

// CreatePage persists a new page.
func (r *GORMContentRepository) CreatePage(page *models.Page) error {
	if err := r.db.Create(page).Error; err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	return nil
}

// FindPagesWithGalleryBlocks retrieves all pages containing at least one
// gallery block. Blocks live in a JSON column, so the filter runs in memory
// rather than in SQL to stay portable across postgres and sqlite.
func (r *GORMContentRepository) FindPagesWithGalleryBlocks() ([]models.Page, error) {
	var pages []models.Page
	if err := r.db.Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}

	withGallery := make([]models.Page, 0, len(pages))
	for _, page := range pages {
		if page.HasGalleryBlock() {
			withGallery = append(withGallery, page)
		}
	}
	return withGallery, nil
}

// UpdatePageBlocks replaces the block list of the given page. The column
// update bypasses GORM's field serializer, so the block list is marshaled to
// JSON text here, the same form the serializer writes on create.
func (r *GORMContentRepository) UpdatePageBlocks(id uint, blocks []models.ContentBlock) error {
	raw, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("failed to serialize blocks for page %d: %w", id, err)
	}
	res := r.db.Model(&models.Page{}).Where("id = ?", id).Update("blocks", string(raw))
	if res.Error != nil {
		return fmt.Errorf("failed to update page %d blocks: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("page %d not found for block update", id)
	}
	return nil
}
