package repositories

import (
	"encoding/json"
	"fmt"
	"sync"

	"galleri/internal/models"

	"github.com/google/uuid"
)

// MockContentRepository is an in-memory implementation of ContentRepository
// used by tests and local development.
type MockContentRepository struct {
	mu         sync.RWMutex
	nextItemID uint
	nextPageID uint
	items      map[uint]models.GalleryItem
	pages      map[uint]models.Page
}

// NewMockContentRepository creates a new instance of MockContentRepository.
func NewMockContentRepository() *MockContentRepository {
	return &MockContentRepository{
		items: make(map[uint]models.GalleryItem),
		pages: make(map[uint]models.Page),
	}
}

// CreateGalleryItem adds a gallery item, assigning id and documentId.
func (r *MockContentRepository) CreateGalleryItem(item *models.GalleryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.DocumentID == "" {
		item.DocumentID = uuid.New().String()
	}
	if item.ID == 0 {
		r.nextItemID++
		item.ID = r.nextItemID
	}
	r.items[item.ID] = *item
	return nil
}

// FindGalleryItemsByDocumentID returns items matching the document reference.
func (r *MockContentRepository) FindGalleryItemsByDocumentID(documentID string) ([]models.GalleryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []models.GalleryItem
	for _, item := range r.items {
		if item.DocumentID == documentID {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// DeleteGalleryItem removes a gallery item.
func (r *MockContentRepository) DeleteGalleryItem(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("gallery item %d: %w", id, ErrGalleryItemNotFound)
	}
	delete(r.items, id)
	return nil
}

// CreatePage adds a page.
func (r *MockContentRepository) CreatePage(page *models.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if page.ID == 0 {
		r.nextPageID++
		page.ID = r.nextPageID
	}
	r.pages[page.ID] = *page
	return nil
}

// FindPagesWithGalleryBlocks returns pages containing a gallery block.
func (r *MockContentRepository) FindPagesWithGalleryBlocks() ([]models.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pages []models.Page
	for _, page := range r.pages {
		if page.HasGalleryBlock() {
			pages = append(pages, page)
		}
	}
	return pages, nil
}

// UpdatePageBlocks replaces a page's block list. The list is round-tripped
// through JSON like the GORM store, so the stored copy never aliases the
// caller's slice and unserializable blocks fail here too.
func (r *MockContentRepository) UpdatePageBlocks(id uint, blocks []models.ContentBlock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, ok := r.pages[id]
	if !ok {
		return fmt.Errorf("page %d not found for block update", id)
	}
	raw, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("unsupported block list for page %d: %w", id, err)
	}
	var stored []models.ContentBlock
	if err := json.Unmarshal(raw, &stored); err != nil {
		return fmt.Errorf("unsupported block list for page %d: %w", id, err)
	}
	page.Blocks = stored
	r.pages[id] = page
	return nil
}

// GetPage returns a page by id. Test helper.
func (r *MockContentRepository) GetPage(id uint) (*models.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, ok := r.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %d not found", id)
	}
	p := page
	return &p, nil
}

// GalleryItemCount returns the number of items in the catalog. Test helper.
func (r *MockContentRepository) GalleryItemCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
