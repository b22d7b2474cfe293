package repositories

import (
	"errors"

	"galleri/internal/models"
)

// ErrGalleryItemNotFound is returned when no gallery item matches the key.
var ErrGalleryItemNotFound = errors.New("gallery item not found")

// ContentRepository defines the content store consumed by post-completion
// cleanup: gallery item lookup/deletion and page block rewriting.
type ContentRepository interface {
	CreateGalleryItem(item *models.GalleryItem) error
	FindGalleryItemsByDocumentID(documentID string) ([]models.GalleryItem, error)
	DeleteGalleryItem(id uint) error
	CreatePage(page *models.Page) error
	FindPagesWithGalleryBlocks() ([]models.Page, error)
	UpdatePageBlocks(id uint, blocks []models.ContentBlock) error
}
