package models

import "gorm.io/gorm"

// GalleryItem is a sellable artwork in the catalog. Once an order containing
// it completes, the item is deleted and pruned out of page gallery blocks.
type GalleryItem struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	DocumentID  string  `json:"documentId" gorm:"uniqueIndex;type:varchar(36)"`
	Title       string  `json:"title" validate:"required,max=200"`
	Image       string  `json:"image"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	gorm.Model  `json:"-"`
}

// BlockTypeGallery marks a content block that references gallery items.
const BlockTypeGallery = "gallery"

// ContentBlock is one typed unit of a page layout. Only gallery blocks carry
// item references; other block types are opaque to this backend.
type ContentBlock struct {
	Type           string `json:"type"`
	Heading        string `json:"heading,omitempty"`
	Body           string `json:"body,omitempty"`
	GalleryItemIDs []uint `json:"galleryItemIds,omitempty"`
}

// Page is a CMS page composed of content blocks.
type Page struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Slug       string         `json:"slug" gorm:"uniqueIndex;type:varchar(100)"`
	Title      string         `json:"title"`
	Blocks     []ContentBlock `json:"blocks" gorm:"serializer:json"`
	gorm.Model `json:"-"`
}

// HasGalleryBlock reports whether any of the page's blocks is a gallery block.
func (p *Page) HasGalleryBlock() bool {
	for _, b := range p.Blocks {
		if b.Type == BlockTypeGallery {
			return true
		}
	}
	return false
}
