package services

import (
	"log"

	"galleri/internal/models"
	"galleri/internal/repositories"
)

// CleanupService removes sold gallery items from the catalog and prunes them
// out of page gallery blocks once an order completes.
type CleanupService struct {
	contentRepo repositories.ContentRepository
}

// NewCleanupService creates a new CleanupService.
func NewCleanupService(contentRepo repositories.ContentRepository) *CleanupService {
	return &CleanupService{contentRepo: contentRepo}
}

// CleanupSoldItems deletes the gallery items purchased by the given order and
// rewrites page gallery blocks that reference them. Best-effort: every
// failure is logged and swallowed, and partial progress is kept. Running it
// again for the same order is a no-op since the items no longer resolve.
func (s *CleanupService) CleanupSoldItems(order *models.Order) {
	documentIDs := distinctDocumentIDs(order.Items)
	if len(documentIDs) == 0 {
		return
	}

	var deletedIDs []uint
	for _, documentID := range documentIDs {
		items, err := s.contentRepo.FindGalleryItemsByDocumentID(documentID)
		if err != nil {
			log.Printf("Error resolving gallery item %s: %v", documentID, err)
			continue
		}
		if len(items) == 0 {
			continue
		}
		if err := s.contentRepo.DeleteGalleryItem(items[0].ID); err != nil {
			log.Printf("Error deleting gallery item %s: %v", documentID, err)
			continue
		}
		log.Printf("Deleted sold gallery item %s (order %s)", documentID, order.OrderID)
		deletedIDs = append(deletedIDs, items[0].ID)
	}

	if len(deletedIDs) == 0 {
		return
	}

	pages, err := s.contentRepo.FindPagesWithGalleryBlocks()
	if err != nil {
		log.Printf("Error loading pages for gallery cleanup: %v", err)
		return
	}

	deleted := make(map[uint]bool, len(deletedIDs))
	for _, id := range deletedIDs {
		deleted[id] = true
	}

	for _, page := range pages {
		updatedBlocks, changed := pruneGalleryBlocks(page.Blocks, deleted)
		if !changed {
			continue
		}
		if err := s.contentRepo.UpdatePageBlocks(page.ID, updatedBlocks); err != nil {
			log.Printf("Error updating page %d after gallery cleanup: %v", page.ID, err)
			continue
		}
		log.Printf("Updated page %d, removed sold gallery items from blocks", page.ID)
	}
}

// distinctDocumentIDs extracts the unique gallery references from the order's
// line items, skipping items without one.
func distinctDocumentIDs(items []models.OrderItem) []string {
	seen := make(map[string]bool, len(items))
	var ids []string
	for _, item := range items {
		if item.GalleryItemDocumentID == "" || seen[item.GalleryItemDocumentID] {
			continue
		}
		seen[item.GalleryItemDocumentID] = true
		ids = append(ids, item.GalleryItemDocumentID)
	}
	return ids
}

// pruneGalleryBlocks strips deleted item ids out of gallery blocks and drops
// gallery blocks whose item list becomes empty. Non-gallery blocks pass
// through untouched.
func pruneGalleryBlocks(blocks []models.ContentBlock, deleted map[uint]bool) ([]models.ContentBlock, bool) {
	changed := false
	updated := make([]models.ContentBlock, 0, len(blocks))
	for _, block := range blocks {
		if block.Type != models.BlockTypeGallery {
			updated = append(updated, block)
			continue
		}

		remaining := make([]uint, 0, len(block.GalleryItemIDs))
		for _, id := range block.GalleryItemIDs {
			if !deleted[id] {
				remaining = append(remaining, id)
			}
		}
		if len(remaining) == len(block.GalleryItemIDs) {
			updated = append(updated, block)
			continue
		}

		changed = true
		if len(remaining) == 0 {
			continue
		}
		block.GalleryItemIDs = remaining
		updated = append(updated, block)
	}
	return updated, changed
}
