package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"line-item-service/internal/database"
	"line-item-service/internal/maintenance"
	"line-item-service/internal/models"
	"line-item-service/internal/search"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	db          *database.GormDB
	search      *search.SearchClient
	maintenance *maintenance.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *database.GormDB, searchClient *search.SearchClient, maint *maintenance.Service) *AdminHandler {
	return &AdminHandler{
		db:          db,
		search:      searchClient,
		maintenance: maint,
	}
}

// GetStats returns collection statistics by type and status
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})

	byType := make(map[string]int64)
	for _, t := range models.LineItemTypes {
		var count int64
		h.db.DB().Model(&models.LineItem{}).Where("type = ?", t).Count(&count)
		byType[string(t)] = count
	}
	stats["by_type"] = byType

	var total, archived int64
	h.db.DB().Model(&models.LineItem{}).Count(&total)
	h.db.DB().Model(&models.LineItem{}).Where("status = ?", models.StatusArchived).Count(&archived)
	stats["line_items"] = map[string]interface{}{
		"total":    total,
		"archived": archived,
	}

	c.JSON(http.StatusOK, stats)
}

// RunMaintenance triggers the expiry archiver once, synchronously.
func (h *AdminHandler) RunMaintenance(c *gin.Context) {
	if h.maintenance == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Maintenance service is not available"})
		return
	}

	result, err := h.maintenance.ArchiveExpired(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ReindexAll re-indexes every line item from the database into Meilisearch
func (h *AdminHandler) ReindexAll(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not available"})
		return
	}

	items, err := h.db.GetAllLineItems(c.Request.Context())
	if err != nil {
		log.Printf("[Reindex] Error fetching line items from database: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch line items from database"})
		return
	}

	log.Printf("[Reindex] Found %d line items in database", len(items))

	if err := h.search.IndexLineItems(items); err != nil {
		log.Printf("[Reindex] Error indexing line items: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to index line items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reindex complete",
		"total":   len(items),
	})
}
