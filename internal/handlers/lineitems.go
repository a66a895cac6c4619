package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"line-item-service/internal/database"
	"line-item-service/internal/models"
	"line-item-service/internal/search"
	"line-item-service/internal/validation"
)

// LineItemHandler handles line-item requests
type LineItemHandler struct {
	db               *database.GormDB
	search           *search.SearchClient
	strictAttributes bool
}

// NewLineItemHandler creates a new line-item handler. search may be nil when
// no search backend is configured; indexing is then skipped.
func NewLineItemHandler(db *database.GormDB, searchClient *search.SearchClient, strictAttributes bool) *LineItemHandler {
	return &LineItemHandler{
		db:               db,
		search:           searchClient,
		strictAttributes: strictAttributes,
	}
}

// GetLineItem fetches a single line item by its ID.
func (h *LineItemHandler) GetLineItem(c *gin.Context) {
	id := c.Param("id")

	item, err := h.db.GetLineItemByID(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "LineItem not found."})
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// ListLineItems fetches line items with skip/limit pagination.
// Query parameters: page (default 1), limit (default 10, max 100).
func (h *LineItemHandler) ListLineItems(c *gin.Context) {
	page, pageErr := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(database.DefaultPage)))
	if pageErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid page number."})
		return
	}

	limit, limitErr := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(database.DefaultLimit)))
	if limitErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid limit number. Must be between 1 and 100."})
		return
	}

	result, err := h.db.ListLineItems(c.Request.Context(), page, limit)
	if errors.Is(err, database.ErrInvalidPage) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid page number."})
		return
	}
	if errors.Is(err, database.ErrInvalidLimit) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid limit number. Must be between 1 and 100."})
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateLineItems creates multiple line items from an array body. Insertion
// is ordered and fail-fast: elements before the first failing one stay
// committed.
func (h *LineItemHandler) CreateLineItems(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.internalError(c, err)
		return
	}

	if msgs := validation.ValidateBatch(body, h.strictAttributes); msgs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": msgs})
		return
	}

	var items []models.LineItem
	if err := json.Unmarshal(body, &items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed.",
			"errors":  []models.FieldError{{Field: "body", Message: err.Error()}},
		})
		return
	}

	created, err := h.db.BatchCreateLineItems(c.Request.Context(), items)
	if err != nil {
		var conflict *database.ConflictError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": fmt.Sprintf("Duplicate value for %s: %s. Each LineItem must have a unique %s.",
					conflict.Field, conflict.Value, conflict.Field),
			})
			return
		}

		var docErr *database.DocumentError
		if errors.As(err, &docErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Validation failed.",
				"errors":  docErr.Errors,
			})
			return
		}

		h.internalError(c, err)
		return
	}

	h.indexItems(created)

	response := make([]gin.H, 0, len(created))
	for _, item := range created {
		response = append(response, gin.H{"id": item.ID, "title": item.Title})
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "LineItems created successfully.",
		"items":   response,
	})
}

// UpdateLineItem applies a partial update to a line item by its ID.
func (h *LineItemHandler) UpdateLineItem(c *gin.Context) {
	id := c.Param("id")

	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed.",
			"errors":  []models.FieldError{{Field: "body", Message: "request body must be a JSON object."}},
		})
		return
	}

	item, err := h.db.UpdateLineItem(c.Request.Context(), id, patch)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "LineItem not found."})
		return
	}
	if err != nil {
		var docErr *database.DocumentError
		if errors.As(err, &docErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Validation failed.",
				"errors":  docErr.Errors,
			})
			return
		}

		h.internalError(c, err)
		return
	}

	h.indexItems([]models.LineItem{*item})

	c.JSON(http.StatusOK, gin.H{
		"message":  "LineItem updated successfully.",
		"lineItem": item,
	})
}

// SearchLineItems runs a keyword query against the search index. With no
// query it falls back to the whole collection from the database.
func (h *LineItemHandler) SearchLineItems(c *gin.Context) {
	query := c.Query("q")

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit < 1 {
		limit = 20
	}

	if query == "" || h.search == nil {
		items, err := h.db.GetAllLineItems(c.Request.Context())
		if err != nil {
			h.internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
		return
	}

	items, err := h.search.Search(query, limit)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// indexItems pushes items into the search index. Index failures are logged
// and swallowed; the write already succeeded.
func (h *LineItemHandler) indexItems(items []models.LineItem) {
	if h.search == nil || len(items) == 0 {
		return
	}
	if err := h.search.IndexLineItems(items); err != nil {
		log.Printf("Warning: Failed to index %d line items: %v", len(items), err)
	}
}

func (h *LineItemHandler) internalError(c *gin.Context, err error) {
	log.Printf("Unhandled error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error."})
}
