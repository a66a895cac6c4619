package database

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"line-item-service/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// LineItemPage is one page of the shared collection, newest first.
type LineItemPage struct {
	TotalItems  int64             `json:"totalItems"`
	TotalPages  int64             `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	PageSize    int               `json:"pageSize"`
	Items       []models.LineItem `json:"items"`
}

// GetLineItemByID retrieves a line item by ID. Soft-deleted items are still
// returned; callers filter by status or audit themselves if they care.
func (gdb *GormDB) GetLineItemByID(ctx context.Context, id string) (*models.LineItem, error) {
	var item models.LineItem
	err := gdb.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListLineItems returns the requested page ordered by created_at descending.
// Skip/limit pagination: a page past the end yields an empty item list, not
// an error.
func (gdb *GormDB) ListLineItems(ctx context.Context, page, limit int) (*LineItemPage, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if limit < 1 || limit > MaxLimit {
		return nil, ErrInvalidLimit
	}

	var totalItems int64
	if err := gdb.db.WithContext(ctx).Model(&models.LineItem{}).Count(&totalItems).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * limit

	items := []models.LineItem{}
	err := gdb.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &LineItemPage{
		TotalItems:  totalItems,
		TotalPages:  int64(math.Ceil(float64(totalItems) / float64(limit))),
		CurrentPage: page,
		PageSize:    limit,
		Items:       items,
	}, nil
}

// BatchCreateLineItems inserts the batch in order, stopping at the first
// document that fails a uniqueness or required-field constraint. There is no
// wrapping transaction: documents before the failure stay committed, so the
// returned slice always holds exactly what was inserted.
func (gdb *GormDB) BatchCreateLineItems(ctx context.Context, items []models.LineItem) ([]models.LineItem, error) {
	created := []models.LineItem{}

	for i := range items {
		item := items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}

		if fieldErrs := item.CheckRequired(); len(fieldErrs) > 0 {
			return created, &DocumentError{Errors: fieldErrs}
		}

		err := gdb.db.WithContext(ctx).Create(&item).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return created, &ConflictError{Field: "id", Value: item.ID}
		}
		if err != nil {
			return created, err
		}

		created = append(created, item)
	}

	return created, nil
}

// protected keys are system-owned and silently stripped from every patch.
var protectedPatchKeys = []string{"createdAt", "updatedAt", "audit"}

// UpdateLineItem applies a partial update: the existing item is loaded,
// system-owned keys are stripped from the patch, the remaining declared
// fields are shallow-merged over the item and the result is saved. The save
// refreshes updatedAt; the patch never can.
func (gdb *GormDB) UpdateLineItem(ctx context.Context, id string, patch map[string]json.RawMessage) (*models.LineItem, error) {
	item, err := gdb.GetLineItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, key := range protectedPatchKeys {
		delete(patch, key)
	}

	if err := item.ApplyPatch(patch); err != nil {
		return nil, err
	}

	if fieldErrs := item.CheckRequired(); len(fieldErrs) > 0 {
		return nil, &DocumentError{Errors: fieldErrs}
	}

	if err := gdb.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}

	return item, nil
}

// FindExpiredLineItems returns items whose expirationDate has passed and that
// are not archived yet.
func (gdb *GormDB) FindExpiredLineItems(ctx context.Context) ([]models.LineItem, error) {
	var items []models.LineItem
	err := gdb.db.WithContext(ctx).
		Where("expiration_date IS NOT NULL AND expiration_date < ? AND (status IS NULL OR status <> ?)",
			gdb.db.NowFunc(), models.StatusArchived).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SaveLineItem persists an already-loaded item as-is.
func (gdb *GormDB) SaveLineItem(ctx context.Context, item *models.LineItem) error {
	return gdb.db.WithContext(ctx).Save(item).Error
}

// GetAllLineItems retrieves the whole collection, newest first.
func (gdb *GormDB) GetAllLineItems(ctx context.Context) ([]models.LineItem, error) {
	var items []models.LineItem
	err := gdb.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}
