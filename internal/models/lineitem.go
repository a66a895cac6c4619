package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// LineItem is a polymorphic content record. All three variants live in the
// same table; Type selects which attribute payload is valid. Nested
// structures are stored as JSON columns, attributes as an unconstrained
// JSON payload (shape checks happen at the boundary, not in the schema).
type LineItem struct {
	// 識別情報
	ID          string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string       `gorm:"type:text;not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Date        ISOTime      `gorm:"not null" json:"date"`
	Type        LineItemType `gorm:"type:varchar(32);not null;index" json:"type"`

	// 連絡先・位置情報
	Phone     string   `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Email     string   `gorm:"type:varchar(255)" json:"email,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Images Images `gorm:"serializer:json" json:"images"`

	// 公開管理
	Status          LineItemStatus `gorm:"type:varchar(20);index" json:"status,omitempty"`
	Tags            []string       `gorm:"serializer:json" json:"tags,omitempty"`
	AuthorID        string         `gorm:"type:varchar(64)" json:"authorId,omitempty"`
	URLSlug         string         `gorm:"type:varchar(255)" json:"urlSlug,omitempty"`
	Visibility      Visibility     `gorm:"type:varchar(20)" json:"visibility,omitempty"`
	MetaDescription string         `gorm:"type:text" json:"metaDescription,omitempty"`
	ExpirationDate  *ISOTime       `gorm:"index" json:"expirationDate,omitempty"`
	Priority        *float64       `json:"priority,omitempty"`
	ExternalLinks   []string       `gorm:"serializer:json" json:"externalLinks,omitempty"`

	Audit      *AuditInfo    `gorm:"serializer:json" json:"audit,omitempty"`
	Categories Categories    `gorm:"serializer:json" json:"categories"`
	SEO        *SEOInfo      `gorm:"serializer:json;column:seo" json:"seo,omitempty"`
	Metadata   *ItemMetadata `gorm:"serializer:json" json:"metadata,omitempty"`

	// 型別の可変ペイロード（スキーマでは形を固定しない）
	Attributes datatypes.JSON `gorm:"not null" json:"attributes"`

	// タイムスタンプ
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_line_items_created_at,sort:desc" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// LineItemType discriminates the attribute payload.
type LineItemType string

const (
	TypeEvent             LineItemType = "event"
	TypeDeathNotice       LineItemType = "deathNotice"
	TypeTouristAttraction LineItemType = "touristAttraction"
)

// LineItemTypes lists the valid discriminator values in declaration order.
var LineItemTypes = []LineItemType{TypeEvent, TypeDeathNotice, TypeTouristAttraction}

// IsValid reports whether t is one of the known discriminator values.
func (t LineItemType) IsValid() bool {
	switch t {
	case TypeEvent, TypeDeathNotice, TypeTouristAttraction:
		return true
	}
	return false
}

// LineItemStatus は掲載ステータス
type LineItemStatus string

const (
	StatusActive   LineItemStatus = "active"
	StatusInactive LineItemStatus = "inactive"
	StatusArchived LineItemStatus = "archived"
)

// IsValid reports whether s is a known status value.
func (s LineItemStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusArchived:
		return true
	}
	return false
}

// Visibility controls who can see a line item.
type Visibility string

const (
	VisibilityPublic     Visibility = "public"
	VisibilityPrivate    Visibility = "private"
	VisibilityRestricted Visibility = "restricted"
)

// IsValid reports whether v is a known visibility value.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityRestricted:
		return true
	}
	return false
}

// FeatureImages holds the per-device feature image URLs.
type FeatureImages struct {
	Mobile  string `json:"mobile"`
	Desktop string `json:"desktop"`
}

// Images is the required image structure shared by all variants.
type Images struct {
	Thumbnail string        `json:"thumbnail"`
	Feature   FeatureImages `json:"feature"`
	Gallery   []string      `json:"gallery,omitempty"`
}

// AuditInfo tracks who created, modified and soft-deleted a line item.
// Deletion is modeled through DeletedBy/DeletedAt plus Status, never by
// physical removal.
type AuditInfo struct {
	CreatedBy  string     `json:"createdBy"`
	ModifiedBy string     `json:"modifiedBy,omitempty"`
	DeletedBy  string     `json:"deletedBy,omitempty"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
}

// Categories holds the primary and secondary classification.
type Categories struct {
	Primary   string   `json:"primary"`
	Secondary []string `json:"secondary,omitempty"`
}

// SEOInfo holds search-engine metadata.
type SEOInfo struct {
	Title          string         `json:"title,omitempty"`
	Description    string         `json:"description,omitempty"`
	Keywords       []string       `json:"keywords,omitempty"`
	CanonicalURL   string         `json:"canonicalUrl,omitempty"`
	Robots         string         `json:"robots,omitempty"`
	OGImage        string         `json:"ogImage,omitempty"`
	StructuredData map[string]any `json:"structuredData,omitempty"`
}

// ItemMetadata holds editorial flags and counters.
type ItemMetadata struct {
	IsTemplate   bool           `json:"isTemplate"`
	IsFeatured   bool           `json:"isFeatured"`
	IsSponsored  bool           `json:"isSponsored"`
	ViewCount    int64          `json:"viewCount"`
	Score        float64        `json:"score"`
	CustomFields map[string]any `json:"customFields,omitempty"`
}

// TableName はテーブル名を明示的に指定
func (LineItem) TableName() string {
	return "line_items"
}

// IsDeleted reports whether the item has been soft-deleted.
func (li *LineItem) IsDeleted() bool {
	return li.Audit != nil && li.Audit.DeletedAt != nil
}

// MarkArchived soft-deletes the item: sets the archived status and stamps
// the audit trail. The record itself is never removed.
func (li *LineItem) MarkArchived(by string) {
	li.Status = StatusArchived
	now := time.Now()
	if li.Audit == nil {
		li.Audit = &AuditInfo{CreatedBy: by}
	}
	li.Audit.DeletedBy = by
	li.Audit.DeletedAt = &now
}

// FieldError reports a single offending field in a document.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func requiredError(path string) FieldError {
	return FieldError{Field: path, Message: fmt.Sprintf("Path `%s` is required.", path)}
}

func enumError(path string, value any) FieldError {
	return FieldError{Field: path, Message: fmt.Sprintf("`%v` is not a valid enum value for path `%s`.", value, path)}
}

// CheckRequired enforces the document-level constraints the storage layer
// owns: required envelope fields and enum membership. It does not inspect
// the attribute payload shape.
func (li *LineItem) CheckRequired() []FieldError {
	var errs []FieldError

	if li.Title == "" {
		errs = append(errs, requiredError("title"))
	}
	if li.Description == "" {
		errs = append(errs, requiredError("description"))
	}
	if li.Date.IsZero() {
		errs = append(errs, requiredError("date"))
	}
	if li.Type == "" {
		errs = append(errs, requiredError("type"))
	} else if !li.Type.IsValid() {
		errs = append(errs, enumError("type", li.Type))
	}
	if li.Images.Thumbnail == "" {
		errs = append(errs, requiredError("images.thumbnail"))
	}
	if li.Images.Feature.Mobile == "" {
		errs = append(errs, requiredError("images.feature.mobile"))
	}
	if li.Images.Feature.Desktop == "" {
		errs = append(errs, requiredError("images.feature.desktop"))
	}
	if li.Audit == nil || li.Audit.CreatedBy == "" {
		errs = append(errs, requiredError("audit.createdBy"))
	}
	if li.Categories.Primary == "" {
		errs = append(errs, requiredError("categories.primary"))
	}
	if len(li.Attributes) == 0 {
		errs = append(errs, requiredError("attributes"))
	}
	if li.Status != "" && !li.Status.IsValid() {
		errs = append(errs, enumError("status", li.Status))
	}
	if li.Visibility != "" && !li.Visibility.IsValid() {
		errs = append(errs, enumError("visibility", li.Visibility))
	}

	return errs
}
