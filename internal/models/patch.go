package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// ApplyPatch copies the declared fields present in patch onto the item.
// The merge is shallow: a key that appears in the patch replaces the whole
// field, keys absent from the patch leave the field untouched, and keys
// outside the allowlist are ignored. `id` and `type` are immutable and the
// system-owned `createdAt`/`updatedAt`/`audit` have no case here, so a
// patch can never reach them.
func (li *LineItem) ApplyPatch(patch map[string]json.RawMessage) error {
	for key, raw := range patch {
		var err error
		switch key {
		case "title":
			err = json.Unmarshal(raw, &li.Title)
		case "description":
			err = json.Unmarshal(raw, &li.Description)
		case "date":
			err = json.Unmarshal(raw, &li.Date)
		case "phone":
			err = json.Unmarshal(raw, &li.Phone)
		case "email":
			err = json.Unmarshal(raw, &li.Email)
		case "latitude":
			li.Latitude = nil
			err = json.Unmarshal(raw, &li.Latitude)
		case "longitude":
			li.Longitude = nil
			err = json.Unmarshal(raw, &li.Longitude)
		case "images":
			li.Images = Images{}
			err = json.Unmarshal(raw, &li.Images)
		case "status":
			err = json.Unmarshal(raw, &li.Status)
		case "tags":
			li.Tags = nil
			err = json.Unmarshal(raw, &li.Tags)
		case "authorId":
			err = json.Unmarshal(raw, &li.AuthorID)
		case "urlSlug":
			err = json.Unmarshal(raw, &li.URLSlug)
		case "visibility":
			err = json.Unmarshal(raw, &li.Visibility)
		case "metaDescription":
			err = json.Unmarshal(raw, &li.MetaDescription)
		case "expirationDate":
			li.ExpirationDate = nil
			err = json.Unmarshal(raw, &li.ExpirationDate)
		case "priority":
			li.Priority = nil
			err = json.Unmarshal(raw, &li.Priority)
		case "externalLinks":
			li.ExternalLinks = nil
			err = json.Unmarshal(raw, &li.ExternalLinks)
		case "categories":
			li.Categories = Categories{}
			err = json.Unmarshal(raw, &li.Categories)
		case "seo":
			li.SEO = nil
			err = json.Unmarshal(raw, &li.SEO)
		case "metadata":
			li.Metadata = nil
			err = json.Unmarshal(raw, &li.Metadata)
		case "attributes":
			li.Attributes = datatypes.JSON(raw)
		default:
			// Unknown or protected key: ignore.
		}
		if err != nil {
			return fmt.Errorf("invalid value for field %s: %w", key, err)
		}
	}
	return nil
}
