package search

import (
	"encoding/json"

	"github.com/meilisearch/meilisearch-go"

	"line-item-service/internal/models"
)

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "line_items",
	}
}

// InitIndex initializes the Meilisearch index. The searchable attributes
// mirror the collection's compound text index: title, description, primary
// and secondary categories, and tags.
func (s *SearchClient) InitIndex() error {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"title",
		"description",
		"categories.primary",
		"categories.secondary",
		"tags",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"type",
		"status",
		"visibility",
		"categories.primary",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"createdAt",
		"priority",
	})
	if err != nil {
		return err
	}

	return nil
}

// IndexLineItem indexes a single line item
func (s *SearchClient) IndexLineItem(item *models.LineItem) error {
	_, err := s.client.Index(s.index).AddDocuments([]models.LineItem{*item})
	return err
}

// IndexLineItems indexes multiple line items
func (s *SearchClient) IndexLineItems(items []models.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).AddDocuments(items)
	return err
}

// Search runs a keyword query against the index and returns the matching
// line items.
func (s *SearchClient) Search(query string, limit int64) ([]models.LineItem, error) {
	if limit == 0 {
		limit = 20
	}

	searchRes, err := s.client.Index(s.index).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.LineItem, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		item, err := parseLineItemFromHit(hit)
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// parseLineItemFromHit converts a search hit back into a LineItem. Hits come
// back as generic maps, so round-trip through JSON rather than picking
// fields out by hand.
func parseLineItemFromHit(hit interface{}) (models.LineItem, error) {
	var item models.LineItem
	raw, err := json.Marshal(hit)
	if err != nil {
		return item, err
	}
	err = json.Unmarshal(raw, &item)
	return item, err
}
