package validation

import (
	"encoding/json"

	"line-item-service/internal/models"
)

// Message is a single validation failure reported to the client.
type Message struct {
	Message string `json:"message"`
}

const (
	msgBodyArray   = "Request body should be a non-empty array of LineItems."
	msgTitle       = "title must be a string."
	msgDescription = "description must be a string."
	msgDate        = "date must be a valid ISO8601 date."
	msgType        = "type must be one of event, deathNotice, touristAttraction."
)

// ValidateBatch gates a batch-create request body. The body must be a
// non-empty JSON array; every element must carry a string title, a string
// description, an ISO-8601 date and a known type. Rules run one at a time
// across all elements, so the resulting messages are ordered rule-major.
// When strictAttributes is set, each element's attribute payload is also
// decoded against its type's shape.
//
// A nil return means the batch passed.
func ValidateBatch(body []byte, strictAttributes bool) []Message {
	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil || len(elements) == 0 {
		return []Message{{Message: msgBodyArray}}
	}

	items := make([]map[string]json.RawMessage, len(elements))
	for i, raw := range elements {
		// A non-object element has none of the required fields, which the
		// per-field rules below report. Decode failure just leaves nil.
		_ = json.Unmarshal(raw, &items[i])
	}

	var msgs []Message

	for _, item := range items {
		if !isString(item["title"]) {
			msgs = append(msgs, Message{Message: msgTitle})
		}
	}
	for _, item := range items {
		if !isString(item["description"]) {
			msgs = append(msgs, Message{Message: msgDescription})
		}
	}
	for _, item := range items {
		if !isISO8601(item["date"]) {
			msgs = append(msgs, Message{Message: msgDate})
		}
	}
	for _, item := range items {
		if !isLineItemType(item["type"]) {
			msgs = append(msgs, Message{Message: msgType})
		}
	}

	if strictAttributes {
		for _, item := range items {
			var t models.LineItemType
			if err := json.Unmarshal(item["type"], &t); err != nil || !t.IsValid() {
				continue // the type rule already fired
			}
			if _, errs := models.DecodeAttributes(t, item["attributes"]); errs != nil {
				for _, fe := range errs {
					msgs = append(msgs, Message{Message: fe.Message})
				}
			}
		}
	}

	return msgs
}

func isString(raw json.RawMessage) bool {
	var s string
	return raw != nil && json.Unmarshal(raw, &s) == nil
}

// isISO8601 accepts exactly the shapes the model's date fields decode, so a
// batch that passes here can never fail on date parsing downstream.
func isISO8601(raw json.RawMessage) bool {
	var s string
	if raw == nil || json.Unmarshal(raw, &s) != nil {
		return false
	}
	_, err := models.ParseISO8601(s)
	return err == nil
}

func isLineItemType(raw json.RawMessage) bool {
	var s string
	if raw == nil || json.Unmarshal(raw, &s) != nil {
		return false
	}
	return models.LineItemType(s).IsValid()
}
