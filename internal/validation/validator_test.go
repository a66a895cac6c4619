package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messages(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Message
	}
	return out
}

func TestValidateBatchAcceptsValidItems(t *testing.T) {
	body := []byte(`[
		{"title":"Fall Fair","description":"Annual fair","date":"2025-10-01T00:00:00Z","type":"event"},
		{"title":"Jane Doe","description":"Obituary","date":"2025-11-02","type":"deathNotice"}
	]`)

	assert.Nil(t, ValidateBatch(body, false))
}

func TestValidateBatchRejectsNonArrayBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"object", `{"title":"Fall Fair"}`},
		{"empty array", `[]`},
		{"string", `"hello"`},
		{"not json", `{{{`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := ValidateBatch([]byte(tt.body), false)
			require.Len(t, msgs, 1)
			assert.Equal(t, msgBodyArray, msgs[0].Message)
		})
	}
}

func TestValidateBatchFieldRules(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing title", `[{"description":"d","date":"2025-10-01T00:00:00Z","type":"event"}]`, msgTitle},
		{"numeric title", `[{"title":7,"description":"d","date":"2025-10-01T00:00:00Z","type":"event"}]`, msgTitle},
		{"missing description", `[{"title":"t","date":"2025-10-01T00:00:00Z","type":"event"}]`, msgDescription},
		{"missing date", `[{"title":"t","description":"d","type":"event"}]`, msgDate},
		{"malformed date", `[{"title":"t","description":"d","date":"October 1st","type":"event"}]`, msgDate},
		{"missing type", `[{"title":"t","description":"d","date":"2025-10-01T00:00:00Z"}]`, msgType},
		{"unknown type", `[{"title":"t","description":"d","date":"2025-10-01T00:00:00Z","type":"concert"}]`, msgType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := ValidateBatch([]byte(tt.body), false)
			require.Len(t, msgs, 1)
			assert.Equal(t, tt.want, msgs[0].Message)
		})
	}
}

func TestValidateBatchOrdersMessagesRuleMajor(t *testing.T) {
	// Element 0 misses title and type, element 1 misses description: all
	// title failures come first, then description, date, type.
	body := []byte(`[
		{"description":"d","date":"2025-10-01T00:00:00Z"},
		{"title":"t","date":"2025-10-01T00:00:00Z","type":"event"}
	]`)

	msgs := ValidateBatch(body, false)
	assert.Equal(t, []string{msgTitle, msgDescription, msgType}, messages(msgs))
}

func TestValidateBatchNonObjectElementFailsEveryRule(t *testing.T) {
	msgs := ValidateBatch([]byte(`[42]`), false)
	assert.Equal(t, []string{msgTitle, msgDescription, msgDate, msgType}, messages(msgs))
}

func TestValidateBatchISO8601Variants(t *testing.T) {
	accepted := []string{
		"2025-10-01T00:00:00Z",
		"2025-10-01T00:00:00.123Z",
		"2025-10-01T09:30:00+09:00",
		"2025-10-01T09:30:00",
		"2025-10-01",
	}
	for _, date := range accepted {
		body := []byte(`[{"title":"t","description":"d","date":"` + date + `","type":"event"}]`)
		assert.Nil(t, ValidateBatch(body, false), "date %s should be accepted", date)
	}

	rejected := []string{"01/10/2025", "2025-13-40", "today", ""}
	for _, date := range rejected {
		body := []byte(`[{"title":"t","description":"d","date":"` + date + `","type":"event"}]`)
		msgs := ValidateBatch(body, false)
		require.Len(t, msgs, 1, "date %s should be rejected", date)
		assert.Equal(t, msgDate, msgs[0].Message)
	}
}

func TestValidateBatchStrictAttributes(t *testing.T) {
	body := []byte(`[{"title":"t","description":"d","date":"2025-10-01T00:00:00Z","type":"event","attributes":{"location":"Hall"}}]`)

	// Loose mode never inspects attributes.
	assert.Nil(t, ValidateBatch(body, false))

	msgs := ValidateBatch(body, true)
	require.Len(t, msgs, 3)
	assert.Contains(t, msgs[0].Message, "attributes.startTime")
}

func TestValidateBatchStrictAttributesMissingPayload(t *testing.T) {
	body := []byte(`[{"title":"t","description":"d","date":"2025-10-01T00:00:00Z","type":"event"}]`)

	msgs := ValidateBatch(body, true)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Message, "attributes")
}

func TestValidateBatchStrictSkipsAttributeCheckOnBadType(t *testing.T) {
	body := []byte(`[{"title":"t","description":"d","date":"2025-10-01T00:00:00Z","type":"concert"}]`)

	msgs := ValidateBatch(body, true)
	require.Len(t, msgs, 1)
	assert.Equal(t, msgType, msgs[0].Message)
}
