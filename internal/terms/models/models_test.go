package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoticeType(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ok   bool
		len  int
	}{
		{"absent", "", false, 0},
		{"null", "null", false, 0},
		{"empty list", "[]", true, 0},
		{"list of objects", `[{"role":"publisher"},{"role":"banner","version":2}]`, true, 2},
		{"object", `{"role":"publisher"}`, false, 0},
		{"string", `"publisher"`, false, 0},
		{"list with scalar", `[{"role":"publisher"}, 3]`, false, 0},
		{"list with nested list", `[[{"role":"publisher"}]]`, false, 0},
		{"list with null", `[null]`, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseNoticeType(json.RawMessage(tc.raw))
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.NotNil(t, got)
				assert.Len(t, got, tc.len)
			}
		})
	}
}

func TestParseNoticeTypePreservesOrderAndKeys(t *testing.T) {
	got, ok := ParseNoticeType(json.RawMessage(`[{"role":"b","extra":{"x":1}},{"role":"a"}]`))
	require.True(t, ok)
	assert.Equal(t, "b", got[0]["role"])
	assert.Equal(t, map[string]any{"x": float64(1)}, got[0]["extra"])
	assert.Equal(t, "a", got[1]["role"])
}

func TestParseCreationDate(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"absent", "", time.Time{}},
		{"null", "null", time.Time{}},
		{"rfc3339", `"2024-03-01T10:20:30Z"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"rfc3339 with offset", `"2024-03-01T12:20:30+02:00"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"date only", `"2024-03-01"`, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"locale date", `"3/1/2024"`, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"locale date time", `"3/1/2024, 1:05:00 PM"`, time.Date(2024, 3, 1, 13, 5, 0, 0, time.UTC)},
		{"epoch millis", `1709288430000`, time.UnixMilli(1709288430000).UTC()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCreationDate(json.RawMessage(tc.raw))
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "want %v got %v", tc.want, got)
		})
	}

	_, err := ParseCreationDate(json.RawMessage(`"yesterday"`))
	assert.Error(t, err)
	_, err = ParseCreationDate(json.RawMessage(`{"seconds":1}`))
	assert.Error(t, err)
}

func TestDocumentJSONHasNoAcceptanceDate(t *testing.T) {
	doc := TermsDocument{TosID: "tos_v1", Link: "www.link.to.terms", CreationDate: time.Now(), NoticeType: NoticeType{}}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "acceptanceDate")
	assert.Equal(t, []any{}, fields["noticeType"])
	assert.Equal(t, "terms/agreements/tos/tos_v1", doc.Path())
}

func TestAcknowledgementSetOnly(t *testing.T) {
	set := AcknowledgementSet{
		"tos_v1": {TosID: "tos_v1"},
		"tos_v2": {TosID: "tos_v2"},
	}
	assert.Equal(t, AcknowledgementSet{"tos_v1": {TosID: "tos_v1"}}, set.Only("tos_v1"))
	assert.Empty(t, set.Only("tos_v9"))
	assert.NotNil(t, set.Only("tos_v9"))
}
