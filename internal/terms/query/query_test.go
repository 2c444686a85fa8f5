package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tosgate/internal/terms/models"
)

func docs() []*models.TermsDocument {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []*models.TermsDocument{
		{TosID: "tos_v2", Link: "www.link.to.terms/v2", CreationDate: created, NoticeType: models.NoticeType{}},
		{TosID: "tos_v1", Link: "www.link.to.terms", CreationDate: created, NoticeType: models.NoticeType{
			{"role": "publisher", "version": 2},
		}},
		{TosID: "tos_v3", Link: "www.link.to.terms/v3", CreationDate: created, NoticeType: models.NoticeType{
			{"role": "banner"},
			{"role": "publisher", "locale": map[string]any{"lang": "en"}},
		}},
	}
}

func ids(in []*models.TermsDocument) []string {
	out := make([]string, 0, len(in))
	for _, d := range in {
		out = append(out, d.TosID)
	}
	return out
}

func TestFilterEmptyPredicateReturnsAllSorted(t *testing.T) {
	got := Filter(docs(), nil)
	assert.Equal(t, []string{"tos_v1", "tos_v2", "tos_v3"}, ids(got))
}

func TestFilterPlainKeyMatchesNestedNoticeField(t *testing.T) {
	got := Filter(docs(), Predicate{"role": "publisher"})
	assert.Equal(t, []string{"tos_v1", "tos_v3"}, ids(got))

	got = Filter(docs(), Predicate{"role": "banner"})
	assert.Equal(t, []string{"tos_v3"}, ids(got))
}

func TestFilterPlainKeyMatchesTopLevelField(t *testing.T) {
	got := Filter(docs(), Predicate{"link": "www.link.to.terms"})
	assert.Equal(t, []string{"tos_v1"}, ids(got))

	got = Filter(docs(), Predicate{"tosId": "tos_v2"})
	assert.Equal(t, []string{"tos_v2"}, ids(got))
}

func TestFilterAllEntriesMustMatch(t *testing.T) {
	got := Filter(docs(), Predicate{"role": "publisher", "link": "www.link.to.terms"})
	assert.Equal(t, []string{"tos_v1"}, ids(got))
}

func TestFilterNumbersCompareByJSONValue(t *testing.T) {
	got := Filter(docs(), Predicate{"version": 2})
	assert.Equal(t, []string{"tos_v1"}, ids(got))

	got = Filter(docs(), Predicate{"version": "2"})
	assert.Empty(t, got, "a string never equals a number")
}

func TestFilterGJSONPaths(t *testing.T) {
	got := Filter(docs(), Predicate{"noticeType.0.role": "banner"})
	assert.Equal(t, []string{"tos_v3"}, ids(got))

	got = Filter(docs(), Predicate{"noticeType.#.locale.lang": "en"})
	assert.Equal(t, []string{"tos_v3"}, ids(got))

	got = Filter(docs(), Predicate{"noticeType.#": 0})
	assert.Equal(t, []string{"tos_v2"}, ids(got))
}

func TestFilterObjectValues(t *testing.T) {
	got := Filter(docs(), Predicate{"locale": map[string]string{"lang": "en"}})
	assert.Equal(t, []string{"tos_v3"}, ids(got))
}

func TestFilterNoMatchIsEmptyNotNil(t *testing.T) {
	got := Filter(docs(), Predicate{"role": "auditor"})
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = Filter(nil, Predicate{"role": "auditor"})
	require.NotNil(t, got)
}

func TestMatchSpecialCharactersInPlainKey(t *testing.T) {
	doc := &models.TermsDocument{TosID: "x", NoticeType: models.NoticeType{{"a*b": "v"}}}
	assert.True(t, Match(doc, Predicate{"a*b": "v"}))
	assert.False(t, Match(doc, Predicate{"a*b": "w"}))
}

func TestMatchUnencodableValueNeverMatches(t *testing.T) {
	assert.False(t, Match(docs()[0], Predicate{"role": make(chan int)}))
	assert.False(t, Match(nil, nil))
}
