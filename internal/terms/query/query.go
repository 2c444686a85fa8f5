// Package query matches terms documents against caller supplied predicates.
//
// A predicate maps a field to an expected value. Plain keys match the
// document's top-level field or the same key on any noticeType entry, so
// {"role": "publisher"} selects documents that carry a publisher notice.
// Keys containing '.' or '#' are gjson paths evaluated against the
// document's JSON form. Values compare by JSON equality.
package query

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"tosgate/internal/terms/models"
)

// Predicate is a set of field/value pairs that must all match.
type Predicate map[string]any

// Match reports whether doc satisfies every entry of p. An empty predicate matches.
func Match(doc *models.TermsDocument, p Predicate) bool {
	if doc == nil {
		return false
	}
	if len(p) == 0 {
		return true
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return false
	}
	return matchJSON(raw, p)
}

// Filter returns the documents satisfying p ordered by tosId. It never returns nil.
func Filter(docs []*models.TermsDocument, p Predicate) []*models.TermsDocument {
	out := make([]*models.TermsDocument, 0, len(docs))
	for _, doc := range docs {
		if Match(doc, p) {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TosID < out[j].TosID })
	return out
}

func matchJSON(raw []byte, p Predicate) bool {
	for key, want := range p {
		expected, ok := normalize(want)
		if !ok || !matchKey(raw, key, expected) {
			return false
		}
	}
	return true
}

func matchKey(raw []byte, key string, expected any) bool {
	if isPath(key) {
		return anyEqual(gjson.GetBytes(raw, key), strings.Contains(key, "#"), expected)
	}
	escaped := gjson.Escape(key)
	if anyEqual(gjson.GetBytes(raw, escaped), false, expected) {
		return true
	}
	return anyEqual(gjson.GetBytes(raw, "noticeType.#."+escaped), true, expected)
}

func isPath(key string) bool {
	return strings.ContainsAny(key, ".#")
}

// anyEqual compares res to expected. When fanout is set, res is the array
// produced by a '#' query and any element may match.
func anyEqual(res gjson.Result, fanout bool, expected any) bool {
	if !res.Exists() {
		return false
	}
	if fanout && res.IsArray() {
		for _, elem := range res.Array() {
			if reflect.DeepEqual(elem.Value(), expected) {
				return true
			}
		}
		return false
	}
	return reflect.DeepEqual(res.Value(), expected)
}

// normalize converts a caller value into the shape gjson produces
// (float64 numbers, map[string]any objects, []any arrays).
func normalize(v any) (any, bool) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}
