package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var errInvalidDate = errors.New("invalid creation date")

// dateLayouts lists the accepted creationDate string forms, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006, 3:04:05 PM",
	"1/2/2006",
}

// ParseCreationDate reads an optional creationDate. Absent or null yields
// the zero time. Strings are tried against dateLayouts (UTC when no zone is
// given); numbers are Unix epoch milliseconds.
func ParseCreationDate(raw json.RawMessage) (time.Time, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return time.Time{}, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}, nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, errInvalidDate
	}

	var millis int64
	if err := json.Unmarshal(raw, &millis); err == nil {
		return time.UnixMilli(millis).UTC(), nil
	}
	return time.Time{}, errInvalidDate
}
