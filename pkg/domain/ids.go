// Package domain provides typed identifiers shared across modules.
package domain

import (
	"strings"

	dErrors "tosgate/pkg/domain-errors"
)

// UserID identifies an authenticated caller. Identity providers issue opaque
// string ids (not necessarily UUIDs), so the type only guarantees non-blankness.
type UserID string

// ParseUserID validates an id at a trust boundary (token claims, test fixtures).
func ParseUserID(s string) (UserID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "user ID cannot be empty")
	}
	return UserID(s), nil
}

func (id UserID) String() string { return string(id) }

// IsNil reports whether no caller identity is present.
func (id UserID) IsNil() bool { return strings.TrimSpace(string(id)) == "" }
