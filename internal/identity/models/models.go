// Package models defines the per-user claims document owned by the identity provider.
package models

import (
	"encoding/json"
	"fmt"

	id "tosgate/pkg/domain"
)

// Claims is an open-ended claims document. Keys other than the ones a caller
// owns must be carried through unchanged on every write.
type Claims map[string]any

// Record is a user's claims document at a specific version. Version 0 means
// the user has no stored claims yet.
type Record struct {
	UserID  id.UserID
	Claims  Claims
	Version int64
}

// Clone returns a deep copy by round-tripping through JSON, which is also the
// persisted form. Values that cannot be encoded are reported, not dropped.
func (c Claims) Clone() (Claims, error) {
	if c == nil {
		return Claims{}, nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode claims: %w", err)
	}
	return DecodeClaims(raw)
}

// DecodeClaims parses a persisted claims document. Empty input is an empty document.
func DecodeClaims(raw []byte) (Claims, error) {
	out := Claims{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	if out == nil {
		out = Claims{}
	}
	return out, nil
}

// Encode returns the persisted form of the claims document.
func (c Claims) Encode() ([]byte, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode claims: %w", err)
	}
	return raw, nil
}
