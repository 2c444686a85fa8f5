package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneIsDeep(t *testing.T) {
	orig := Claims{
		"foo": "bar",
		"ns":  map[string]any{"tos_v1": map[string]any{"tosId": "tos_v1"}},
	}
	clone, err := orig.Clone()
	require.NoError(t, err)

	clone["ns"].(map[string]any)["tos_v2"] = "x"
	clone["foo"] = "changed"

	assert.Equal(t, "bar", orig["foo"])
	assert.NotContains(t, orig["ns"].(map[string]any), "tos_v2")
}

func TestCloneRejectsUnencodable(t *testing.T) {
	_, err := Claims{"ch": make(chan int)}.Clone()
	require.Error(t, err)
}

func TestDecodeClaims(t *testing.T) {
	c, err := DecodeClaims(nil)
	require.NoError(t, err)
	assert.Empty(t, c)

	c, err = DecodeClaims([]byte("null"))
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = DecodeClaims([]byte("[1,2]"))
	require.Error(t, err)

	c, err = DecodeClaims([]byte(`{"foo":"bar"}`))
	require.NoError(t, err)
	assert.Equal(t, "bar", c["foo"])
}

func TestEncodeNil(t *testing.T) {
	raw, err := Claims(nil).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(raw))
}
