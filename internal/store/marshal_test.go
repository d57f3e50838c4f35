package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalDepsNilIsEmptyArray(t *testing.T) {
	raw, err := marshalDeps(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	raw, err = marshalDeps([]string{})
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestMarshalDepsRoundtrip(t *testing.T) {
	raw, err := marshalDeps([]string{"Auth", "Billing"})
	require.NoError(t, err)

	deps, err := unmarshalDeps(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Auth", "Billing"}, deps)
}

func TestUnmarshalDepsEmptyForms(t *testing.T) {
	for _, raw := range []string{"", "[]"} {
		deps, err := unmarshalDeps(raw)
		require.NoError(t, err)
		assert.Nil(t, deps)
	}
}

func TestUnmarshalDepsInvalid(t *testing.T) {
	_, err := unmarshalDeps("{not json")
	assert.Error(t, err)
}
