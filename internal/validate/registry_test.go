package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryForUnsupportedLanguage(t *testing.T) {
	r := NewRegistry(map[string]Validator{})

	_, err := r.For("cobol")
	var unsupported *UnsupportedLanguageError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "cobol", unsupported.Language)
}

func TestDefaultRegistry(t *testing.T) {
	st := openTestStore(t)
	r := DefaultRegistry(st)

	v, err := r.For("typescript")
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.Equal(t, []string{"typescript"}, r.Languages())
}

func TestLoadRegistry(t *testing.T) {
	st := openTestStore(t)
	path := filepath.Join(t.TempDir(), "validators.yml")
	require.NoError(t, os.WriteFile(path, []byte(`validators:
  typescript:
    tool: /opt/tools/tsc
`), 0o644))

	r, err := LoadRegistry(path, st)
	require.NoError(t, err)

	_, err = r.For("typescript")
	assert.NoError(t, err)
}

func TestLoadRegistryUnknownLanguage(t *testing.T) {
	st := openTestStore(t)
	path := filepath.Join(t.TempDir(), "validators.yml")
	require.NoError(t, os.WriteFile(path, []byte(`validators:
  fortran:
    tool: f77
`), 0o644))

	_, err := LoadRegistry(path, st)
	assert.Error(t, err)
}

func TestLoadRegistryMissingFile(t *testing.T) {
	st := openTestStore(t)
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "absent.yml"), st)
	assert.Error(t, err)
}

func TestLoadRegistryMalformedYAML(t *testing.T) {
	st := openTestStore(t)
	path := filepath.Join(t.TempDir(), "validators.yml")
	require.NoError(t, os.WriteFile(path, []byte("validators: [not: a: map"), 0o644))

	_, err := LoadRegistry(path, st)
	assert.Error(t, err)
}
