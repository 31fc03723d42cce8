package viewer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenResolvesAbsolutePath(t *testing.T) {
	var got string
	b := &Browser{open: func(p string) error { got = p; return nil }}

	require.NoError(t, b.Open("lahore_map.html"))
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "lahore_map.html", filepath.Base(got))
}

func TestOpenWrapsHandlerError(t *testing.T) {
	b := &Browser{open: func(string) error { return errors.New("no handler") }}

	err := b.Open("/tmp/map.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "viewer: open /tmp/map.html")
	assert.Contains(t, err.Error(), "no handler")
}

func TestNewUsesBrowser(t *testing.T) {
	assert.NotNil(t, New().open)
}
