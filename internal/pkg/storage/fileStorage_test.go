package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorageRoundTrip(t *testing.T) {
	s := NewFileStorage(t.TempDir())

	require.NoError(t, s.Save("exports/meme.png", strings.NewReader("png")))
	assert.True(t, s.Exists("exports/meme.png"))

	r, err := s.Get("exports/meme.png")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "png", string(data))

	require.NoError(t, s.Delete("exports/meme.png"))
	assert.False(t, s.Exists("exports/meme.png"))
}

func TestFileStorageRejectsEscapes(t *testing.T) {
	s := NewFileStorage(t.TempDir())

	err := s.Save("../outside.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrOutsideBase)
	assert.False(t, s.Exists("../outside.png"))
}
