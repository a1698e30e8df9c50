package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMmap_OpenReadClose(t *testing.T) {
	content := []byte("Hello, Mmap!")
	path := filepath.Join(t.TempDir(), "ro.img")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, len(content), m.Size())
	assert.Equal(t, content, m.Bytes())

	buf := make([]byte, 5)
	n, err := m.ReadAt(buf, 7)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "Mmap!", string(buf))

	n, err = m.ReadAt(make([]byte, 10), 100)
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)

	_, err = m.ReadAt(buf, -1)
	assert.Equal(t, ErrInvalidOffset, err)

	_, err = m.WriteAt([]byte("x"), 0)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestMmap_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.img")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 0, m.Size())
	assert.Nil(t, m.Bytes())
}

func TestMmap_WritablePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "array.img")

	m, err := OpenWritable(path, 4096)
	require.NoError(t, err)
	assert.Equal(t, 4096, m.Size())

	n, err := m.WriteAt([]byte("block"), 1024)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = m.WriteAt(make([]byte, 10), 4090)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	require.NoError(t, m.Sync())
	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "close must be idempotent")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 4096)
	assert.Equal(t, "block", string(data[1024:1029]))

	// Reopening keeps existing content
	m, err = OpenWritable(path, 4096)
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, "block", string(m.Bytes()[1024:1029]))
}

func TestMmap_Region(t *testing.T) {
	path := filepath.Join(t.TempDir(), "array.img")
	m, err := OpenWritable(path, 1024)
	require.NoError(t, err)
	defer m.Close()

	r, err := m.Region(256, 256)
	require.NoError(t, err)
	assert.Equal(t, 256, r.Size())
	require.NoError(t, r.Advise(AccessRandom))
	require.NoError(t, m.Advise(AccessSequential))
	require.NoError(t, m.Advise(AccessDefault))

	_, err = r.WriteAt([]byte("abc"), 10)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(m.Bytes()[266:269]))

	buf := make([]byte, 3)
	_, err = r.ReadAt(buf, 10)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf))

	_, err = r.WriteAt(make([]byte, 10), 250)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = m.Region(1000, 100)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	require.NoError(t, m.Close())
	assert.Nil(t, r.Bytes())
	_, err = m.Region(0, 1)
	assert.ErrorIs(t, err, ErrClosed)
}
