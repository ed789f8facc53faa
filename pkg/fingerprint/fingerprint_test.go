package fingerprint

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/oneconcern/tico/internal/rand"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashIsDeterministic(t *testing.T) {
	m := New()

	h1, err := m.HashBytes([]byte("hello"))
	require.NoError(t, err)
	h2, err := m.Hash(strings.NewReader("hello"))
	require.NoError(t, err)
	h3, err := m.HashBytes([]byte("world"))
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, m.HexLen())
	assert.Len(t, h1, 2*DefaultSize)
}

func TestHashEmpty(t *testing.T) {
	m := New()

	h, err := m.HashBytes(nil)
	require.NoError(t, err)
	assert.Len(t, h, m.HexLen())

	other, err := m.HashBytes([]byte{0})
	require.NoError(t, err)
	assert.NotEqual(t, h, other)
}

func TestLeafBoundaries(t *testing.T) {
	const leaf = 16
	m := New(LeafSize(leaf))

	seen := make(map[string]int)
	for _, size := range []int{leaf - 1, leaf, leaf + 1, 3 * leaf, 3*leaf + 7} {
		data := bytes.Repeat([]byte{'x'}, size)

		h1, err := m.HashBytes(data)
		require.NoError(t, err)
		h2, err := m.Hash(bytes.NewBuffer(data))
		require.NoError(t, err)
		require.Equal(t, h1, h2, "size %d", size)

		_, dup := seen[h1]
		require.False(t, dup, "size %d collides with size %d", size, seen[h1])
		seen[h1] = size
	}
}

func TestRandomContent(t *testing.T) {
	m := New(LeafSize(64))
	data := rand.Bytes(1000)

	h1, err := m.HashBytes(data)
	require.NoError(t, err)
	h2, err := m.Hash(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	data[999]++
	h3, err := m.HashBytes(data)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestOptions(t *testing.T) {
	m := New(Size(20), LeafSize(1024))
	h, err := m.HashBytes([]byte("hello"))
	require.NoError(t, err)
	assert.Len(t, h, 40)
	assert.Equal(t, 40, m.HexLen())

	// out of range values keep the defaults
	m = New(Size(0), Size(65), LeafSize(-1))
	assert.Equal(t, 2*DefaultSize, m.HexLen())
	assert.Equal(t, uint32(DefaultLeafSize), m.leafSize)
}

func TestProcess(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "dir/a.txt", []byte("hello"), 0600))

	m := New()
	h, err := m.Process(fs, "dir/a.txt")
	require.NoError(t, err)

	expected, err := m.HashBytes([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, expected, h)

	_, err = m.Process(fs, "dir/missing.txt")
	assert.Error(t, err)
}

func TestSmallContentAllocations(t *testing.T) {
	m := New()
	data := []byte("small content")

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	for i := 0; i < 20; i++ {
		_, err := m.HashBytes(data)
		require.NoError(t, err)
	}
	runtime.ReadMemStats(&after)

	// far below a single default leaf
	assert.True(t, after.TotalAlloc-before.TotalAlloc < uint64(DefaultLeafSize),
		"allocated %d bytes", after.TotalAlloc-before.TotalAlloc)
}
