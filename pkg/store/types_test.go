package store

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileMap(t *testing.T) {
	prev := FileMap{"a": "1", "b": "2"}
	cur := FileMap{"a": "1", "b": "3", "c": "4"}

	assert.Equal(t, FileMap{"b": "3", "c": "4"}, cur.ChangedFrom(prev))
	assert.Equal(t, cur, cur.ChangedFrom(nil))
	assert.Empty(t, prev.ChangedFrom(prev))

	assert.Equal(t, []string{"a", "b", "c"}, cur.Paths())
	assert.True(t, cur.Equal(cur.Clone()))
	assert.False(t, cur.Equal(prev))
	assert.True(t, FileMap(nil).Equal(FileMap{}))

	assert.Equal(t, FileMap{"a": "1", "b": "3", "c": "4"}, prev.Union(cur))
	assert.True(t, cur.Includes(FileMap{"a": "1"}))
	assert.False(t, cur.Includes(FileMap{"a": "2"}))
	assert.True(t, cur.Includes(nil))
}

func TestCanonicalBytes(t *testing.T) {
	ts := time.Date(2018, 10, 1, 12, 30, 0, 42, time.FixedZone("PDT", -7*3600))
	c := &Commit{
		ID:        "ignored",
		Message:   "first",
		Timestamp: ts,
		Author:    "alice",
		Branch:    "main",
		Changed:   FileMap{"b": "2", "a": "1"},
		Snapshot:  FileMap{"b": "2", "a": "1"},
	}

	data, err := c.CanonicalBytes()
	require.NoError(t, err)
	assert.Equal(t,
		`{"message":"first","timestamp":"2018-10-01T19:30:00.000000042Z","author":"alice","branch":"main",`+
			`"changed":{"a":"1","b":"2"},"snapshot":{"a":"1","b":"2"}}`,
		string(data))

	other := *c
	other.ID = "another"
	other.Timestamp = ts.UTC()
	data2, err := other.CanonicalBytes()
	require.NoError(t, err)
	assert.Equal(t, data, data2)

	empty := &Commit{Timestamp: ts}
	data, err = empty.CanonicalBytes()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"changed":{}`)
}

func TestCanonicalBytesManyEntries(t *testing.T) {
	snapshot := make(FileMap)
	for i := 0; i < 200; i++ {
		snapshot[fmt.Sprintf("dir/%03d.txt", 199-i)] = fmt.Sprintf("%d", i)
	}
	c := &Commit{Message: "many", Timestamp: time.Unix(0, 0), Snapshot: snapshot, Changed: snapshot.Clone()}

	data, err := c.CanonicalBytes()
	require.NoError(t, err)
	again, err := c.CanonicalBytes()
	require.NoError(t, err)
	assert.Equal(t, data, again)

	first := strings.Index(string(data), `"dir/000.txt"`)
	last := strings.Index(string(data), `"dir/199.txt"`)
	assert.True(t, first >= 0 && first < last)
}

func TestReferences(t *testing.T) {
	c := &Commit{
		Changed:  FileMap{"a": "1"},
		Snapshot: FileMap{"a": "1", "b": "2", "c": "2"},
	}
	assert.Equal(t, map[string]struct{}{"1": {}, "2": {}}, c.References())
}
