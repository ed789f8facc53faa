package localfs

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"testing"

	"github.com/oneconcern/tico/pkg/blob"
	"github.com/oneconcern/tico/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) blob.Store {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "sixteentons", []byte("this is the text"), 0600))
	require.NoError(t, afero.WriteFile(fs, "seventeentons", []byte("this is the text for another thing"), 0600))
	return New(fs)
}

func TestHas(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	has, err := bs.Has(ctx, "sixteentons")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(ctx, "seventeentons")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(ctx, "fifteentons")
	require.NoError(t, err)
	require.False(t, has)
}

func TestGet(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	rdr, err := bs.Get(ctx, "sixteentons")
	require.NoError(t, err)
	b, err := ioutil.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, "this is the text", string(b))

	_, err = bs.Get(ctx, "fifteentons")
	require.Error(t, err)
	assert.True(t, errors.Is(err, blob.ErrNotFound))
}

func TestKeys(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	require.NoError(t, bs.Put(ctx, "nested/eighteentons", bytes.NewBufferString("nested")))

	keys, err := bs.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"nested/eighteentons", "seventeentons", "sixteentons"}, keys)
}

func TestKeysEmpty(t *testing.T) {
	bs := New(afero.NewBasePathFs(afero.NewMemMapFs(), "/does/not/exist"))
	keys, err := bs.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestDelete(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	require.NoError(t, bs.Delete(ctx, "seventeentons"))
	require.NoError(t, bs.Delete(ctx, "seventeentons"), "deleting twice is not an error")

	k, err := bs.Keys(ctx)
	require.NoError(t, err)
	assert.Len(t, k, 1)
}

func TestPut(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	content := bytes.NewBufferString("here we go once again")
	require.NoError(t, bs.Put(ctx, "eighteentons", content))

	rdr, err := bs.Get(ctx, "eighteentons")
	require.NoError(t, err)
	b, err := ioutil.ReadAll(rdr)
	require.NoError(t, err)
	assert.Equal(t, "here we go once again", string(b))

	// overwrite
	require.NoError(t, bs.Put(ctx, "eighteentons", bytes.NewBufferString("replaced")))
	rdr, err = bs.Get(ctx, "eighteentons")
	require.NoError(t, err)
	b, err = ioutil.ReadAll(rdr)
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(b))

	// the staging area never leaks into the keys
	keys, err := bs.Keys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestInvalidKeys(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	for _, key := range []string{"", ".", "../escape", putStageName, putStageName + "/x"} {
		assert.Error(t, bs.Put(ctx, key, bytes.NewBufferString("x")), key)
		_, err := bs.Has(ctx, key)
		assert.Error(t, err, key)
	}
}

func TestOnDisk(t *testing.T) {
	td, err := ioutil.TempDir("", "tico-tst")
	require.NoError(t, err)
	defer os.RemoveAll(td)

	bs := New(afero.NewBasePathFs(afero.NewOsFs(), td))
	ctx := context.Background()
	assert.Contains(t, bs.String(), td)

	require.NoError(t, bs.Put(ctx, "abc", bytes.NewBufferString("on disk")))
	b, err := ioutil.ReadFile(td + "/abc")
	require.NoError(t, err)
	assert.Equal(t, "on disk", string(b))
}
