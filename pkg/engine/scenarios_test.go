package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oneconcern/tico/pkg/engine/status"
	"github.com/oneconcern/tico/pkg/errors"
	"github.com/oneconcern/tico/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioA: init, add a.txt with "hello", commit "first"
func scenarioA(t testing.TB, r *Repository) *store.Commit {
	writeFile(t, r, "a.txt", "hello")
	addAll(t, r, "a.txt")
	return commit(t, r, "first")
}

func TestScenarioA_UpToDate(t *testing.T) {
	r, done := setupRepo(t)
	defer done()

	first := scenarioA(t, r)
	assert.Equal(t, "first", first.Message)
	assert.Equal(t, "alice", first.Author)
	assert.Equal(t, DefaultBranch, first.Branch)
	assert.Equal(t, []string{"a.txt"}, first.Changed.Paths())
	assert.Len(t, first.ID, r.hasher.HexLen())

	st, err := r.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, st.UpToDate)
	assert.Equal(t, first.ID, st.Head)
	assert.Equal(t, []string{"a.txt"}, st.Tracked())
	assert.Empty(t, st.Untracked())
	assert.Empty(t, st.Staged)
	assert.Empty(t, staged(t, r))
}

func TestScenarioB_ModifiedIsUntracked(t *testing.T) {
	r, done := setupRepo(t)
	defer done()
	scenarioA(t, r)

	writeFile(t, r, "a.txt", "world")

	st, err := r.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, st.UpToDate)
	assert.Equal(t, []string{"a.txt"}, st.Untracked())
	assert.Empty(t, st.Tracked())
}

func TestScenarioC_NothingToCommit(t *testing.T) {
	r, done := setupRepo(t)
	defer done()
	scenarioA(t, r)

	_, err := r.Commit(context.Background(), "second", AlwaysFold)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNothingToCommit))
	assert.Len(t, ledgerIDs(t, r), 1)
}

func TestScenarioD_UndoSecond(t *testing.T) {
	r, done := setupRepo(t)
	defer done()
	ctx := context.Background()

	first := scenarioA(t, r)
	writeFile(t, r, "a.txt", "world")
	addAll(t, r, "a.txt")
	second := commit(t, r, "second")

	undone, err := r.UndoLastCommit(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, undone.ID)

	assert.Equal(t, []string{first.ID}, ledgerIDs(t, r))
	assert.Equal(t, map[string]string{"a.txt": "hello"}, exportTree(t, r))
	assert.Equal(t, map[string]string{"a.txt": "hello"}, readTree(t, r.Root()))
}

func TestScenarioE_CheckoutThenSwitch(t *testing.T) {
	r, done := setupRepo(t)
	defer done()
	ctx := context.Background()

	first := scenarioA(t, r)
	writeFile(t, r, "b.txt", "bee")
	addAll(t, r, "b.txt")
	second := commit(t, r, "second")
	writeFile(t, r, "a.txt", "changed")
	addAll(t, r, "a.txt")
	third := commit(t, r, "third")

	c, err := r.Checkout(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, c.ID)
	assert.Equal(t, []string{first.ID}, ledgerIDs(t, r))
	assert.Equal(t, map[string]string{"a.txt": "hello"}, readTree(t, r.Root()))
	assert.Equal(t, first.Snapshot, tracked(t, r))
	assert.Equal(t, first.Changed, staged(t, r))

	h, err := r.Log(ctx)
	require.NoError(t, err)
	require.Len(t, h.Commits, 1)
	require.Len(t, h.Removed, 2)
	assert.Equal(t, second.ID, h.Removed[0].ID)
	assert.Equal(t, third.ID, h.Removed[1].ID)

	// the working directory is re-derived from the ledger tip only
	writeFile(t, r, "a.txt", "scribbled")
	writeFile(t, r, "junk.txt", "junk")
	created, err := r.Branch(ctx, DefaultBranch)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, map[string]string{"a.txt": "hello"}, readTree(t, r.Root()))
	assert.Equal(t, first.Snapshot, tracked(t, r))
}

func TestRoundTripExport(t *testing.T) {
	r, done := setupRepo(t)
	defer done()

	files := map[string]string{
		"a.txt":              "hello",
		"empty":              "",
		"dir/b.bin":          "\x00\x01\x02\xff\xfe",
		"dir/sub/c.txt":      strings.Repeat("lorem ipsum ", 10000),
		"dir/sub/unicode.md": "héllo wörld ✓",
	}
	for p, content := range files {
		writeFile(t, r, p, content)
	}
	addAll(t, r, ".")
	commit(t, r, "everything")

	assert.Equal(t, files, exportTree(t, r))
}

func TestInverseCommitUndo(t *testing.T) {
	r, done := setupRepo(t)
	defer done()
	ctx := context.Background()

	first := scenarioA(t, r)
	before := readTree(t, r.Root())
	beforeTracked := tracked(t, r)

	writeFile(t, r, "a.txt", "modified")
	writeFile(t, r, "dir/new.txt", "new")
	addAll(t, r, "a.txt", "dir")
	commit(t, r, "second")

	_, err := r.UndoLastCommit(ctx)
	require.NoError(t, err)

	assert.Equal(t, before, readTree(t, r.Root()))
	assert.Equal(t, beforeTracked, tracked(t, r))
	assert.Equal(t, first.Snapshot, tracked(t, r))
	_, err = os.Stat(filepath.Join(r.Root(), "dir"))
	assert.True(t, os.IsNotExist(err))
}

func TestInverseSingleCommit(t *testing.T) {
	r, done := setupRepo(t)
	defer done()
	ctx := context.Background()

	writeFile(t, r, "a.txt", "hello")
	writeFile(t, r, "dir/b.txt", "bee")
	addAll(t, r, "a.txt", "dir/b.txt")
	writeFile(t, r, "notes.txt", "not tracked")
	commit(t, r, "only")

	_, err := r.UndoLastCommit(ctx)
	require.NoError(t, err)

	assert.Empty(t, ledgerIDs(t, r))
	assert.Empty(t, tracked(t, r))
	assert.Empty(t, staged(t, r))
	assert.Empty(t, contentKeys(t, r))
	assert.Equal(t, map[string]string{"notes.txt": "not tracked"}, readTree(t, r.Root()))

	_, err = r.UndoLastCommit(ctx)
	assert.True(t, errors.Is(err, status.ErrNothingToUndo))
}

func TestCheckoutIdempotent(t *testing.T) {
	r, done := setupRepo(t)
	defer done()
	ctx := context.Background()

	first := scenarioA(t, r)
	writeFile(t, r, "b.txt", "bee")
	addAll(t, r, "b.txt")
	commit(t, r, "second")

	_, err := r.Checkout(ctx, first.ID)
	require.NoError(t, err)
	tree1, tracked1 := readTree(t, r.Root()), tracked(t, r)

	_, err = r.Checkout(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, tree1, readTree(t, r.Root()))
	assert.Equal(t, tracked1, tracked(t, r))
	assert.Equal(t, []string{first.ID}, ledgerIDs(t, r))
}

func TestContentDedup(t *testing.T) {
	r, done := setupRepo(t)
	defer done()

	writeFile(t, r, "a.txt", "same bytes")
	addAll(t, r, "a.txt")
	commit(t, r, "first")

	writeFile(t, r, "copy/b.txt", "same bytes")
	addAll(t, r, "copy/b.txt")
	second := commit(t, r, "second")

	assert.Equal(t, second.Snapshot["a.txt"], second.Snapshot["copy/b.txt"])
	assert.Len(t, contentKeys(t, r), 1)
}
