package engine

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/oneconcern/tico/pkg/store"
	"github.com/stretchr/testify/require"
)

func setupRepo(t testing.TB) (*Repository, func()) {
	td, err := ioutil.TempDir("", "tico-engine")
	require.NoError(t, err)

	r, err := Init(context.Background(), td, "alice")
	require.NoError(t, err)
	return r, func() {
		_ = r.Close()
		_ = os.RemoveAll(td)
	}
}

func writeFile(t testing.TB, r *Repository, rel, content string) {
	pth := filepath.Join(r.Root(), filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(pth), 0755))
	require.NoError(t, ioutil.WriteFile(pth, []byte(content), 0644))
}

// readTree returns the content of every file below dir, skipping the metadata directory
func readTree(t testing.TB, dir string) map[string]string {
	res := make(map[string]string)
	err := filepath.Walk(dir, func(pth string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == DefaultMetaDir {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, pth)
		if err != nil {
			return err
		}
		data, err := ioutil.ReadFile(pth)
		if err != nil {
			return err
		}
		res[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return res
}

func addAll(t testing.TB, r *Repository, paths ...string) {
	for _, p := range paths {
		_, err := r.Add(context.Background(), p)
		require.NoError(t, err)
	}
}

func commit(t testing.TB, r *Repository, message string) *store.Commit {
	c, err := r.Commit(context.Background(), message, NeverFold)
	require.NoError(t, err)
	return c
}

func tracked(t testing.TB, r *Repository) store.FileMap {
	m, err := r.stage.Tracked(context.Background())
	require.NoError(t, err)
	return m
}

func staged(t testing.TB, r *Repository) store.FileMap {
	m, err := r.stage.Staged(context.Background())
	require.NoError(t, err)
	return m
}

func ledgerIDs(t testing.TB, r *Repository) []string {
	ids, err := r.ledger.ReadAll(context.Background(), r.CurrentBranch())
	require.NoError(t, err)
	return ids
}

func contentKeys(t testing.TB, r *Repository) []string {
	keys, err := r.content.Keys(context.Background())
	require.NoError(t, err)
	return keys
}

func exportTree(t testing.TB, r *Repository) map[string]string {
	td, err := ioutil.TempDir("", "tico-export")
	require.NoError(t, err)
	defer os.RemoveAll(td)

	_, err = r.Export(context.Background(), filepath.Join(td, "out"))
	require.NoError(t, err)
	return readTree(t, filepath.Join(td, "out"))
}
