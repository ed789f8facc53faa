package workspace

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oneconcern/tico/pkg/store"
	"github.com/oneconcern/tico/pkg/store/status"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Restore writes every file of a snapshot from the content source, creating parent directories
func (w *Workspace) Restore(ctx context.Context, snapshot store.FileMap, src Source) error {
	for _, rel := range snapshot.Paths() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.restoreFile(ctx, rel, snapshot[rel], src); err != nil {
			return err
		}
	}
	w.l.Debug("restored snapshot", zap.String("root", w.root), zap.Int("count", len(snapshot)))
	return nil
}

func (w *Workspace) restoreFile(ctx context.Context, rel, key string, src Source) error {
	rdr, err := src.Get(ctx, key)
	if err != nil {
		return errors.Wrapf(err, "restoring %s", rel)
	}
	defer rdr.Close()

	if err = afero.WriteReader(w.fs, filepath.FromSlash(rel), rdr); err != nil {
		return status.ErrIOFailure.Wrap(errors.Wrapf(err, "restoring %s", rel))
	}
	return nil
}

// Clear removes every file that is not excluded, then the directories left empty
func (w *Workspace) Clear(ctx context.Context) error {
	var files, dirs []string
	err := afero.Walk(w.fs, ".", func(pth string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel := filepath.ToSlash(pth)
		if rel == "." {
			return nil
		}
		if w.excl.Match(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			dirs = append(dirs, rel)
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return status.ErrIOFailure.Wrap(err)
	}

	for _, rel := range files {
		if err := w.fs.Remove(filepath.FromSlash(rel)); err != nil && !os.IsNotExist(err) {
			return status.ErrIOFailure.Wrap(err)
		}
	}
	// deepest first
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, rel := range dirs {
		w.removeIfEmpty(rel)
	}
	w.l.Debug("cleared working directory", zap.String("root", w.root), zap.Int("count", len(files)))
	return nil
}

// Remove files, pruning the parent directories left empty
func (w *Workspace) Remove(ctx context.Context, paths []string) error {
	for _, rel := range paths {
		if err := w.fs.Remove(filepath.FromSlash(rel)); err != nil && !os.IsNotExist(err) {
			return status.ErrIOFailure.Wrap(err)
		}
		for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if !w.removeIfEmpty(dir) {
				break
			}
		}
	}
	return nil
}

func (w *Workspace) removeIfEmpty(rel string) bool {
	if w.excl.Match(rel) || strings.TrimSpace(rel) == "" {
		return false
	}
	empty, err := afero.IsEmpty(w.fs, filepath.FromSlash(rel))
	if err != nil || !empty {
		return false
	}
	return w.fs.Remove(filepath.FromSlash(rel)) == nil
}
