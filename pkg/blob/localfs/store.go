// Copyright © 2018 One Concern

package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oneconcern/tico/pkg/blob"
	"github.com/spf13/afero"
)

// the staging area for atomic puts lives within the afero.Fs itself
const putStageName = ".put-stage"

// New creates a new local file system backed blob store.
//
// Puts are atomic: values are written in a staging area, then Rename()d into place.
func New(fs afero.Fs) blob.Store {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), filepath.Join(".tico", "objects"))
	}
	return &localFS{
		fs: fs,
	}
}

type localFS struct {
	fs afero.Fs
}

func invalidKey(key string) error {
	clean := path.Clean(strings.TrimLeft(filepath.ToSlash(key), "/"))
	if key == "" || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("invalid key %q", key)
	}
	if clean == putStageName || strings.HasPrefix(clean, putStageName+"/") {
		return fmt.Errorf("key %q conflicts with put staging area name %q", key, putStageName)
	}
	return nil
}

func (l *localFS) Has(ctx context.Context, key string) (bool, error) {
	if err := invalidKey(key); err != nil {
		return false, err
	}

	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, blob.ErrNotFound.WrapMessage(key)
	}
	return l.fs.Open(key)
}

func (l *localFS) Put(ctx context.Context, key string, rdr io.Reader) error {
	if err := invalidKey(key); err != nil {
		return err
	}
	if err := l.fs.MkdirAll(putStageName, 0700); err != nil {
		return fmt.Errorf("ensuring put staging directory: %v", err)
	}

	fi, err := afero.TempFile(l.fs, putStageName, "tico-put")
	if err != nil {
		return fmt.Errorf("create record for %q: %v", key, err)
	}
	staged := filepath.Join(putStageName, filepath.Base(fi.Name()))
	defer func() {
		_ = fi.Close()
		_ = l.fs.Remove(staged)
	}()

	if _, err = io.Copy(fi, rdr); err != nil {
		return fmt.Errorf("write record for %q: %v", key, err)
	}

	if err = fi.Close(); err != nil {
		return err
	}

	// Rename() doesn't create directories automatically
	if dir := filepath.Dir(key); dir != "." {
		if err := l.fs.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("ensuring directories for %q: %v", key, err)
		}
	}
	return l.fs.Rename(staged, key)
}

func (l *localFS) Delete(ctx context.Context, key string) error {
	if err := invalidKey(key); err != nil {
		return err
	}
	if err := l.fs.Remove(key); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %q: %v", key, err)
	}
	return nil
}

func (l *localFS) Keys(ctx context.Context) ([]string, error) {
	const root = "."
	if ok, err := afero.DirExists(l.fs, root); err != nil || !ok {
		return nil, err
	}

	var res []string
	e := afero.Walk(l.fs, root, func(pth string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == putStageName {
				return filepath.SkipDir
			}
			return nil
		}
		res = append(res, filepath.ToSlash(strings.TrimPrefix(pth, string(filepath.Separator))))
		return nil
	})
	if e != nil {
		return nil, e
	}
	sort.Strings(res)
	return res, nil
}

func (l *localFS) String() string {
	const localfs = "localfs"
	switch fs := l.fs.(type) {
	case *afero.BasePathFs:
		pp, err := fs.RealPath("")
		if err != nil {
			return localfs
		}
		return localfs + "@" + pp
	default:
		return localfs
	}
}
