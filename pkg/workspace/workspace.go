// Package workspace walks, fingerprints and rewrites the files of a working directory.
package workspace

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/oneconcern/tico/pkg/fingerprint"
	"github.com/oneconcern/tico/pkg/store/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Hasher computes the fingerprint of a file
type Hasher interface {
	Process(fs afero.Fs, path string) (string, error)
}

// Source provides the content for a fingerprint
type Source interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// Option for a workspace
type Option func(*Workspace)

// FileSystem rooted at the working directory.
//
// Defaults to the OS file system below the root.
func FileSystem(fs afero.Fs) Option {
	return func(w *Workspace) {
		if fs != nil {
			w.fs = fs
		}
	}
}

// WithHasher sets the fingerprint function
func WithHasher(h Hasher) Option {
	return func(w *Workspace) {
		if h != nil {
			w.hasher = h
		}
	}
}

// Exclude sets the exclusions
func Exclude(e Exclusions) Option {
	return func(w *Workspace) {
		w.excl = e
	}
}

// Logger for the workspace
func Logger(l *zap.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.l = l
		}
	}
}

// Workspace is a working directory
type Workspace struct {
	root   string
	fs     afero.Fs
	hasher Hasher
	excl   Exclusions
	l      *zap.Logger
}

// New workspace rooted at dir.
//
// When the running executable lives below the root, it is excluded too.
func New(root string, opts ...Option) *Workspace {
	w := &Workspace{
		root:   root,
		hasher: fingerprint.New(),
		excl:   NewExclusions(),
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(w)
	}
	if w.fs == nil {
		w.fs = afero.NewBasePathFs(afero.NewOsFs(), root)
	}
	if exe, err := os.Executable(); err == nil {
		if rel, err := w.Resolve(exe); err == nil {
			w.excl = w.excl.WithPath(rel)
		}
	}
	return w
}

// Root of the workspace
func (w *Workspace) Root() string {
	return w.root
}

// Fs rooted at the working directory
func (w *Workspace) Fs() afero.Fs {
	return w.fs
}

// Excluded is true when the relative path is skipped by scans
func (w *Workspace) Excluded(rel string) bool {
	return w.excl.Match(rel)
}

// Resolve a path to a slash separated path, relative to the root.
//
// Relative paths are taken from the root. Paths escaping the root are rejected.
func (w *Workspace) Resolve(p string) (string, error) {
	if filepath.IsAbs(p) {
		root, err := filepath.Abs(w.root)
		if err != nil {
			return "", status.ErrIOFailure.Wrap(err)
		}
		if p, err = filepath.Rel(root, p); err != nil {
			return "", status.ErrNotFound.Wrap(err)
		}
	}
	rel := path.Clean(filepath.ToSlash(p))
	if rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
		return "", status.ErrNotFound.WrapMessage(p + " is outside of the working directory")
	}
	return rel, nil
}

// Stat a relative path
func (w *Workspace) Stat(rel string) (os.FileInfo, error) {
	fi, err := w.fs.Stat(filepath.FromSlash(rel))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, status.ErrNotFound.WrapMessage(rel)
		}
		return nil, status.ErrIOFailure.Wrap(err)
	}
	return fi, nil
}

// Open a file for reading
func (w *Workspace) Open(rel string) (afero.File, error) {
	f, err := w.fs.Open(filepath.FromSlash(rel))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, status.ErrNotFound.WrapMessage(rel)
		}
		return nil, status.ErrIOFailure.Wrap(err)
	}
	return f, nil
}

// Fingerprint a single file
func (w *Workspace) Fingerprint(rel string) (string, error) {
	fp, err := w.hasher.Process(w.fs, filepath.FromSlash(rel))
	if err != nil {
		if os.IsNotExist(err) {
			return "", status.ErrNotFound.WrapMessage(rel)
		}
		return "", status.ErrIOFailure.Wrap(err)
	}
	return fp, nil
}
