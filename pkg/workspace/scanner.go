package workspace

import (
	"context"
	"path"
	"path/filepath"

	"github.com/oneconcern/tico/pkg/errors"
	"github.com/oneconcern/tico/pkg/store"
	"github.com/oneconcern/tico/pkg/store/status"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Entry is a scanned file
type Entry struct {
	Path        string `json:"path" yaml:"path"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	Size        int64  `json:"size" yaml:"size"`
}

type pending struct {
	path string
	size int64
}

// Scanner iterates lazily over the regular files of a working directory.
//
// Directories are read only when the files found so far have been consumed.
// A scanner can't be restarted.
//
//	sc := ws.Scan(ctx)
//	for sc.Next() {
//		e := sc.Entry()
//	}
//	if err := sc.Err(); err != nil {
//	}
type Scanner struct {
	ctx      context.Context
	ws       *Workspace
	dirs     []string
	files    []pending
	current  Entry
	err      error
	failures []error
}

// Scan the whole working directory
func (w *Workspace) Scan(ctx context.Context) *Scanner {
	return w.ScanDir(ctx, ".")
}

// ScanDir scans the files below a relative directory
func (w *Workspace) ScanDir(ctx context.Context, rel string) *Scanner {
	return &Scanner{
		ctx:  ctx,
		ws:   w,
		dirs: []string{path.Clean(rel)},
	}
}

// Next advances to the next file, returns false when done or on a fatal error
func (s *Scanner) Next() bool {
	for s.err == nil {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			break
		}

		if len(s.files) > 0 {
			f := s.files[0]
			s.files = s.files[1:]

			fp, err := s.ws.Fingerprint(f.path)
			if err != nil {
				s.ws.l.Warn("skipping unreadable file", zap.String("path", f.path), zap.Error(err))
				if !errors.Is(err, status.ErrIOFailure) {
					err = status.ErrIOFailure.Wrap(err)
				}
				s.failures = append(s.failures, err)
				continue
			}
			s.current = Entry{Path: f.path, Fingerprint: fp, Size: f.size}
			return true
		}

		if len(s.dirs) == 0 {
			break
		}
		dir := s.dirs[len(s.dirs)-1]
		s.dirs = s.dirs[:len(s.dirs)-1]
		s.readDir(dir)
	}
	s.current = Entry{}
	return false
}

func (s *Scanner) readDir(dir string) {
	infos, err := afero.ReadDir(s.ws.fs, filepath.FromSlash(dir))
	if err != nil {
		if dir == "." {
			s.err = status.ErrIOFailure.Wrap(err)
			return
		}
		s.ws.l.Warn("skipping unreadable directory", zap.String("path", dir), zap.Error(err))
		s.failures = append(s.failures, status.ErrIOFailure.Wrap(err))
		return
	}

	// infos are sorted by name: push sub directories in reverse to visit them in order
	var subdirs []string
	for _, fi := range infos {
		rel := path.Join(dir, fi.Name())
		if s.ws.excl.Match(rel) {
			continue
		}
		switch {
		case fi.IsDir():
			subdirs = append(subdirs, rel)
		case fi.Mode().IsRegular():
			s.files = append(s.files, pending{path: rel, size: fi.Size()})
		}
	}
	for i := len(subdirs) - 1; i >= 0; i-- {
		s.dirs = append(s.dirs, subdirs[i])
	}
}

// Entry returns the current file
func (s *Scanner) Entry() Entry {
	return s.current
}

// Err returns the error that stopped the scan, if any
func (s *Scanner) Err() error {
	return s.err
}

// Failures returns the files or directories that could not be read
func (s *Scanner) Failures() []error {
	return s.failures
}

// Snapshot drains a scan into a file map.
//
// Unreadable files are skipped and reported as a combined error in failures.
func (w *Workspace) Snapshot(ctx context.Context) (live store.FileMap, failures error, err error) {
	sc := w.Scan(ctx)
	live = make(store.FileMap)
	for sc.Next() {
		e := sc.Entry()
		live[e.Path] = e.Fingerprint
	}
	if err = sc.Err(); err != nil {
		return nil, nil, err
	}
	return live, multierr.Combine(sc.Failures()...), nil
}
