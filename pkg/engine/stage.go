package engine

import (
	"context"
	"strings"

	"github.com/oneconcern/tico/pkg/store"
	"github.com/oneconcern/tico/pkg/workspace"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Add a file, or every file below a directory, to the stage.
//
// Only fingerprints are recorded: contents are stored at commit time.
// Unreadable files are skipped and reported in the returned error, along with the files that were staged.
func (r *Repository) Add(ctx context.Context, pth string) (store.FileMap, error) {
	rel, err := r.ws.Resolve(pth)
	if err != nil {
		return nil, err
	}
	fi, err := r.ws.Stat(rel)
	if err != nil {
		return nil, err
	}

	added := make(store.FileMap)
	if rel != "." && r.ws.Excluded(rel) {
		r.l.Debug("skipping excluded path", zap.String("path", rel))
		return added, nil
	}

	if !fi.IsDir() {
		fp, err := r.ws.Fingerprint(rel)
		if err != nil {
			return nil, err
		}
		if err := r.stage.RecordAdd(ctx, rel, fp); err != nil {
			return nil, err
		}
		added[rel] = fp
		r.l.Info("staged", zap.String("path", rel))
		return added, nil
	}

	sc := r.ws.ScanDir(ctx, rel)
	for sc.Next() {
		e := sc.Entry()
		if err := r.stage.RecordAdd(ctx, e.Path, e.Fingerprint); err != nil {
			return added, err
		}
		added[e.Path] = e.Fingerprint
	}
	if err := sc.Err(); err != nil {
		return added, err
	}
	r.l.Info("staged", zap.String("path", rel), zap.Int("count", len(added)))
	return added, multierr.Combine(sc.Failures()...)
}

// Unadd removes a path, or every tracked path below a directory, from the stage.
//
// Unknown paths are ignored.
func (r *Repository) Unadd(ctx context.Context, pth string) ([]string, error) {
	rel, err := r.ws.Resolve(pth)
	if err != nil {
		return nil, err
	}
	tracked, err := r.stage.Tracked(ctx)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, p := range tracked.Paths() {
		if rel != "." && p != rel && !strings.HasPrefix(p, rel+"/") {
			continue
		}
		if err := r.stage.RecordRemove(ctx, p); err != nil {
			return removed, err
		}
		removed = append(removed, p)
	}
	r.l.Info("unstaged", zap.String("path", rel), zap.Int("count", len(removed)))
	return removed, nil
}

// Status of the working directory
type Status struct {
	Branch   string                     `json:"branch" yaml:"branch"`
	Head     string                     `json:"head,omitempty" yaml:"head,omitempty"`
	UpToDate bool                       `json:"upToDate" yaml:"upToDate"`
	Files    map[string]workspace.State `json:"files,omitempty" yaml:"files,omitempty"`
	Staged   []string                   `json:"staged,omitempty" yaml:"staged,omitempty"`
	Missing  []string                   `json:"missing,omitempty" yaml:"missing,omitempty"`
	Failures error                      `json:"-" yaml:"-"`

	diff workspace.Diff
}

// Tracked paths, sorted
func (s *Status) Tracked() []string {
	return s.diff.Paths(workspace.Tracked)
}

// Untracked paths, sorted
func (s *Status) Untracked() []string {
	return s.diff.Paths(workspace.Untracked)
}

// Status compares the working directory with the tracked and staged files.
//
// The directory is up to date when its content is exactly the snapshot of the last commit.
func (r *Repository) Status(ctx context.Context) (*Status, error) {
	tracked, err := r.stage.Tracked(ctx)
	if err != nil {
		return nil, err
	}
	staged, err := r.stage.Staged(ctx)
	if err != nil {
		return nil, err
	}

	diff, err := r.ws.DiffAgainst(ctx, tracked.Union(staged))
	if err != nil {
		return nil, err
	}

	_, head, err := r.tip(ctx)
	if err != nil {
		return nil, err
	}

	st := &Status{
		Branch:   r.meta.Branch,
		Files:    diff.States,
		Staged:   staged.Paths(),
		Missing:  diff.Missing,
		Failures: diff.Failures,
		diff:     diff,
	}
	if head != nil {
		st.Head = head.ID
		st.UpToDate = diff.Live.Equal(head.Snapshot)
	}
	return st, nil
}
