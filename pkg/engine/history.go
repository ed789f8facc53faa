package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/oneconcern/tico/pkg/engine/status"
	"github.com/oneconcern/tico/pkg/store"
	"go.uber.org/zap"
)

// minPrefixLen is the shortest commit id prefix accepted by Checkout
const minPrefixLen = 4

// UndoLastCommit removes the last commit of the current branch.
//
// The working directory and the stage are restored to the previous commit, or emptied of the
// tracked content when the removed commit was the only one. The removed commit is quarantined
// and the contents that no other commit references are reclaimed.
func (r *Repository) UndoLastCommit(ctx context.Context) (*store.Commit, error) {
	ids, last, err := r.tip(ctx)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, status.ErrNothingToUndo
	}

	if len(ids) == 1 {
		if err = r.ws.Remove(ctx, last.Snapshot.Paths()); err != nil {
			return nil, err
		}
		if err = r.stage.Reset(ctx, nil, nil); err != nil {
			return nil, err
		}
	} else {
		prev, err := r.commits.Get(ctx, ids[len(ids)-2])
		if err != nil {
			return nil, err
		}
		var gone []string
		for _, p := range last.Snapshot.Paths() {
			if _, ok := prev.Snapshot[p]; !ok {
				gone = append(gone, p)
			}
		}
		if err = r.ws.Remove(ctx, gone); err != nil {
			return nil, err
		}
		if err = r.ws.Restore(ctx, prev.Snapshot, r.content); err != nil {
			return nil, err
		}
		if err = r.stage.Reset(ctx, prev.Snapshot, prev.Changed); err != nil {
			return nil, err
		}
	}

	if err = r.commits.Quarantine(ctx, last.ID); err != nil {
		return nil, err
	}
	if _, err = r.ledger.RemoveLast(ctx, r.meta.Branch); err != nil {
		return nil, err
	}
	if _, err = r.reclaim(ctx, last); err != nil {
		return nil, err
	}

	r.l.Info("undone last commit", zap.String("branch", r.meta.Branch), zap.String("commit", last.ID))
	return last, nil
}

// Checkout a commit of the current branch.
//
// The later commits are quarantined, the working directory and the stage are replaced by the
// snapshot of the commit. A unique prefix of a commit id is accepted.
func (r *Repository) Checkout(ctx context.Context, ref string) (*store.Commit, error) {
	ids, err := r.ledger.ReadAll(ctx, r.meta.Branch)
	if err != nil {
		return nil, err
	}
	idx, err := resolveRef(ref, ids)
	if err != nil {
		return nil, err
	}
	target, err := r.commits.Get(ctx, ids[idx])
	if err != nil {
		return nil, err
	}

	later := ids[idx+1:]
	removed := make([]*store.Commit, 0, len(later))
	for i := len(later) - 1; i >= 0; i-- {
		c, err := r.commits.Get(ctx, later[i])
		if err != nil {
			return nil, err
		}
		if err = r.commits.Quarantine(ctx, c.ID); err != nil {
			return nil, err
		}
		removed = append(removed, c)
	}
	if err = r.ledger.TruncateTo(ctx, r.meta.Branch, target.ID); err != nil {
		return nil, err
	}

	if err = r.replay(ctx, target); err != nil {
		return nil, err
	}
	if _, err = r.reclaim(ctx, removed...); err != nil {
		return nil, err
	}

	r.l.Info("checked out",
		zap.String("branch", r.meta.Branch),
		zap.String("commit", target.ID),
		zap.Int("count", len(removed)),
	)
	return target, nil
}

// replay replaces the working directory and the stage with a commit, or empties them for a nil commit
//
// The stage is written first, so a failing stage leaves the working directory untouched.
func (r *Repository) replay(ctx context.Context, c *store.Commit) error {
	if c == nil {
		if err := r.stage.Reset(ctx, nil, nil); err != nil {
			return err
		}
		return r.ws.Clear(ctx)
	}
	if err := r.stage.Reset(ctx, c.Snapshot, c.Changed); err != nil {
		return err
	}
	if err := r.ws.Clear(ctx); err != nil {
		return err
	}
	return r.ws.Restore(ctx, c.Snapshot, r.content)
}

func resolveRef(ref string, ids []string) (int, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	for i, id := range ids {
		if id == ref {
			return i, nil
		}
	}
	if len(ref) < minPrefixLen {
		return -1, status.ErrInvalidReference.WrapMessage(ref)
	}

	found := -1
	for i, id := range ids {
		if strings.HasPrefix(id, ref) {
			if found >= 0 {
				return -1, status.ErrAmbiguousReference.WrapMessage(ref)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, status.ErrInvalidReference.WrapMessage(ref)
	}
	return found, nil
}

// History of a branch
type History struct {
	Branch  string          `json:"branch" yaml:"branch"`
	Commits []*store.Commit `json:"commits" yaml:"commits"`
	Removed []*store.Commit `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// Log returns the commits of the current branch, oldest first, and the quarantined commits by timestamp
func (r *Repository) Log(ctx context.Context) (*History, error) {
	ids, err := r.ledger.ReadAll(ctx, r.meta.Branch)
	if err != nil {
		return nil, err
	}

	h := &History{Branch: r.meta.Branch}
	for _, id := range ids {
		c, err := r.commits.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		h.Commits = append(h.Commits, c)
	}

	removed, err := r.commits.ListQuarantined(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range removed {
		c, err := r.commits.GetQuarantined(ctx, id)
		if err != nil {
			return nil, err
		}
		h.Removed = append(h.Removed, c)
	}
	sort.SliceStable(h.Removed, func(i, j int) bool {
		return h.Removed[i].Timestamp.Before(h.Removed[j].Timestamp)
	})
	return h, nil
}

// GC removes every content that no active commit nor the stage references
func (r *Repository) GC(ctx context.Context) ([]string, error) {
	marked, err := r.mark(ctx)
	if err != nil {
		return nil, err
	}
	keys, err := r.content.Keys(ctx)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, key := range keys {
		_, referenced := marked[key]
		ok, err := r.content.DeleteIfUnreferenced(ctx, key, referenced)
		if err != nil {
			return removed, err
		}
		if ok {
			removed = append(removed, key)
		}
	}
	r.l.Info("garbage collected", zap.Int("count", len(removed)))
	return removed, nil
}

// reclaim the contents of removed commits that are not referenced anymore
func (r *Repository) reclaim(ctx context.Context, removed ...*store.Commit) ([]string, error) {
	if len(removed) == 0 {
		return nil, nil
	}
	marked, err := r.mark(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make(map[string]struct{})
	for _, c := range removed {
		for fp := range c.References() {
			candidates[fp] = struct{}{}
		}
	}

	var reclaimed []string
	for fp := range candidates {
		_, referenced := marked[fp]
		ok, err := r.content.DeleteIfUnreferenced(ctx, fp, referenced)
		if err != nil {
			return reclaimed, err
		}
		if ok {
			reclaimed = append(reclaimed, fp)
		}
	}
	sort.Strings(reclaimed)
	r.l.Debug("reclaimed contents", zap.Strings("keys", reclaimed))
	return reclaimed, nil
}

// mark every fingerprint referenced by an active commit of any branch, or by the stage
func (r *Repository) mark(ctx context.Context) (map[string]struct{}, error) {
	marked := make(map[string]struct{})

	ids, err := r.commits.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		c, err := r.commits.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		for fp := range c.References() {
			marked[fp] = struct{}{}
		}
	}

	tracked, err := r.stage.Tracked(ctx)
	if err != nil {
		return nil, err
	}
	staged, err := r.stage.Staged(ctx)
	if err != nil {
		return nil, err
	}
	for _, fp := range tracked.Union(staged) {
		marked[fp] = struct{}{}
	}
	return marked, nil
}
