package engine

import (
	"context"
	"strings"

	"github.com/oneconcern/tico/pkg/engine/status"
	"github.com/oneconcern/tico/pkg/store"
	"github.com/oneconcern/tico/pkg/workspace"
	"go.uber.org/zap"
)

// FoldPolicy decides whether untracked files are added to the stage before a commit.
//
// It may block, e.g. to prompt a user.
type FoldPolicy interface {
	FoldUntracked(ctx context.Context, untracked []string) (bool, error)
}

// FoldFunc adapts a function to a FoldPolicy
type FoldFunc func(context.Context, []string) (bool, error)

// FoldUntracked files or not
func (f FoldFunc) FoldUntracked(ctx context.Context, untracked []string) (bool, error) {
	return f(ctx, untracked)
}

var (
	// AlwaysFold adds untracked files to every commit
	AlwaysFold FoldPolicy = FoldFunc(func(context.Context, []string) (bool, error) { return true, nil })

	// NeverFold commits staged files only
	NeverFold FoldPolicy = FoldFunc(func(context.Context, []string) (bool, error) { return false, nil })
)

// Commit the tracked files on the current branch.
//
// When untracked files exist, the policy decides whether they are folded in the commit.
// The changed files are those whose fingerprint differs from the previous commit.
func (r *Repository) Commit(ctx context.Context, message string, policy FoldPolicy) (*store.Commit, error) {
	if policy == nil {
		policy = NeverFold
	}
	if message = strings.TrimSpace(message); message == "" {
		message = DefaultMessage
	}

	tracked, err := r.stage.Tracked(ctx)
	if err != nil {
		return nil, err
	}
	staged, err := r.stage.Staged(ctx)
	if err != nil {
		return nil, err
	}

	diff, err := r.ws.DiffAgainst(ctx, tracked)
	if err != nil {
		return nil, err
	}
	untracked := diff.Paths(workspace.Untracked)

	if len(staged) == 0 && len(untracked) == 0 {
		return nil, status.ErrNothingToCommit
	}

	if len(untracked) > 0 {
		fold, err := policy.FoldUntracked(ctx, untracked)
		if err != nil {
			return nil, err
		}
		if fold {
			for _, p := range untracked {
				fp := diff.Live[p]
				if err := r.stage.RecordAdd(ctx, p, fp); err != nil {
					return nil, err
				}
				tracked[p] = fp
				staged[p] = fp
			}
			r.l.Info("folded untracked files", zap.Int("count", len(untracked)))
		}
	}

	_, prev, err := r.tip(ctx)
	if err != nil {
		return nil, err
	}
	var previous store.FileMap
	if prev != nil {
		previous = prev.Snapshot
	}
	// removals leave the stage empty but still change the snapshot
	if tracked.Equal(previous) {
		return nil, status.ErrNothingToCommit
	}
	changed := tracked.ChangedFrom(previous)

	for _, p := range changed.Paths() {
		if err := r.storeContent(ctx, p, changed[p], diff.Live); err != nil {
			return nil, err
		}
	}

	commit := &store.Commit{
		Message:   message,
		Timestamp: r.now().UTC(),
		Author:    r.meta.User,
		Branch:    r.meta.Branch,
		Changed:   changed,
		Snapshot:  tracked.Clone(),
	}
	data, err := commit.CanonicalBytes()
	if err != nil {
		return nil, err
	}
	if commit.ID, err = r.hasher.HashBytes(data); err != nil {
		return nil, err
	}

	if err = r.commits.Put(ctx, commit); err != nil {
		return nil, err
	}
	if err = r.ledger.Append(ctx, r.meta.Branch, commit.ID); err != nil {
		return nil, err
	}
	if err = r.stage.ClearStaged(ctx); err != nil {
		return nil, err
	}

	r.l.Info("committed",
		zap.String("branch", commit.Branch),
		zap.String("commit", commit.ID),
		zap.Int("count", len(changed)),
	)
	return commit, nil
}

// storeContent puts the content of a changed file, unless an object with its fingerprint already exists
func (r *Repository) storeContent(ctx context.Context, pth, fp string, live store.FileMap) error {
	has, err := r.content.Has(ctx, fp)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	if live[pth] != fp {
		return status.ErrContentChanged.WrapMessage(pth)
	}

	f, err := r.ws.Open(pth)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := r.content.Put(ctx, f)
	if err != nil {
		return err
	}
	if res.Key != fp {
		return status.ErrContentChanged.WrapMessage(pth)
	}
	r.l.Debug("stored content", zap.String("path", pth), zap.Int64("size", res.Written))
	return nil
}
