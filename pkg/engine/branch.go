package engine

import (
	"context"
	"os"
	"path/filepath"

	"github.com/oneconcern/tico/pkg/engine/status"
	"github.com/oneconcern/tico/pkg/store"
	"github.com/oneconcern/tico/pkg/workspace"
	"go.uber.org/zap"
)

// BranchInfo describes a branch
type BranchInfo struct {
	Name    string `json:"name" yaml:"name"`
	Current bool   `json:"current" yaml:"current"`
	Commits int    `json:"commits" yaml:"commits"`
	Head    string `json:"head,omitempty" yaml:"head,omitempty"`
}

// Branch switches to a branch, creating it when it does not exist yet.
//
// A new branch starts empty: the working directory and the stage are cleared.
// Switching to an existing branch replays the snapshot of its last commit.
// Returns true when the branch was created.
func (r *Repository) Branch(ctx context.Context, name string) (bool, error) {
	exists, err := r.ledger.Exists(ctx, name)
	if err != nil {
		return false, err
	}

	var head *store.Commit
	if exists {
		ids, err := r.ledger.ReadAll(ctx, name)
		if err != nil {
			return false, err
		}
		if len(ids) > 0 {
			if head, err = r.commits.Get(ctx, ids[len(ids)-1]); err != nil {
				return false, err
			}
		}
	} else if err = r.ledger.Create(ctx, name); err != nil {
		return false, err
	}

	if err = r.replay(ctx, head); err != nil {
		return false, err
	}

	r.meta.Branch = name
	if err = r.saveMeta(); err != nil {
		return false, err
	}

	r.l.Info("switched branch", zap.String("branch", name), zap.Bool("created", !exists))
	return !exists, nil
}

// Branches lists the branches of the repository
func (r *Repository) Branches(ctx context.Context) ([]BranchInfo, error) {
	names, err := r.ledger.Branches(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]BranchInfo, 0, len(names))
	for _, name := range names {
		ids, err := r.ledger.ReadAll(ctx, name)
		if err != nil {
			return nil, err
		}
		info := BranchInfo{
			Name:    name,
			Current: name == r.meta.Branch,
			Commits: len(ids),
		}
		if len(ids) > 0 {
			info.Head = ids[len(ids)-1]
		}
		res = append(res, info)
	}
	return res, nil
}

// Export writes the files of the last commit of the current branch below the target directory.
//
// A relative target is resolved against the root of the working directory, like the paths given to Add.
// The repository is left untouched.
func (r *Repository) Export(ctx context.Context, target string) (*store.Commit, error) {
	if !filepath.IsAbs(target) {
		target = filepath.Join(r.root, target)
	}
	if fi, err := os.Stat(target); err == nil && !fi.IsDir() {
		return nil, status.ErrNotADirectory.WrapMessage(target)
	}

	_, head, err := r.tip(ctx)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, status.ErrNoCommits
	}

	if err = os.MkdirAll(target, 0755); err != nil {
		return nil, status.ErrIOFailure.Wrap(err)
	}
	out := workspace.New(target, workspace.Logger(r.l))
	if err = out.Restore(ctx, head.Snapshot, r.content); err != nil {
		return nil, err
	}

	r.l.Info("exported", zap.String("target", target), zap.String("commit", head.ID), zap.Int("count", len(head.Snapshot)))
	return head, nil
}
