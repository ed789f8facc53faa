package store

import "context"

// A StageStore persists the staging area of a working directory.
//
// It holds two maps of relative path to fingerprint: the tracked map is the full logical
// working set, the staged map is the part of it not folded into a commit yet.
// Every staged entry is also tracked.
type StageStore interface {
	Initialize() error
	Close() error

	Tracked(context.Context) (FileMap, error)
	Staged(context.Context) (FileMap, error)

	// Reset overwrites both maps
	Reset(ctx context.Context, tracked, staged FileMap) error

	// RecordAdd sets the fingerprint for a path in both maps
	RecordAdd(ctx context.Context, path, fingerprint string) error

	// RecordRemove deletes a path from both maps
	RecordRemove(ctx context.Context, path string) error

	ClearStaged(context.Context) error
}

// A Ledger manages the ordered list of commit ids of each branch.
//
// Entries are appended, and only a contiguous suffix is ever removed.
type Ledger interface {
	Create(ctx context.Context, branch string) error
	Exists(ctx context.Context, branch string) (bool, error)
	Branches(context.Context) ([]string, error)

	Append(ctx context.Context, branch, id string) error
	ReadAll(ctx context.Context, branch string) ([]string, error)
	TruncateTo(ctx context.Context, branch, id string) error
	RemoveLast(ctx context.Context, branch string) (string, error)
}

// A CommitStore manages persistence for commit records.
//
// Removed commits are quarantined: moved to a retained but inactive area.
type CommitStore interface {
	Put(context.Context, *Commit) error
	Get(context.Context, string) (*Commit, error)
	Has(context.Context, string) (bool, error)
	List(context.Context) ([]string, error)

	Quarantine(context.Context, string) error
	ListQuarantined(context.Context) ([]string, error)
	GetQuarantined(context.Context, string) (*Commit, error)
}
