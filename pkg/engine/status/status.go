// Package status exports errors produced by the engine package.
package status

import (
	"github.com/oneconcern/tico/pkg/errors"
	storestatus "github.com/oneconcern/tico/pkg/store/status"
)

var (
	// ErrAlreadyInitialized indicates that the working directory already carries a repository
	ErrAlreadyInitialized = errors.New("repository already initialized")

	// ErrNotInitialized indicates that the working directory carries no repository
	ErrNotInitialized = errors.New("repository is not initialized, run: tico init")

	// ErrNotADirectory indicates that an export target names an existing file
	ErrNotADirectory = errors.New("path is not a directory")

	// ErrNothingToCommit indicates that neither staged changes nor untracked files exist
	ErrNothingToCommit = errors.New("nothing to commit, your directory is up to date")

	// ErrNothingToUndo indicates that the ledger of the current branch is empty
	ErrNothingToUndo = errors.New("no commits to undo")

	// ErrNoCommits indicates that an operation requires at least one commit on the current branch
	ErrNoCommits = errors.New("no commits done")

	// ErrContentChanged indicates that a staged file changed on disk after it was added
	ErrContentChanged = errors.New("file content changed since it was added")

	// ErrNotFound is the store error for absent paths, objects and commits
	ErrNotFound = storestatus.ErrNotFound

	// ErrInvalidReference is the store error for unknown commit ids
	ErrInvalidReference = storestatus.ErrInvalidReference

	// ErrAmbiguousReference is the store error for commit id prefixes matching several commits
	ErrAmbiguousReference = storestatus.ErrAmbiguousReference

	// ErrNameIsRequired is the store error for missing branch or user names
	ErrNameIsRequired = storestatus.ErrNameIsRequired

	// ErrIOFailure is the store error for underlying read/write errors
	ErrIOFailure = storestatus.ErrIOFailure
)
