// Package status declares error constants returned by the various
// implementations of the interfaces in pkg/store.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/store and one
// of its implementions.
package status

import "github.com/oneconcern/tico/pkg/errors"

var (
	// Sentinel errors returned by implementations of store interfaces

	// ErrNotFound indicates that a referenced path, object or commit is absent
	ErrNotFound = errors.New("not found")

	// ErrInvalidReference indicates an unknown commit id for the ledger of a branch
	ErrInvalidReference = errors.New("invalid commit reference")

	// ErrAmbiguousReference indicates that a commit id prefix matches several entries
	ErrAmbiguousReference = errors.New("ambiguous commit reference")

	// ErrEmptyLedger indicates that an operation required at least one ledger entry
	ErrEmptyLedger = errors.New("ledger is empty")

	// ErrInvalidStage indicates that the staged entries are not a subset of the tracked entries
	ErrInvalidStage = errors.New("staged entries must be tracked")

	// ErrIOFailure wraps an underlying read or write error
	ErrIOFailure = errors.New("i/o failure")

	// ErrNameIsRequired is returned whenever a name is expected but not provided
	ErrNameIsRequired = errors.New("name is required")

	// ErrBranchAlreadyExists is returned when a branch is expected to not exist yet
	ErrBranchAlreadyExists = errors.New("branch already exists")
)
