package blob

import (
	"context"
	"io"

	"github.com/oneconcern/tico/pkg/store/status"
)

// ErrNotFound is returned when a key is absent from a store
var ErrNotFound = status.ErrNotFound

// Store implementations know how to write entries to a flat K/V store.
//
// Typically this is something file system-like, e.g. a directory on the local FS.
// Implementations of this interface are assumed to be fairly simple.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
}
