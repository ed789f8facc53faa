package cafs

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"

	"github.com/oneconcern/tico/pkg/blob"
	"github.com/oneconcern/tico/pkg/blob/localfs"
	"github.com/oneconcern/tico/pkg/fingerprint"
	"github.com/oneconcern/tico/pkg/store/status"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PutRes holds the result from a Put operation
type PutRes struct {
	Key     string // the fingerprint of the written object
	Written int64  // bytes written, 0 when the object was already present
	Found   bool   // the object was already present
}

// Fs implementations provide content-addressable operations
type Fs interface {
	Put(context.Context, io.Reader) (PutRes, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Has(context.Context, string) (bool, error)
	Keys(context.Context) ([]string, error)
	DeleteIfUnreferenced(context.Context, string, bool) (bool, error)
}

var _ Fs = &defaultFs{}

type defaultFs struct {
	store  blob.Store
	hasher *fingerprint.Maker
	l      *zap.Logger
}

// New content addressable store
func New(opts ...Option) Fs {
	f := &defaultFs{
		hasher: fingerprint.New(),
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(f)
	}
	if f.store == nil {
		f.store = blob.Encoded(localfs.New(nil))
	}
	return f
}

// Put the content of a reader.
//
// When the reader can seek, the content is hashed first then streamed to the store.
// Otherwise it is buffered in memory.
func (f *defaultFs) Put(ctx context.Context, rdr io.Reader) (PutRes, error) {
	var (
		src  io.ReadSeeker
		size int64
	)
	switch r := rdr.(type) {
	case io.ReadSeeker:
		src = r
	default:
		data, err := ioutil.ReadAll(rdr)
		if err != nil {
			return PutRes{}, status.ErrIOFailure.Wrap(err)
		}
		src = bytes.NewReader(data)
	}

	key, err := f.hasher.Hash(src)
	if err != nil {
		return PutRes{}, status.ErrIOFailure.Wrap(err)
	}

	found, err := f.store.Has(ctx, key)
	if err != nil {
		return PutRes{}, status.ErrIOFailure.Wrap(err)
	}
	if found {
		f.l.Debug("content already stored", zap.String("key", key))
		return PutRes{Key: key, Found: true}, nil
	}

	if size, err = src.Seek(0, io.SeekEnd); err != nil {
		return PutRes{}, status.ErrIOFailure.Wrap(err)
	}
	if _, err = src.Seek(0, io.SeekStart); err != nil {
		return PutRes{}, status.ErrIOFailure.Wrap(err)
	}
	if err = f.store.Put(ctx, key, src); err != nil {
		return PutRes{}, status.ErrIOFailure.Wrap(errors.Wrapf(err, "storing content %s", key))
	}

	f.l.Debug("content stored", zap.String("key", key), zap.Int64("size", size))
	return PutRes{Key: key, Written: size}, nil
}

// Get the decoded content for a key
func (f *defaultFs) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := f.store.Has(ctx, key)
	if err != nil {
		return nil, status.ErrIOFailure.Wrap(err)
	}
	if !has {
		return nil, status.ErrNotFound.WrapMessage("content " + key)
	}
	rdr, err := f.store.Get(ctx, key)
	if err != nil {
		return nil, status.ErrIOFailure.Wrap(err)
	}
	return rdr, nil
}

func (f *defaultFs) Has(ctx context.Context, key string) (bool, error) {
	has, err := f.store.Has(ctx, key)
	if err != nil {
		return false, status.ErrIOFailure.Wrap(err)
	}
	return has, nil
}

func (f *defaultFs) Keys(ctx context.Context) ([]string, error) {
	keys, err := f.store.Keys(ctx)
	if err != nil {
		return nil, status.ErrIOFailure.Wrap(err)
	}
	return keys, nil
}

// DeleteIfUnreferenced removes the object for key, unless the caller reports it is still referenced.
//
// Returns true when an object was actually removed.
func (f *defaultFs) DeleteIfUnreferenced(ctx context.Context, key string, stillReferenced bool) (bool, error) {
	if stillReferenced {
		f.l.Debug("content still referenced, kept", zap.String("key", key))
		return false, nil
	}
	has, err := f.store.Has(ctx, key)
	if err != nil {
		return false, status.ErrIOFailure.Wrap(err)
	}
	if !has {
		return false, nil
	}
	if err := f.store.Delete(ctx, key); err != nil {
		return false, status.ErrIOFailure.Wrap(err)
	}
	f.l.Debug("content reclaimed", zap.String("key", key))
	return true, nil
}
