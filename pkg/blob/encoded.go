package blob

import (
	"context"
	"encoding/base64"
	"io"
)

// Encoded wraps a store so that values are base64 encoded at rest.
//
// Keys are left untouched.
func Encoded(store Store) Store {
	return &encodedStore{store: store}
}

type encodedStore struct {
	store Store
}

func (e *encodedStore) Has(ctx context.Context, key string) (bool, error) {
	return e.store.Has(ctx, key)
}

func (e *encodedStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	rdr, err := e.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return &decodingReader{
		Reader: base64.NewDecoder(base64.StdEncoding, rdr),
		closer: rdr,
	}, nil
}

func (e *encodedStore) Put(ctx context.Context, key string, rdr io.Reader) error {
	return e.store.Put(ctx, key, newEncodingReader(rdr))
}

func (e *encodedStore) Delete(ctx context.Context, key string) error {
	return e.store.Delete(ctx, key)
}

func (e *encodedStore) Keys(ctx context.Context) ([]string, error) {
	return e.store.Keys(ctx)
}

func (e *encodedStore) String() string {
	return "base64+" + e.store.String()
}

type decodingReader struct {
	io.Reader
	closer io.Closer
}

func (d *decodingReader) Close() error {
	return d.closer.Close()
}

// encodingReader base64 encodes its source as it is read.
//
// Raw chunks are a multiple of 3 bytes so padding only occurs on the last one.
type encodingReader struct {
	src     io.Reader
	raw     []byte
	out     []byte
	pending []byte
	eof     bool
}

func newEncodingReader(src io.Reader) *encodingReader {
	const chunk = 3 * 1024
	return &encodingReader{
		src: src,
		raw: make([]byte, chunk),
		out: make([]byte, base64.StdEncoding.EncodedLen(chunk)),
	}
}

func (e *encodingReader) Read(p []byte) (int, error) {
	for len(e.pending) == 0 {
		if e.eof {
			return 0, io.EOF
		}
		n, err := io.ReadFull(e.src, e.raw)
		switch err {
		case nil:
		case io.EOF, io.ErrUnexpectedEOF:
			e.eof = true
		default:
			return 0, err
		}
		if n == 0 {
			continue
		}
		base64.StdEncoding.Encode(e.out, e.raw[:n])
		e.pending = e.out[:base64.StdEncoding.EncodedLen(n)]
	}
	n := copy(p, e.pending)
	e.pending = e.pending[n:]
	return n, nil
}
