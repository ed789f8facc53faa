// Package fingerprint computes content digests for files and records.
//
// A fingerprint is a blake2b digest computed in tree mode: the content is
// split in leaves of a fixed size, each leaf is hashed independently and the
// root digest is computed over the concatenated leaf digests.
package fingerprint

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	units "github.com/docker/go-units"
	blake2b "github.com/minio/blake2b-simd"
	"github.com/spf13/afero"
)

const (
	// DefaultLeafSize for the tree mode
	DefaultLeafSize = 5 * units.MB

	// DefaultSize of a digest in bytes, rendered as twice as many hex characters
	DefaultSize = 32

	innerHashSize = blake2b.Size
)

// Option to configure a fingerprint maker
type Option func(*Maker)

// LeafSize for the tree mode
func LeafSize(sz int64) Option {
	return func(m *Maker) {
		if sz > 0 {
			m.leafSize = uint32(sz)
		}
	}
}

// Size of the root digest in bytes (at most 64)
func Size(sz uint8) Option {
	return func(m *Maker) {
		if sz > 0 && sz <= blake2b.Size {
			m.size = sz
		}
	}
}

// New fingerprint maker
func New(opts ...Option) *Maker {
	m := &Maker{
		leafSize: uint32(DefaultLeafSize),
		size:     DefaultSize,
	}

	for _, apply := range opts {
		apply(m)
	}
	return m
}

// Maker computes fingerprints
type Maker struct {
	size     uint8
	leafSize uint32
}

// HexLen is the length of the hex representation of the fingerprints made by this maker
func (m *Maker) HexLen() int {
	return 2 * int(m.size)
}

// Hash the content of a reader, returns the hex encoded digest
func (m *Maker) Hash(r io.Reader) (string, error) {
	digest, err := m.Sum(r)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(digest), nil
}

// HashBytes returns the hex encoded digest of a byte slice
func (m *Maker) HashBytes(data []byte) (string, error) {
	return m.Hash(bytes.NewReader(data))
}

// Process the file at path on the given file system
func (m *Maker) Process(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return m.Hash(f)
}

// Sum of the content of a reader.
//
// Leaves are read one ahead so the last one can be flagged without knowing the size upfront.
func (m *Maker) Sum(r io.Reader) ([]byte, error) {
	var digests bytes.Buffer

	current, err := m.readLeaf(r)
	if err != nil {
		return nil, err
	}
	for part := uint64(0); ; part++ {
		var next []byte
		if uint32(len(current)) == m.leafSize {
			if next, err = m.readLeaf(r); err != nil {
				return nil, err
			}
		}
		last := len(next) == 0

		digest, err := m.leafDigest(current, part, last)
		if err != nil {
			return nil, err
		}
		digests.Write(digest)

		if last {
			break
		}
		current = next
	}

	root, err := blake2b.New(&blake2b.Config{
		Size: m.size,
		Tree: &blake2b.Tree{
			Fanout:        0,
			MaxDepth:      2,
			LeafSize:      m.leafSize,
			NodeOffset:    0,
			NodeDepth:     1,
			InnerHashSize: innerHashSize,
			IsLastNode:    true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating root hash: %v", err)
	}
	if _, err = io.Copy(root, &digests); err != nil {
		return nil, err
	}
	return root.Sum(nil), nil
}

// readLeaf reads at most one leaf, the buffer grows with the content
func (m *Maker) readLeaf(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(r, int64(m.leafSize))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *Maker) leafDigest(leaf []byte, part uint64, last bool) ([]byte, error) {
	h, err := blake2b.New(&blake2b.Config{
		Size: innerHashSize,
		Tree: &blake2b.Tree{
			Fanout:        0,
			MaxDepth:      2,
			LeafSize:      m.leafSize,
			NodeOffset:    part,
			NodeDepth:     0,
			InnerHashSize: innerHashSize,
			IsLastNode:    last,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating leaf hash: %v", err)
	}
	if _, err = h.Write(leaf); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
