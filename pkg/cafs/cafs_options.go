package cafs

import (
	"github.com/oneconcern/tico/pkg/blob"
	"github.com/oneconcern/tico/pkg/fingerprint"
	"go.uber.org/zap"
)

// Option to configure content addressable store components
type Option func(*defaultFs)

// Backend sets the blob store holding the objects
func Backend(store blob.Store) Option {
	return func(w *defaultFs) {
		w.store = store
	}
}

// Hasher sets the fingerprint maker used to compute keys
func Hasher(m *fingerprint.Maker) Option {
	return func(w *defaultFs) {
		w.hasher = m
	}
}

// Logger for the store
func Logger(l *zap.Logger) Option {
	return func(w *defaultFs) {
		if l != nil {
			w.l = l
		}
	}
}
