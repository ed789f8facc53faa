package bdgr

import (
	"os"
	"sync"

	"github.com/dgraph-io/badger"
	"github.com/oneconcern/tico/pkg/store"
	"github.com/oneconcern/tico/pkg/store/status"
)

// open databases, indexed by directory: badger holds a lock on its directory
var dbs sync.Map

func makeBadgerDb(dir string, maxTableSize int64) (*badger.DB, error) {
	if v, ok := dbs.Load(dir); ok {
		return v.(*badger.DB), nil
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, status.ErrIOFailure.Wrap(err)
	}
	bopts := badger.DefaultOptions
	bopts.Dir = dir
	bopts.ValueDir = dir
	if maxTableSize > 0 {
		bopts.MaxTableSize = maxTableSize
	}

	v, err := badger.Open(bopts)
	if err != nil {
		return nil, status.ErrIOFailure.Wrap(err)
	}
	dbs.Store(dir, v)
	return v, nil
}

func releaseBadgerDb(dir string, db *badger.DB) error {
	dbs.Delete(dir)
	return db.Close()
}

func badgerRewriteError(err error) error {
	switch err {
	case nil:
		return nil
	case badger.ErrKeyNotFound:
		return status.ErrNotFound
	case badger.ErrEmptyKey:
		return status.ErrNameIsRequired
	default:
		return status.ErrIOFailure.Wrap(err)
	}
}

func prefixed(pref []byte, key string) []byte {
	k := make([]byte, 0, len(pref)+len(key))
	k = append(k, pref...)
	return append(k, store.UnsafeStringToBytes(key)...)
}

// batch applies the operations in as many transactions as badger needs.
//
// Transactions committed before a failure stay committed.
func batch(db *badger.DB, ops []func(*badger.Txn) error) error {
	txn := db.NewTransaction(true)
	defer func() {
		txn.Discard()
	}()

	for _, op := range ops {
		err := op(txn)
		if err == badger.ErrTxnTooBig {
			if err = txn.Commit(nil); err != nil {
				return err
			}
			txn = db.NewTransaction(true)
			err = op(txn)
		}
		if err != nil {
			return err
		}
	}
	return txn.Commit(nil)
}
