package bdgr

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger"
	"github.com/oneconcern/tico/pkg/store"
	"github.com/oneconcern/tico/pkg/store/status"
	"go.uber.org/zap"
)

const stageDb = "stage"

var (
	stagedPref  = [7]byte{'s', 't', 'a', 'g', 'e', 'd', ':'}
	trackedPref = [8]byte{'t', 'r', 'a', 'c', 'k', 'e', 'd', ':'}
)

var _ store.StageStore = &stageStore{}

// StageOption tunes the badger staging area
type StageOption func(*stageStore)

// MaxTableSize of the badger tables, which bounds the size of a single transaction
func MaxTableSize(sz int64) StageOption {
	return func(s *stageStore) {
		s.maxTableSize = sz
	}
}

// NewStageStore creates a badger based staging area, persisted in baseDir/stage
func NewStageStore(baseDir string, logger *zap.Logger, opts ...StageOption) store.StageStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &stageStore{
		dir: filepath.Join(baseDir, stageDb),
		l:   logger,
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

type stageStore struct {
	dir          string
	maxTableSize int64
	db           *badger.DB
	l            *zap.Logger
	init         sync.Once
	close        sync.Once
}

func (s *stageStore) Initialize() error {
	var err error

	s.init.Do(func() {
		var db *badger.DB
		db, err = makeBadgerDb(s.dir, s.maxTableSize)
		if err != nil {
			return
		}
		s.db = db
	})

	return err
}

func (s *stageStore) Close() error {
	var err error

	s.close.Do(func() {
		if s.db != nil {
			err = releaseBadgerDb(s.dir, s.db)
			if err == nil {
				s.db = nil
			}
		}
	})

	return err
}

func (s *stageStore) Tracked(ctx context.Context) (store.FileMap, error) {
	return s.findByPrefix(trackedPref[:])
}

func (s *stageStore) Staged(ctx context.Context) (store.FileMap, error) {
	return s.findByPrefix(stagedPref[:])
}

func (s *stageStore) Reset(ctx context.Context, tracked, staged store.FileMap) error {
	if !tracked.Includes(staged) {
		return status.ErrInvalidStage
	}

	keys, err := s.keysByPrefix(stagedPref[:], trackedPref[:])
	if err != nil {
		return err
	}
	ops := deletions(keys)
	ops = append(ops, setters(trackedPref[:], tracked)...)
	ops = append(ops, setters(stagedPref[:], staged)...)

	if err = batch(s.db, ops); err != nil {
		return badgerRewriteError(err)
	}
	s.l.Debug("stage reset", zap.Int("tracked", len(tracked)), zap.Int("staged", len(staged)))
	return nil
}

func (s *stageStore) RecordAdd(ctx context.Context, path, fingerprint string) error {
	if path == "" {
		return status.ErrNameIsRequired
	}

	return badgerRewriteError(s.db.Update(func(txn *badger.Txn) error {
		fp := []byte(fingerprint)
		if err := txn.Set(prefixed(trackedPref[:], path), fp); err != nil {
			return err
		}
		return txn.Set(prefixed(stagedPref[:], path), fp)
	}))
}

func (s *stageStore) RecordRemove(ctx context.Context, path string) error {
	if path == "" {
		return status.ErrNameIsRequired
	}

	return badgerRewriteError(s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(prefixed(stagedPref[:], path)); err != nil {
			return err
		}
		return txn.Delete(prefixed(trackedPref[:], path))
	}))
}

func (s *stageStore) ClearStaged(ctx context.Context) error {
	keys, err := s.keysByPrefix(stagedPref[:])
	if err != nil {
		return err
	}
	return badgerRewriteError(batch(s.db, deletions(keys)))
}

func (s *stageStore) findByPrefix(pref []byte) (store.FileMap, error) {
	result := make(store.FileMap)
	verr := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(pref); it.ValidForPrefix(pref); it.Next() {
			item := it.Item()
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			// keys are only valid within the transaction
			result[string(item.Key()[len(pref):])] = store.UnsafeBytesToString(v)
		}
		return nil
	})

	if verr != nil {
		return nil, badgerRewriteError(verr)
	}
	return result, nil
}

func (s *stageStore) keysByPrefix(prefs ...[]byte) ([][]byte, error) {
	var keys [][]byte
	verr := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for _, pref := range prefs {
			for it.Seek(pref); it.ValidForPrefix(pref); it.Next() {
				k := it.Item().Key()
				keys = append(keys, append(make([]byte, 0, len(k)), k...))
			}
		}
		return nil
	})
	if verr != nil {
		return nil, badgerRewriteError(verr)
	}
	return keys, nil
}

func deletions(keys [][]byte) []func(*badger.Txn) error {
	ops := make([]func(*badger.Txn) error, 0, len(keys))
	for _, k := range keys {
		k := k
		ops = append(ops, func(txn *badger.Txn) error { return txn.Delete(k) })
	}
	return ops
}

func setters(pref []byte, m store.FileMap) []func(*badger.Txn) error {
	ops := make([]func(*badger.Txn) error, 0, len(m))
	for pth, fp := range m {
		key, val := prefixed(pref, pth), []byte(fp)
		ops = append(ops, func(txn *badger.Txn) error { return txn.Set(key, val) })
	}
	return ops
}
