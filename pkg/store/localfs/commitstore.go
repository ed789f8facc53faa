// Copyright © 2018 One Concern

package localfs

import (
	"bytes"
	"context"
	"io/ioutil"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/tico/pkg/blob"
	"github.com/oneconcern/tico/pkg/store"
	"github.com/oneconcern/tico/pkg/store/status"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var _ store.CommitStore = &commitStore{}

// NewCommitStore creates a commit store.
//
// Active records live in the active blob store, quarantined ones are moved to the removed blob store.
func NewCommitStore(active, removed blob.Store, logger *zap.Logger) store.CommitStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &commitStore{
		active:  active,
		removed: removed,
		l:       logger,
	}
}

type commitStore struct {
	active  blob.Store
	removed blob.Store
	l       *zap.Logger
}

func (c *commitStore) Put(ctx context.Context, commit *store.Commit) error {
	if commit == nil || commit.ID == "" {
		return status.ErrNameIsRequired.WrapMessage("commit id")
	}
	data, err := jsoniter.Marshal(commit)
	if err != nil {
		return errors.Wrapf(err, "encoding commit %s", commit.ID)
	}
	if err := c.active.Put(ctx, commit.ID, bytes.NewReader(data)); err != nil {
		return status.ErrIOFailure.Wrap(err)
	}
	c.l.Debug("commit stored", zap.String("commit", commit.ID))
	return nil
}

func (c *commitStore) Get(ctx context.Context, id string) (*store.Commit, error) {
	return c.read(ctx, c.active, id)
}

func (c *commitStore) GetQuarantined(ctx context.Context, id string) (*store.Commit, error) {
	return c.read(ctx, c.removed, id)
}

func (c *commitStore) Has(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	ok, err := c.active.Has(ctx, id)
	if err != nil {
		return false, status.ErrIOFailure.Wrap(err)
	}
	return ok, nil
}

func (c *commitStore) List(ctx context.Context) ([]string, error) {
	return keys(ctx, c.active)
}

func (c *commitStore) ListQuarantined(ctx context.Context) ([]string, error) {
	return keys(ctx, c.removed)
}

// Quarantine moves a record to the removed area.
//
// The record is copied first, then deleted from the active area.
func (c *commitStore) Quarantine(ctx context.Context, id string) error {
	data, err := c.raw(ctx, c.active, id)
	if err != nil {
		return err
	}
	if err = c.removed.Put(ctx, id, bytes.NewReader(data)); err != nil {
		return status.ErrIOFailure.Wrap(err)
	}
	if err = c.active.Delete(ctx, id); err != nil {
		return status.ErrIOFailure.Wrap(err)
	}
	c.l.Debug("commit quarantined", zap.String("commit", id))
	return nil
}

func (c *commitStore) read(ctx context.Context, bs blob.Store, id string) (*store.Commit, error) {
	data, err := c.raw(ctx, bs, id)
	if err != nil {
		return nil, err
	}
	var commit store.Commit
	if err := jsoniter.Unmarshal(data, &commit); err != nil {
		return nil, status.ErrIOFailure.Wrap(errors.Wrapf(err, "decoding commit %s", id))
	}
	return &commit, nil
}

func (c *commitStore) raw(ctx context.Context, bs blob.Store, id string) ([]byte, error) {
	if id == "" {
		return nil, status.ErrNotFound.WrapMessage("empty commit id")
	}
	ok, err := bs.Has(ctx, id)
	if err != nil {
		return nil, status.ErrIOFailure.Wrap(err)
	}
	if !ok {
		return nil, status.ErrNotFound.WrapMessage("commit " + id)
	}
	rdr, err := bs.Get(ctx, id)
	if err != nil {
		return nil, status.ErrIOFailure.Wrap(err)
	}
	defer rdr.Close()

	data, err := ioutil.ReadAll(rdr)
	if err != nil {
		return nil, status.ErrIOFailure.Wrap(err)
	}
	return data, nil
}

func keys(ctx context.Context, bs blob.Store) ([]string, error) {
	ks, err := bs.Keys(ctx)
	if err != nil {
		return nil, status.ErrIOFailure.Wrap(err)
	}
	sort.Strings(ks)
	return ks, nil
}
