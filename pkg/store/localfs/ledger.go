// Copyright © 2018 One Concern

package localfs

import (
	"context"
	"io"
	"os"
	"path"
	"sort"
	"strconv"

	"github.com/oneconcern/tico/pkg/store"
	"github.com/oneconcern/tico/pkg/store/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var _ store.Ledger = &ledger{}

// NewLedger creates a ledger of commit ids for every branch, on the file system fs.
//
// Each branch owns a file made of fixed width records, one per commit id of length idLen.
// Appending writes at the end of the file, removing entries truncates it.
func NewLedger(fs afero.Fs, idLen int, logger *zap.Logger) store.Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ledger{
		fs:         fs,
		idLen:      idLen,
		recordSize: int64(idLen) + 1,
		l:          logger,
	}
}

type ledger struct {
	fs         afero.Fs
	idLen      int
	recordSize int64
	l          *zap.Logger
}

func (g *ledger) Create(ctx context.Context, branch string) error {
	if err := validBranch(branch); err != nil {
		return err
	}
	ok, err := g.Exists(ctx, branch)
	if err != nil {
		return err
	}
	if ok {
		return status.ErrBranchAlreadyExists.WrapMessage(branch)
	}

	pth := headPath(branch)
	if err = g.fs.MkdirAll(path.Dir(pth), 0700); err != nil {
		return status.ErrIOFailure.Wrap(err)
	}
	f, err := g.fs.OpenFile(pth, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return status.ErrIOFailure.Wrap(err)
	}
	g.l.Debug("branch created", zap.String("branch", branch))
	return ioError(f.Close())
}

func (g *ledger) Exists(ctx context.Context, branch string) (bool, error) {
	if err := validBranch(branch); err != nil {
		return false, err
	}
	ok, err := afero.Exists(g.fs, headPath(branch))
	if err != nil {
		return false, status.ErrIOFailure.Wrap(err)
	}
	return ok, nil
}

func (g *ledger) Branches(ctx context.Context) ([]string, error) {
	ok, err := afero.DirExists(g.fs, branchesDir)
	if err != nil {
		return nil, status.ErrIOFailure.Wrap(err)
	}
	if !ok {
		return nil, nil
	}

	infos, err := afero.ReadDir(g.fs, branchesDir)
	if err != nil {
		return nil, status.ErrIOFailure.Wrap(err)
	}
	var names []string
	for _, fi := range infos {
		if !fi.IsDir() {
			continue
		}
		if ok, _ := afero.Exists(g.fs, headPath(fi.Name())); ok {
			names = append(names, fi.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (g *ledger) Append(ctx context.Context, branch, id string) error {
	if len(id) != g.idLen {
		return status.ErrInvalidReference.WrapMessage("commit id " + strconv.Quote(id) + " has an unexpected length")
	}

	ids, err := g.ReadAll(ctx, branch)
	if err != nil {
		return err
	}
	for _, existing := range ids {
		if existing == id {
			return status.ErrInvalidReference.WrapMessage(id + " is already in the ledger of " + branch)
		}
	}

	f, err := g.fs.OpenFile(headPath(branch), os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return status.ErrIOFailure.Wrap(err)
	}
	if _, err = f.Write(append([]byte(id), recordSuffix)); err != nil {
		_ = f.Close()
		return status.ErrIOFailure.Wrap(err)
	}
	g.l.Debug("ledger append", zap.String("branch", branch), zap.String("commit", id))
	return ioError(f.Close())
}

func (g *ledger) ReadAll(ctx context.Context, branch string) ([]string, error) {
	f, size, err := g.open(branch, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data := make([]byte, size)
	if _, err = io.ReadFull(f, data); err != nil {
		return nil, status.ErrIOFailure.Wrap(err)
	}

	ids := make([]string, 0, size/g.recordSize)
	for off := int64(0); off < size; off += g.recordSize {
		ids = append(ids, string(data[off:off+g.recordSize-1]))
	}
	return ids, nil
}

func (g *ledger) TruncateTo(ctx context.Context, branch, id string) error {
	ids, err := g.ReadAll(ctx, branch)
	if err != nil {
		return err
	}

	keep := -1
	for i, existing := range ids {
		if existing == id {
			keep = i + 1
			break
		}
	}
	if keep < 0 {
		return status.ErrInvalidReference.WrapMessage(id)
	}
	if keep == len(ids) {
		return nil
	}

	f, _, err := g.open(branch, os.O_WRONLY)
	if err != nil {
		return err
	}
	if err = f.Truncate(int64(keep) * g.recordSize); err != nil {
		_ = f.Close()
		return status.ErrIOFailure.Wrap(err)
	}
	g.l.Debug("ledger truncated", zap.String("branch", branch), zap.String("commit", id), zap.Int("removed", len(ids)-keep))
	return ioError(f.Close())
}

func (g *ledger) RemoveLast(ctx context.Context, branch string) (string, error) {
	f, size, err := g.open(branch, os.O_RDWR)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if size == 0 {
		return "", status.ErrEmptyLedger.WrapMessage(branch)
	}

	last := make([]byte, g.recordSize)
	if _, err = f.ReadAt(last, size-g.recordSize); err != nil && err != io.EOF {
		return "", status.ErrIOFailure.Wrap(err)
	}
	if err = f.Truncate(size - g.recordSize); err != nil {
		return "", status.ErrIOFailure.Wrap(err)
	}

	id := string(last[:len(last)-1])
	g.l.Debug("ledger remove last", zap.String("branch", branch), zap.String("commit", id))
	return id, ioError(f.Close())
}

// open the ledger of a branch and check its size is made of whole records
func (g *ledger) open(branch string, flag int) (afero.File, int64, error) {
	if err := validBranch(branch); err != nil {
		return nil, 0, err
	}
	f, err := g.fs.OpenFile(headPath(branch), flag, 0600)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, status.ErrNotFound.WrapMessage("branch " + branch)
		}
		return nil, 0, status.ErrIOFailure.Wrap(err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, status.ErrIOFailure.Wrap(err)
	}
	if fi.Size()%g.recordSize != 0 {
		_ = f.Close()
		return nil, 0, status.ErrIOFailure.WrapMessage("corrupted ledger for branch " + branch)
	}
	return f, fi.Size(), nil
}

func ioError(err error) error {
	if err == nil {
		return nil
	}
	return status.ErrIOFailure.Wrap(err)
}
