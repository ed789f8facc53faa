package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oneconcern/tico/pkg/blob"
	bloblocalfs "github.com/oneconcern/tico/pkg/blob/localfs"
	"github.com/oneconcern/tico/pkg/cafs"
	"github.com/oneconcern/tico/pkg/engine/status"
	"github.com/oneconcern/tico/pkg/fingerprint"
	"github.com/oneconcern/tico/pkg/store"
	"github.com/oneconcern/tico/pkg/store/bdgr"
	"github.com/oneconcern/tico/pkg/store/instrumented"
	"github.com/oneconcern/tico/pkg/store/localfs"
	"github.com/oneconcern/tico/pkg/workspace"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v2"
)

const (
	metaFile    = "repo.yaml"
	objectsDir  = "objects"
	contentDir  = "content"
	commitsDir  = "commits"
	removedDir  = "rmcommits"
	metaVersion = 1
)

// repoMeta is persisted in the metadata directory
type repoMeta struct {
	Version int    `json:"version" yaml:"version"`
	User    string `json:"user" yaml:"user"`
	Branch  string `json:"branch" yaml:"branch"`
}

// Repository is a working directory under version control
type Repository struct {
	root     string
	metaPath string
	meta     repoMeta

	metaFs  afero.Fs
	ws      *workspace.Workspace
	stage   store.StageStore
	ledger  store.Ledger
	commits store.CommitStore
	content cafs.Fs
	hasher  *fingerprint.Maker
	now     func() time.Time

	l *zap.Logger
}

// Init creates a repository in the root directory, with the default branch.
//
// When username is empty, the user resolver is asked for one.
func Init(ctx context.Context, root, username string, opts ...Option) (*Repository, error) {
	o := defaultOptions(opts)

	if fi, err := os.Stat(root); err == nil && !fi.IsDir() {
		return nil, status.ErrNotADirectory.WrapMessage(root)
	}
	metaPath := filepath.Join(root, o.metaDir)
	if _, err := os.Stat(metaPath); err == nil {
		return nil, status.ErrAlreadyInitialized.WrapMessage(metaPath)
	}

	if username = strings.TrimSpace(username); username == "" {
		username = strings.TrimSpace(o.users.CurrentUser())
	}
	if username == "" {
		return nil, status.ErrNameIsRequired.WrapMessage("user")
	}

	if err := os.MkdirAll(metaPath, 0700); err != nil {
		return nil, status.ErrIOFailure.Wrap(err)
	}

	r, err := build(root, metaPath, o)
	if err != nil {
		return nil, err
	}
	r.meta = repoMeta{Version: metaVersion, User: username, Branch: DefaultBranch}

	if err = r.ledger.Create(ctx, DefaultBranch); err != nil {
		_ = r.Close()
		return nil, err
	}
	if err = r.saveMeta(); err != nil {
		_ = r.Close()
		return nil, err
	}

	r.l.Info("repository initialized", zap.String("root", root), zap.String("user", username))
	return r, nil
}

// Open the repository of the root directory
func Open(ctx context.Context, root string, opts ...Option) (*Repository, error) {
	o := defaultOptions(opts)

	metaPath := filepath.Join(root, o.metaDir)
	if fi, err := os.Stat(metaPath); err != nil || !fi.IsDir() {
		return nil, status.ErrNotInitialized
	}

	r, err := build(root, metaPath, o)
	if err != nil {
		return nil, err
	}
	if err = r.loadMeta(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

func build(root, metaPath string, o options) (*Repository, error) {
	name := filepath.Base(root)
	if abs, err := filepath.Abs(root); err == nil {
		name = filepath.Base(abs)
	}

	metaFs := afero.NewBasePathFs(afero.NewOsFs(), metaPath)
	objects := func(dir string) blob.Store {
		return blob.Instrument(o.tracer, o.logger, blob.Encoded(
			bloblocalfs.New(afero.NewBasePathFs(metaFs, filepath.Join(objectsDir, dir))),
		))
	}

	stage := instrumented.NewStageStore(name, o.tracer, bdgr.NewStageStore(metaPath, o.logger))
	if err := stage.Initialize(); err != nil {
		return nil, errors.Wrap(err, "opening stage")
	}

	return &Repository{
		root:     root,
		metaPath: metaPath,
		metaFs:   metaFs,
		ws: workspace.New(root,
			workspace.WithHasher(o.hasher),
			workspace.Exclude(workspace.DefaultExclusions(o.metaDir)),
			workspace.Logger(o.logger),
		),
		stage:  stage,
		ledger: instrumented.NewLedger(name, o.tracer, localfs.NewLedger(metaFs, o.hasher.HexLen(), o.logger)),
		commits: instrumented.NewCommitStore(name, o.tracer,
			localfs.NewCommitStore(objects(commitsDir), objects(removedDir), o.logger),
		),
		content: cafs.New(
			cafs.Backend(objects(contentDir)),
			cafs.Hasher(o.hasher),
			cafs.Logger(o.logger),
		),
		hasher: o.hasher,
		now:    o.clock,
		l:      o.logger.With(zap.String("repo", name)),
	}, nil
}

// Close the repository
func (r *Repository) Close() error {
	return r.stage.Close()
}

// Root of the working directory
func (r *Repository) Root() string {
	return r.root
}

// CurrentBranch checked out
func (r *Repository) CurrentBranch() string {
	return r.meta.Branch
}

func (r *Repository) loadMeta() error {
	data, err := afero.ReadFile(r.metaFs, metaFile)
	if err != nil {
		if os.IsNotExist(err) {
			return status.ErrNotInitialized
		}
		return status.ErrIOFailure.Wrap(err)
	}
	var m repoMeta
	if err = yaml.Unmarshal(data, &m); err != nil {
		return status.ErrIOFailure.Wrap(errors.Wrapf(err, "decoding %s", metaFile))
	}
	if m.Branch == "" {
		m.Branch = DefaultBranch
	}
	r.meta = m
	return nil
}

func (r *Repository) saveMeta() error {
	data, err := yaml.Marshal(r.meta)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", metaFile)
	}
	if err = afero.WriteFile(r.metaFs, metaFile, data, 0600); err != nil {
		return status.ErrIOFailure.Wrap(err)
	}
	return nil
}

// tip returns the ids of the current branch and its last commit, nil when the ledger is empty
func (r *Repository) tip(ctx context.Context) ([]string, *store.Commit, error) {
	ids, err := r.ledger.ReadAll(ctx, r.meta.Branch)
	if err != nil {
		return nil, nil, err
	}
	if len(ids) == 0 {
		return ids, nil, nil
	}
	c, err := r.commits.Get(ctx, ids[len(ids)-1])
	if err != nil {
		return nil, nil, err
	}
	return ids, c, nil
}
