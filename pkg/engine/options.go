package engine

import (
	"time"

	"github.com/oneconcern/tico/pkg/fingerprint"
	opentracing "github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

const (
	// DefaultMetaDir holds the repository metadata, below the working directory
	DefaultMetaDir = ".tico"

	// DefaultBranch created by Init
	DefaultBranch = "main"

	// DefaultMessage for commits without a message
	DefaultMessage = "New commit"
)

// Option for a repository
type Option func(*options)

type options struct {
	metaDir string
	logger  *zap.Logger
	tracer  opentracing.Tracer
	hasher  *fingerprint.Maker
	users   UserResolver
	clock   func() time.Time
}

func defaultOptions(opts []Option) options {
	o := options{
		metaDir: DefaultMetaDir,
		logger:  zap.NewNop(),
		tracer:  opentracing.NoopTracer{},
		hasher:  fingerprint.New(),
		users:   OSUser(),
		clock:   time.Now,
	}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// MetaDir sets the name of the metadata directory
func MetaDir(name string) Option {
	return func(o *options) {
		if name != "" {
			o.metaDir = name
		}
	}
}

// Logger for the repository
func Logger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Tracer for the stores
func Tracer(tr opentracing.Tracer) Option {
	return func(o *options) {
		if tr != nil {
			o.tracer = tr
		}
	}
}

// Hasher computes the fingerprints of files and commits
func Hasher(m *fingerprint.Maker) Option {
	return func(o *options) {
		if m != nil {
			o.hasher = m
		}
	}
}

// Users resolves the current user when Init is called without one
func Users(r UserResolver) Option {
	return func(o *options) {
		if r != nil {
			o.users = r
		}
	}
}

// Clock used to timestamp commits
func Clock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}
