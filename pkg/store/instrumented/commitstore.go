package instrumented

import (
	"context"

	"github.com/oneconcern/tico/pkg/store"
	opentracing "github.com/opentracing/opentracing-go"
)

// NewCommitStore decorates a commit store with tracing spans
func NewCommitStore(repo string, tr opentracing.Tracer, w store.CommitStore) store.CommitStore {
	return &instrumentedCommits{
		tr:   tracerOrNoop(tr),
		w:    w,
		repo: repo,
	}
}

type instrumentedCommits struct {
	tr   opentracing.Tracer
	w    store.CommitStore
	repo string
}

func (i *instrumentedCommits) Put(ctx context.Context, commit *store.Commit) (err error) {
	traced(ctx, i.tr, i.repo+" put commit", func() { err = i.w.Put(ctx, commit) })
	return
}
func (i *instrumentedCommits) Get(ctx context.Context, id string) (result *store.Commit, err error) {
	traced(ctx, i.tr, i.repo+" get commit "+id, func() { result, err = i.w.Get(ctx, id) })
	return
}
func (i *instrumentedCommits) Has(ctx context.Context, id string) (ok bool, err error) {
	traced(ctx, i.tr, i.repo+" has commit "+id, func() { ok, err = i.w.Has(ctx, id) })
	return
}
func (i *instrumentedCommits) List(ctx context.Context) (result []string, err error) {
	traced(ctx, i.tr, i.repo+" list commits", func() { result, err = i.w.List(ctx) })
	return
}
func (i *instrumentedCommits) Quarantine(ctx context.Context, id string) (err error) {
	traced(ctx, i.tr, i.repo+" quarantine commit "+id, func() { err = i.w.Quarantine(ctx, id) })
	return
}
func (i *instrumentedCommits) ListQuarantined(ctx context.Context) (result []string, err error) {
	traced(ctx, i.tr, i.repo+" list quarantined commits", func() { result, err = i.w.ListQuarantined(ctx) })
	return
}
func (i *instrumentedCommits) GetQuarantined(ctx context.Context, id string) (result *store.Commit, err error) {
	traced(ctx, i.tr, i.repo+" get quarantined commit "+id, func() { result, err = i.w.GetQuarantined(ctx, id) })
	return
}
