package instrumented

import (
	"context"

	"github.com/oneconcern/tico/pkg/store"
	opentracing "github.com/opentracing/opentracing-go"
)

// NewStageStore decorates a stage store with tracing spans
func NewStageStore(repo string, tr opentracing.Tracer, w store.StageStore) store.StageStore {
	return &instrumentedStage{
		tr:   tracerOrNoop(tr),
		w:    w,
		repo: repo,
	}
}

type instrumentedStage struct {
	tr   opentracing.Tracer
	w    store.StageStore
	repo string
}

func (i *instrumentedStage) Initialize() error { return i.w.Initialize() }
func (i *instrumentedStage) Close() error      { return i.w.Close() }

func (i *instrumentedStage) Tracked(ctx context.Context) (result store.FileMap, err error) {
	traced(ctx, i.tr, i.repo+" list tracked", func() { result, err = i.w.Tracked(ctx) })
	return
}
func (i *instrumentedStage) Staged(ctx context.Context) (result store.FileMap, err error) {
	traced(ctx, i.tr, i.repo+" list staged", func() { result, err = i.w.Staged(ctx) })
	return
}
func (i *instrumentedStage) Reset(ctx context.Context, tracked, staged store.FileMap) (err error) {
	traced(ctx, i.tr, i.repo+" reset stage", func() { err = i.w.Reset(ctx, tracked, staged) })
	return
}
func (i *instrumentedStage) RecordAdd(ctx context.Context, path, fingerprint string) (err error) {
	traced(ctx, i.tr, i.repo+" add to stage "+path, func() { err = i.w.RecordAdd(ctx, path, fingerprint) })
	return
}
func (i *instrumentedStage) RecordRemove(ctx context.Context, path string) (err error) {
	traced(ctx, i.tr, i.repo+" remove from stage "+path, func() { err = i.w.RecordRemove(ctx, path) })
	return
}
func (i *instrumentedStage) ClearStaged(ctx context.Context) (err error) {
	traced(ctx, i.tr, i.repo+" clear stage", func() { err = i.w.ClearStaged(ctx) })
	return
}
