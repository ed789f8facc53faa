package instrumented

import (
	"context"

	"github.com/oneconcern/tico/pkg/store"
	opentracing "github.com/opentracing/opentracing-go"
)

// NewLedger decorates a ledger with tracing spans
func NewLedger(repo string, tr opentracing.Tracer, w store.Ledger) store.Ledger {
	return &instrumentedLedger{
		tr:   tracerOrNoop(tr),
		w:    w,
		repo: repo,
	}
}

type instrumentedLedger struct {
	tr   opentracing.Tracer
	w    store.Ledger
	repo string
}

func (i *instrumentedLedger) Create(ctx context.Context, branch string) (err error) {
	traced(ctx, i.tr, i.repo+" create branch "+branch, func() { err = i.w.Create(ctx, branch) })
	return
}
func (i *instrumentedLedger) Exists(ctx context.Context, branch string) (ok bool, err error) {
	traced(ctx, i.tr, i.repo+" branch exists "+branch, func() { ok, err = i.w.Exists(ctx, branch) })
	return
}
func (i *instrumentedLedger) Branches(ctx context.Context) (result []string, err error) {
	traced(ctx, i.tr, i.repo+" list branches", func() { result, err = i.w.Branches(ctx) })
	return
}
func (i *instrumentedLedger) Append(ctx context.Context, branch, id string) (err error) {
	traced(ctx, i.tr, i.repo+" append "+id+" to "+branch, func() { err = i.w.Append(ctx, branch, id) })
	return
}
func (i *instrumentedLedger) ReadAll(ctx context.Context, branch string) (result []string, err error) {
	traced(ctx, i.tr, i.repo+" read ledger "+branch, func() { result, err = i.w.ReadAll(ctx, branch) })
	return
}
func (i *instrumentedLedger) TruncateTo(ctx context.Context, branch, id string) (err error) {
	traced(ctx, i.tr, i.repo+" truncate "+branch+" to "+id, func() { err = i.w.TruncateTo(ctx, branch, id) })
	return
}
func (i *instrumentedLedger) RemoveLast(ctx context.Context, branch string) (id string, err error) {
	traced(ctx, i.tr, i.repo+" remove last from "+branch, func() { id, err = i.w.RemoveLast(ctx, branch) })
	return
}
