package instrumented

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
)

func traced(ctx context.Context, tr opentracing.Tracer, name string, action func()) {
	parent := opentracing.SpanFromContext(ctx)
	var opts []opentracing.StartSpanOption
	if parent != nil {
		opts = append(opts, opentracing.ChildOf(parent.Context()))
	}
	span := tr.StartSpan(name, opts...)
	defer span.Finish()
	action()
}

func tracerOrNoop(tr opentracing.Tracer) opentracing.Tracer {
	if tr == nil {
		return opentracing.NoopTracer{}
	}
	return tr
}
