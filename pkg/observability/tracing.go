package observability

import (
	"context"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Tracer wraps store calls in X-Ray subsegments. A nil Tracer, or a context
// without an open segment, runs the wrapped function untraced.
type Tracer struct {
	serviceName string
}

// NewTracer creates a new tracer instance. It returns nil when disabled.
func NewTracer(serviceName string, enabled bool) *Tracer {
	if !enabled {
		return nil
	}
	return &Tracer{serviceName: serviceName}
}

// TraceFunction runs fn inside a subsegment named name
func (t *Tracer) TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error {
	if t == nil || xray.GetSegment(ctx) == nil {
		return fn(ctx)
	}

	ctx, seg := xray.BeginSubsegment(ctx, name)
	seg.AddAnnotation("service", t.serviceName)

	err := fn(ctx)
	seg.Close(err)
	return err
}

// AddAnnotation adds an indexed annotation to the current segment
func (t *Tracer) AddAnnotation(ctx context.Context, key string, value string) {
	if t == nil {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddAnnotation(key, value)
	}
}
