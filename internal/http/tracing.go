package http

import (
	"context"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// WithSpan runs fn inside a child span and tags it on failure.
func WithSpan(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	span, ctx2 := tracer.StartSpanFromContext(ctx, name)
	defer span.Finish()
	err := fn(ctx2)
	if err != nil {
		span.SetTag("error", err)
	}
	return err
}
