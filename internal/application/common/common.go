// Package common holds the pieces shared by the application services:
// the clock, event publishing fallbacks, tracing and DTO mapping.
package common

import (
	"context"
	stderrors "errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/multivarka/kitchen/internal/domain/shared"
	"github.com/multivarka/kitchen/internal/ports/outbound"
	"github.com/multivarka/kitchen/pkg/errors"
)

// Clock returns the current time
type Clock func() time.Time

// SystemClock reads the wall clock in UTC
func SystemClock() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns t
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// NopPublisher drops every event
type NopPublisher struct{}

// Publish implements outbound.EventPublisher
func (NopPublisher) Publish(context.Context, ...shared.DomainEvent) {}

// Publishers fans every event out to each publisher in order
type Publishers []outbound.EventPublisher

// Publish implements outbound.EventPublisher
func (ps Publishers) Publish(ctx context.Context, events ...shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	for _, p := range ps {
		p.Publish(ctx, events...)
	}
}

const tracerName = "github.com/multivarka/kitchen/internal/application"

// StartSpan opens a span on the global tracer provider
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, opts...)
}

// EndSpan records err on the span before ending it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// PersistenceError passes application errors through and reports anything
// else as a failed store operation
func PersistenceError(operation string, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.NewPersistenceError(operation, err)
}
