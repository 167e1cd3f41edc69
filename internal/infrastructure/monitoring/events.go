package monitoring

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/multivarka/kitchen/internal/domain/menu"
	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/shared"
)

// EventRecorder turns published domain events into metrics
type EventRecorder struct {
	metrics        *Metrics
	pantryChanges  metric.Int64Counter
	pantryQuantity metric.Float64Histogram
	logger         *zap.Logger
}

// NewEventRecorder creates an event recorder. Pantry instruments come from
// the global meter provider.
func NewEventRecorder(metrics *Metrics, logger *zap.Logger) (*EventRecorder, error) {
	meter := otel.Meter("github.com/multivarka/kitchen/pantry")

	changes, err := meter.Int64Counter("kitchen.pantry.changes",
		metric.WithDescription("Pantry product writes by action"),
	)
	if err != nil {
		return nil, err
	}

	quantity, err := meter.Float64Histogram("kitchen.pantry.quantity",
		metric.WithDescription("Quantity left after a pantry product write"),
	)
	if err != nil {
		return nil, err
	}

	return &EventRecorder{
		metrics:        metrics,
		pantryChanges:  changes,
		pantryQuantity: quantity,
		logger:         logger.Named("events"),
	}, nil
}

// Publish records every event
func (r *EventRecorder) Publish(ctx context.Context, events ...shared.DomainEvent) {
	for _, event := range events {
		r.metrics.RecordDomainEvent(event.EventName())

		switch e := event.(type) {
		case pantry.ProductChanged:
			attrs := metric.WithAttributes(attribute.String("action", e.Action))
			r.pantryChanges.Add(ctx, 1, attrs)
			if e.Action != pantry.ActionDeleted {
				r.pantryQuantity.Record(ctx, e.Quantity, attrs)
			}
		case menu.MealCooked:
			r.metrics.RecordMealCooked(string(e.MealSlot), e.Skipped)
		}

		r.logger.Debug("Domain event", zap.String("event", event.EventName()))
	}
}
