package event

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/agencyhub/backend/internal/domain/shared"
)

// ActivityLogHandler writes every domain event to the structured log,
// giving operators a per-agency activity trail without touching the
// request path.
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates a new ActivityLogHandler
func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{logger: logger}
}

// Handle logs the event envelope
func (h *ActivityLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("Domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("agency_id", event.AgencyID().String()),
		zap.Time("occurred_at", event.OccurredAt()))
	return nil
}

// EventTypes returns nil so the handler receives all events
func (h *ActivityLogHandler) EventTypes() []string {
	return nil
}

// MetricsHandler counts domain events by type and aggregate via
// OpenTelemetry. With telemetry disabled the counter is a no-op.
type MetricsHandler struct {
	counter metric.Int64Counter
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler() (*MetricsHandler, error) {
	meter := otel.Meter("agencyhub/events")
	counter, err := meter.Int64Counter("domain_events_total",
		metric.WithDescription("Number of domain events published"))
	if err != nil {
		return nil, fmt.Errorf("failed to create domain event counter: %w", err)
	}
	return &MetricsHandler{counter: counter}, nil
}

// Handle increments the event counter
func (h *MetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.counter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("event_type", event.EventType()),
			attribute.String("aggregate_type", event.AggregateType()),
		))
	return nil
}

// EventTypes returns nil so the handler receives all events
func (h *MetricsHandler) EventTypes() []string {
	return nil
}

var (
	_ shared.EventHandler = (*ActivityLogHandler)(nil)
	_ shared.EventHandler = (*MetricsHandler)(nil)
)
