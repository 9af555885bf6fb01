package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics bundles the counters the order pipeline reports on.
type PipelineMetrics struct {
	OrdersAccepted metric.Int64Counter
	OrdersRejected metric.Int64Counter
	CodeFallbacks  metric.Int64Counter
}

// NewPipelineMetrics registers the pipeline counters against the global
// meter provider. A no-op provider yields no-op counters, so callers can
// always wire the result.
func NewPipelineMetrics() (*PipelineMetrics, error) {
	meter := otel.Meter("github.com/premiun-cakes/api/internal/services")

	accepted, err := meter.Int64Counter("orders.accepted",
		metric.WithDescription("Orders that passed validation and were persisted."))
	if err != nil {
		return nil, err
	}
	rejected, err := meter.Int64Counter("orders.rejected",
		metric.WithDescription("Order submissions rejected by validation."))
	if err != nil {
		return nil, err
	}
	fallbacks, err := meter.Int64Counter("orders.code_fallbacks",
		metric.WithDescription("Order codes minted via the time-derived fallback after exhausting uniqueness attempts."))
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		OrdersAccepted: accepted,
		OrdersRejected: rejected,
		CodeFallbacks:  fallbacks,
	}, nil
}
