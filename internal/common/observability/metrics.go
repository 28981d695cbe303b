package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	sessionCounter  otelmetric.Int64Counter
	sessionDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	sessionCounter, _ := meter.Int64Counter(
		"sessions.operations",
		otelmetric.WithDescription("Number of wizard session operations processed"),
	)

	sessionDuration, _ := meter.Float64Histogram(
		"sessions.operation.duration",
		otelmetric.WithDescription("Wizard session operation duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		sessionCounter:  sessionCounter,
		sessionDuration: sessionDuration,
	}
}

func (o *Observability) RecordOperation(ctx context.Context, operation, status string) {
	if o.sessionCounter != nil {
		o.sessionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordOperationDuration(ctx context.Context, operation string, duration time.Duration) {
	if o.sessionDuration != nil {
		o.sessionDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("operation", operation),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
