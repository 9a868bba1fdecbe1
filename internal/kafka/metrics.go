package kafka

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics tracks domain event publishing, labelled by event type rather than topic
// so dashboards survive a KAFKA_TOPIC_PREFIX change.
type Metrics struct {
	publishDuration metric.Float64Histogram
	published       metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	duration, err := meter.Float64Histogram(
		"event_publish_duration_seconds",
		metric.WithDescription("Time spent handing a domain event to the broker"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create event_publish_duration histogram: %w", err)
	}

	published, err := meter.Int64Counter(
		"events_published_total",
		metric.WithDescription("Domain events published, by event type and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("create events_published counter: %w", err)
	}

	return &Metrics{publishDuration: duration, published: published}, nil
}

// RecordPublish records one publish attempt. A non-nil err counts as a failure.
func (m *Metrics) RecordPublish(ctx context.Context, eventType string, elapsed time.Duration, err error) {
	outcome := "published"
	if err != nil {
		outcome = "failed"
	}

	m.publishDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("event_type", eventType),
	))
	m.published.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.String("outcome", outcome),
	))
}
