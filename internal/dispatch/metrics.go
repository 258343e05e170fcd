package dispatch

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("storedash/dispatch")
	meter  = otel.Meter("storedash/dispatch")
)

// commandMetrics counts dispatched commands by outcome.
type commandMetrics struct {
	commands   metric.Int64Counter
	contention metric.Int64Counter
}

func newCommandMetrics() commandMetrics {
	commands, _ := meter.Int64Counter("dispatch.commands",
		metric.WithDescription("Mutating commands dispatched, by outcome"),
	)
	contention, _ := meter.Int64Counter("dispatch.lock_contention",
		metric.WithDescription("Commands refused because the entity was busy"),
	)
	return commandMetrics{commands: commands, contention: contention}
}

func (m commandMetrics) record(ctx context.Context, command string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.commands.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("command", command),
			attribute.String("outcome", outcome),
		),
	)
}

func (m commandMetrics) recordContention(ctx context.Context, command string) {
	m.contention.Add(ctx, 1, metric.WithAttributes(attribute.String("command", command)))
}

// startSpan opens a client span for one command invocation.
func startSpan(ctx context.Context, command string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "dispatch."+command, trace.WithSpanKind(trace.SpanKindClient))
}
