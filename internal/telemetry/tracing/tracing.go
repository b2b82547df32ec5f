package tracing

import (
	"fmt"

	"github.com/honeycombio/otel-config-go/otelconfig"
	"go.opentelemetry.io/otel"
)

var GlobalTracer = otel.Tracer("fitbuddy-backend")

// HoneycombSetup configures the OpenTelemetry SDK via the honeycomb
// otel-config distro. The returned shutdown func flushes pending spans
// and must be called on service teardown.
func HoneycombSetup(tracingEnabled bool, serviceName string) (func(), error) {
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(serviceName),
		otelconfig.WithTracesEnabled(tracingEnabled),
		otelconfig.WithMetricsEnabled(false),
	)
	if err != nil {
		return nil, fmt.Errorf("configure opentelemetry: %w", err)
	}
	return otelShutdown, nil
}
