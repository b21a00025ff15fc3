package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/sportsdata-ingest/internal/config"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var runTracer = otel.Tracer("sportsdata-ingest/cmd/ingest")

// InitUptrace configures global OpenTelemetry providers for Uptrace. The
// returned function flushes pending spans and must run before exit.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.UptraceEnabled || strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Debug("uptrace disabled")
		return func(context.Context) error { return nil }, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
	)

	return uptrace.Shutdown, nil
}

// StartRun opens the root span of one command invocation. Usecase spans only
// record under it.
func StartRun(ctx context.Context, command, runID string) (context.Context, trace.Span) {
	return runTracer.Start(ctx, "ingest."+command,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("ingest.command", command),
			attribute.String("ingest.run_id", runID),
		),
	)
}
