package observability

import (
	"context"
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kyak15/soccer-analytics/internal/config"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
)

type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitUptrace installs the global OpenTelemetry providers so stage spans and
// SQL spans from the traced database handle are exported. Disabled or
// DSN-less configs get a no-op shutdown.
func InitUptrace(cfg config.Config, logger *logging.Logger) (ShutdownFunc, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("uptrace")

	switch {
	case !cfg.UptraceEnabled:
		logger.Info("tracing export off", "reason", "UPTRACE_ENABLED=false")
		return noopShutdown, nil
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		logger.Info("tracing export off", "reason", "UPTRACE_DSN empty")
		return noopShutdown, nil
	}

	uptrace.ConfigureOpentelemetry(uptraceOptions(cfg)...)
	logger.Info("tracing export on",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"league_id", cfg.FotMobLeagueID,
	)
	return uptrace.Shutdown, nil
}

func uptraceOptions(cfg config.Config) []uptrace.Option {
	return []uptrace.Option{
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(
			attribute.Int("fotmob.league_id", cfg.FotMobLeagueID),
			attribute.String("fotmob.league_slug", cfg.FotMobLeagueSlug),
			attribute.Int("pipeline.workers", cfg.PipelineWorkers),
		),
	}
}
