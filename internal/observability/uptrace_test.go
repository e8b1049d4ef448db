package observability

import (
	"context"
	"testing"

	"github.com/kyak15/soccer-analytics/internal/config"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "soccer-analytics-pipeline",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitUptrace_EnabledWithoutDSNStaysOff(t *testing.T) {
	cfg := config.Config{UptraceEnabled: true, UptraceDSN: "  "}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, nil)
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestUptraceOptions(t *testing.T) {
	opts := uptraceOptions(config.Config{UptraceDSN: "https://token@api.uptrace.dev/1", FotMobLeagueID: 47})
	if len(opts) != 5 {
		t.Fatalf("expected 5 uptrace options, got %d", len(opts))
	}
}

func TestPyroscopeConfig(t *testing.T) {
	cfg := config.Config{
		AppEnv:                 config.EnvProd,
		ServiceName:            "soccer-analytics-pipeline",
		ServiceVersion:         "1.4.0",
		PyroscopeAppName:       "soccer-analytics-pipeline",
		PyroscopeServerAddress: "http://pyroscope:4040",
		FotMobLeagueID:         47,
	}

	got := pyroscopeConfig(cfg)
	if got.ApplicationName != cfg.PyroscopeAppName || got.ServerAddress != cfg.PyroscopeServerAddress {
		t.Fatalf("unexpected target: %s %s", got.ApplicationName, got.ServerAddress)
	}
	if got.Tags["league_id"] != "47" || got.Tags["env"] != config.EnvProd || got.Tags["version"] != "1.4.0" {
		t.Fatalf("unexpected tags: %+v", got.Tags)
	}
	if len(got.ProfileTypes) == 0 {
		t.Fatalf("expected profile types")
	}
}
