package otelx

import (
	"context"
	"testing"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("OTEL_SAMPLING_RATIO", "2")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", " collector:4317 ")

	cfg := ConfigFromEnv("availability-service")
	if cfg.Enabled {
		t.Fatal("expected tracing disabled")
	}
	if cfg.SampleRatio != 1 {
		t.Fatalf("expected ratio fallback 1, got %v", cfg.SampleRatio)
	}
	if cfg.OTLPEndpoint != "collector:4317" {
		t.Fatalf("unexpected endpoint %q", cfg.OTLPEndpoint)
	}
}

func TestSetupDisabledIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
