package telemetry

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestConfigureEnvWithoutKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if ConfigureEnv() {
		t.Error("ConfigureEnv() = true without an API key")
	}
	if got := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); got != "" {
		t.Errorf("headers set without key: %q", got)
	}
}

func TestConfigureEnvBuildsHeaders(t *testing.T) {
	t.Setenv(EnvAPIKey, "abc123")
	t.Setenv(EnvDataset, "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if !ConfigureEnv() {
		t.Fatal("ConfigureEnv() = false with an API key")
	}
	headers := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")
	if !strings.Contains(headers, "x-honeycomb-team=abc123") {
		t.Errorf("headers = %q, missing team", headers)
	}
	if !strings.Contains(headers, "x-honeycomb-dataset=idlequest") {
		t.Errorf("headers = %q, missing default dataset", headers)
	}
	if got := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); got != honeycombEndpoint {
		t.Errorf("endpoint = %q", got)
	}
}

func TestTracersAreUsableBeforeSetup(t *testing.T) {
	_, span := Tracer("test").Start(context.Background(), "test.span")
	span.End()

	_, span = NoopTracer().Start(context.Background(), "test.noop")
	if span.SpanContext().IsValid() {
		t.Error("noop span has a valid context")
	}
	span.End()
}
