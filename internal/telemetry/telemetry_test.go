package telemetry

import (
	"context"
	"testing"
)

func TestEnabled(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		traces   string
		expected bool
	}{
		{"nothing set", "", "", false},
		{"generic endpoint", "http://localhost:4318", "", true},
		{"traces endpoint", "", "http://localhost:4318/v1/traces", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvEndpoint, tc.endpoint)
			t.Setenv(EnvTracesEndpoint, tc.traces)
			if got := Enabled(); got != tc.expected {
				t.Errorf("Enabled() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestTracerWithoutSetup(t *testing.T) {
	_, span := Tracer("test").Start(context.Background(), "noop")
	defer span.End()
	if span.SpanContext().IsValid() {
		t.Error("spans should be no-ops before Setup")
	}
}
