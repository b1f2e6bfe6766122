package otel_test

import (
	"context"
	"testing"

	"github.com/example/rewards/internal/config"
	"github.com/example/rewards/internal/platform/otel"
)

func TestSetup_NoopWhenDisabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.OTelConfig
	}{
		{name: "zero config"},
		{name: "endpoint without enable", cfg: config.OTelConfig{Endpoint: "http://192.0.2.1:4318"}},
		{name: "enabled without endpoint", cfg: config.OTelConfig{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shutdown, err := otel.Setup(context.Background(), tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown error: %v", err)
			}
		})
	}
}

func TestSetup_CreatesProviderWhenEnabled(t *testing.T) {
	// Non-routable address so no actual export happens.
	shutdown, err := otel.Setup(context.Background(), config.OTelConfig{
		Enabled:     true,
		Endpoint:    "http://192.0.2.1:4318",
		ServiceName: "rewards-test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// No spans were recorded, so shutdown has nothing to flush.
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
