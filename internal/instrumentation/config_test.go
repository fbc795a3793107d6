package instrumentation

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.ServiceName != "atomd" {
		t.Errorf("expected default service name 'atomd', got %q", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("expected instrumentation enabled by default")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("expected default metrics exporter 'prometheus', got %q", config.MetricsExporter)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("expected default tracing exporter 'none', got %q", config.TracingExporter)
	}
	if config.DetailedLabels {
		t.Error("expected detailed labels off by default")
	}
}

func TestDefaultConfigEnvOverrides(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "atomd-test")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")

	config := DefaultConfig()

	if config.ServiceName != "atomd-test" {
		t.Errorf("expected service name from env, got %q", config.ServiceName)
	}
	if config.Enabled {
		t.Error("expected instrumentation disabled via env")
	}
	if config.MetricsExporter != ExporterStdout {
		t.Errorf("expected stdout exporter from env, got %q", config.MetricsExporter)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad sampling rate", func(c *Config) { c.TraceSamplingRate = 1.5 }, true},
		{"bad metrics exporter", func(c *Config) { c.MetricsExporter = "statsd" }, true},
		{"bad tracing exporter", func(c *Config) { c.TracingExporter = "jaeger" }, true},
		{"otlp metrics without endpoint", func(c *Config) { c.MetricsExporter = ExporterOTLP }, true},
		{"otlp tracing without endpoint", func(c *Config) { c.TracingExporter = ExporterOTLP }, true},
		{"otlp with endpoint", func(c *Config) {
			c.MetricsExporter = ExporterOTLP
			c.OTLPEndpoint = "localhost:4318"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			err := config.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
