package instrumentation

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T, detailedLabels bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics(provider.Meter("test"), detailedLabels)
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestRecordCommandInvocation(t *testing.T) {
	m, reader := newTestMetrics(t, false)

	m.RecordCommandInvocation(context.Background(), "github_list_repos", StatusSuccess, "default", 50*time.Millisecond)
	m.RecordCommandInvocation(context.Background(), "github_list_repos", StatusError, "default", 10*time.Millisecond)

	rm := collect(t, reader)

	counter := findMetric(rm, "command_invocations_total")
	if counter == nil {
		t.Fatal("command_invocations_total not recorded")
	}
	sum, ok := counter.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("unexpected data type %T", counter.Data)
	}
	// One data point per status label
	if len(sum.DataPoints) != 2 {
		t.Errorf("expected 2 data points, got %d", len(sum.DataPoints))
	}

	if findMetric(rm, "command_duration_seconds") == nil {
		t.Error("command_duration_seconds not recorded")
	}
}

func TestRecordProviderAPIOperation(t *testing.T) {
	m, reader := newTestMetrics(t, false)

	m.RecordProviderAPIOperation(context.Background(), ServiceGmail, OperationList, StatusSuccess, 120*time.Millisecond)

	rm := collect(t, reader)
	if findMetric(rm, "provider_api_operations_total") == nil {
		t.Error("provider_api_operations_total not recorded")
	}
	if findMetric(rm, "provider_api_operation_duration_seconds") == nil {
		t.Error("provider_api_operation_duration_seconds not recorded")
	}
}

func TestRecordTokenRefresh(t *testing.T) {
	m, reader := newTestMetrics(t, false)

	m.RecordTokenRefresh(context.Background(), "google", RefreshResultSuccess)
	m.RecordTokenRefresh(context.Background(), "google", RefreshResultFailure)

	rm := collect(t, reader)
	counter := findMetric(rm, "oauth_token_refresh_total")
	if counter == nil {
		t.Fatal("oauth_token_refresh_total not recorded")
	}
	sum := counter.Data.(metricdata.Sum[int64])
	if len(sum.DataPoints) != 2 {
		t.Errorf("expected 2 data points, got %d", len(sum.DataPoints))
	}
}

func TestRecordRateLimitThrottle(t *testing.T) {
	m, reader := newTestMetrics(t, false)

	m.RecordRateLimitThrottle(context.Background(), ServiceGmail)

	rm := collect(t, reader)
	if findMetric(rm, "rate_limit_throttle_total") == nil {
		t.Error("rate_limit_throttle_total not recorded")
	}
}

func TestUninitializedMetricsAreNoop(t *testing.T) {
	m := &Metrics{}

	// Must not panic
	m.RecordCommandInvocation(context.Background(), "x", StatusSuccess, "", time.Second)
	m.RecordProviderAPIOperation(context.Background(), ServiceAsana, OperationList, StatusSuccess, time.Second)
	m.RecordTokenRefresh(context.Background(), "google", RefreshResultSuccess)
	m.RecordRateLimitThrottle(context.Background(), ServiceGmail)
}
