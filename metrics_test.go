package codex

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type metricsSample struct {
	Name string
	Age  int
}

func TestMetrics_Resolutions(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(WithMetrics(reg))

	if _, err := r.Resolve(TypeOf[metricsSample]()); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if _, err := r.Resolve(TypeOf[metricsSample]()); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if _, err := r.Resolve(TypeOf[chan int]()); err == nil {
		t.Fatal("Resolve(chan) should fail")
	}

	tests := []struct {
		result string
		want   float64
	}{
		{"miss", 1},
		{"hit", 1},
		{"error", 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(r.metrics.resolutions.WithLabelValues(tt.result)); got != tt.want {
			t.Errorf("codex_resolve_total{result=%q} = %v, want %v", tt.result, got, tt.want)
		}
	}
}

func TestMetrics_CodecOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(WithMetrics(reg))
	c := MustCodecFor[metricsSample](r)
	ctx := context.Background()

	tree, err := c.Encode(ctx, metricsSample{Name: "Ann", Age: 30}, testOps{})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if _, err := c.Decode(ctx, testOps{}, tree); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if _, err := c.Decode(ctx, testOps{}, map[string]any{"Name": "Ann"}); err == nil {
		t.Fatal("Decode() without a required key should fail")
	}

	if got := testutil.ToFloat64(r.metrics.operations.WithLabelValues("encode", "ok")); got != 1 {
		t.Errorf("encode ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.metrics.operations.WithLabelValues("decode", "ok")); got != 1 {
		t.Errorf("decode ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.metrics.operations.WithLabelValues("decode", "error")); got != 1 {
		t.Errorf("decode error = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(r.metrics.duration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics
	m.resolved("hit")
	m.observe("encode", 0, nil)
}
