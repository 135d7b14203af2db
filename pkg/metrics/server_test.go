package metrics

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const testPort = 5000

func TestMain(m *testing.M) {
	ch := make(chan struct{})
	go RunServer(testPort, ch)

	// give the http handler/server some time to come online before tests run.
	time.Sleep(100 * time.Millisecond)

	code := m.Run()
	close(ch)
	os.Exit(code)
}

func testURL(path string) string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", testPort, path)
}

func TestLivez(t *testing.T) {
	resp, err := http.Get(testURL("/livez"))
	if err != nil {
		t.Fatalf("GET /livez: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestReadyz(t *testing.T) {
	resp, err := http.Get(testURL("/readyz"))
	if err != nil {
		t.Fatalf("GET /readyz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestMetrics_ReportsReconciliationCounters(t *testing.T) {
	stop := CountAndMeasure("onion-key")
	stop()
	ReconcileFailure("onion-key", "kube")

	resp, err := http.Get(testURL("/metrics"))
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	families, err := parseMetrics(resp.Body)
	if err != nil {
		t.Fatalf("parse metrics: %v", err)
	}

	if _, ok := families["tor_operator_reconciliations_total"]; !ok {
		t.Fatalf("missing tor_operator_reconciliations_total")
	}
	if _, ok := families["tor_operator_reconciliation_errors_total"]; !ok {
		t.Fatalf("missing tor_operator_reconciliation_errors_total")
	}
	if _, ok := families["tor_operator_reconcile_duration_seconds"]; !ok {
		t.Fatalf("missing tor_operator_reconcile_duration_seconds")
	}
}

func parseMetrics(r io.Reader) (map[string]*io_prometheus_client.MetricFamily, error) {
	var parser expfmt.TextParser
	return parser.TextToMetricFamilies(r)
}
