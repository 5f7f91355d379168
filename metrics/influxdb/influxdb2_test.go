package influxdb

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rotblauer/av2kml/params"
)

func TestExportDisabled(t *testing.T) {
	if err := Export(&params.InfluxConfig{}, Run{Command: "hdmaps"}); err != nil {
		t.Errorf("Expected no-op, got %v", err)
	}
	if err := Export(nil, Run{Command: "hdmaps"}); err != nil {
		t.Errorf("Expected no-op, got %v", err)
	}
}

func TestExportWritesLineProtocol(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		query = r.URL.RawQuery
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := &params.InfluxConfig{URL: srv.URL, Token: "t", Org: "av", Bucket: "runs"}
	err := Export(cfg, Run{
		Command: "forecast",
		Time:    time.Unix(1700000000, 0),
		Tags:    map[string]string{"split": "test"},
		Fields:  map[string]any{"scenarios": 12, "rejected": 3},
	})
	if err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	body := strings.Join(bodies, "")
	for _, want := range []string{Measurement, "command=forecast", "split=test", "scenarios=12i", "rejected=3i", "1700000000"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in %q", want, body)
		}
	}
	if !strings.Contains(query, "bucket=runs") || !strings.Contains(query, "org=av") {
		t.Errorf("unexpected query %q", query)
	}
}

func TestExportServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := &params.InfluxConfig{URL: srv.URL, Org: "av", Bucket: "runs"}
	if err := Export(cfg, Run{Command: "hdmaps", Fields: map[string]any{"logs": 1}}); err == nil {
		t.Error("Expected an error from the write API")
	}
}
