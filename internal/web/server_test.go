package web

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/swr-monitor/internal/meter"
	"github.com/sweeney/swr-monitor/internal/status"
)

func startServer(t *testing.T) (*status.Tracker, string) {
	t.Helper()

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:       50,
		SWRThreshold: 12,
		ADCBackend:   "mcp3008",
		Broker:       "tcp://192.168.1.200:1883",
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := New(ln.Addr().String(), tracker)
	go srv.Serve(ln)
	t.Cleanup(func() { ln.Close() })

	return tracker, "http://" + ln.Addr().String()
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestIndexHTML(t *testing.T) {
	tracker, base := startServer(t)
	tracker.Update(12, 95, false, true, true, meter.EventCounts{Trips: 2, Releases: 2})

	resp, body := get(t, base+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: got %q", ct)
	}
	if !strings.Contains(body, "SWR Monitor") {
		t.Error("page missing title")
	}
	if !strings.Contains(body, "1.2") {
		t.Error("page missing formatted SWR")
	}
	if !strings.Contains(body, "NORMAL") {
		t.Error("page missing interlock state")
	}
}

func TestIndexJSON(t *testing.T) {
	tracker, base := startServer(t)
	tracker.Update(35, 40, true, true, true, meter.EventCounts{Trips: 1})

	resp, body := get(t, base+"/index.json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var parsed status.StatusJSON
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.SWRRaw != 35 || parsed.Status.Interlock != "ASSERTED" {
		t.Errorf("payload: got %+v", parsed.Status)
	}
}

func TestUnknownPath(t *testing.T) {
	_, base := startServer(t)

	resp, _ := get(t, base+"/nothing-here")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}
