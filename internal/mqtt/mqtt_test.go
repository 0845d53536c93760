package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/swr-monitor/internal/meter"
)

func TestFormatPayload(t *testing.T) {
	event := meter.Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Type:      meter.EventInterlockOn,
		SWR:       18,
		Power:     85,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Monitor.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Monitor.Timestamp)
	}
	if parsed.Monitor.Event != "INTERLOCK_ON" {
		t.Errorf("unexpected event: %s", parsed.Monitor.Event)
	}
	if parsed.Monitor.SWR != "1.8" {
		t.Errorf("unexpected swr: %s", parsed.Monitor.SWR)
	}
	if parsed.Monitor.SWRRaw != 18 {
		t.Errorf("unexpected swr_x10: %d", parsed.Monitor.SWRRaw)
	}
	if parsed.Monitor.PowerWatts != 85 {
		t.Errorf("unexpected power: %d", parsed.Monitor.PowerWatts)
	}
	if parsed.Monitor.Interlock != "ASSERTED" {
		t.Errorf("unexpected interlock: %s", parsed.Monitor.Interlock)
	}
}

func TestFormatPayloadRelease(t *testing.T) {
	event := meter.Event{
		Timestamp: time.Date(2026, 2, 2, 22, 20, 0, 0, time.UTC),
		Type:      meter.EventInterlockOff,
		SWR:       10,
		Power:     100,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Monitor.Event != "INTERLOCK_OFF" {
		t.Errorf("unexpected event: %s", parsed.Monitor.Event)
	}
	if parsed.Monitor.Interlock != "NORMAL" {
		t.Errorf("unexpected interlock: %s", parsed.Monitor.Interlock)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.System.Event != "SHUTDOWN" {
		t.Errorf("unexpected event: %s", parsed.System.Event)
	}
	if parsed.System.Reason != "SIGTERM" {
		t.Errorf("unexpected reason: %s", parsed.System.Reason)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	payload, err := FormatSystemPayload(SystemEvent{RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload must pass through unchanged, got %s", payload)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	event := meter.Event{
		Timestamp: time.Now(),
		Type:      meter.EventInterlockOn,
		SWR:       25,
		Power:     40,
	}
	if err := f.Publish(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Events) != 1 || f.Events[0].SWR != 25 {
		t.Errorf("events: got %+v", f.Events)
	}
	if len(f.Payloads) != 1 {
		t.Errorf("payloads: got %d, want 1", len(f.Payloads))
	}

	if err := f.PublishSystem(SystemEvent{Event: "HEARTBEAT"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.SystemEvents) != 1 {
		t.Errorf("system events: got %d, want 1", len(f.SystemEvents))
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")

	if err := f.Publish(meter.Event{}); err == nil {
		t.Error("expected publish error")
	}
	if len(f.Events) != 0 {
		t.Error("failed publishes must not be recorded")
	}
}
