package status

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	SWR           string     `json:"swr"` // formatted, e.g. "1.2"
	SWRRaw        int        `json:"swr_x10"`
	PowerWatts    int        `json:"power_watts"`
	Interlock     string     `json:"interlock"` // "ASSERTED" or "NORMAL"
	Transmitting  bool       `json:"transmitting"`
	UserActive    bool       `json:"user_active"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of interlock transition counts.
type CountsJSON struct {
	Trips    int `json:"interlock_trips"`
	Releases int `json:"interlock_releases"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs       int64  `json:"poll_ms"`
	SWRThreshold int    `json:"swr_threshold_x10"`
	HeartbeatMs  int64  `json:"heartbeat_ms"`
	ADCBackend   string `json:"adc_backend"`
	Broker       string `json:"broker"`
	HTTPAddr     string `json:"http_addr"`
}

// FormatSWR renders an x10 SWR value as a decimal string ("12" -> "1.2").
func FormatSWR(swr int) string {
	return fmt.Sprintf("%d.%d", swr/10, swr%10)
}

// InterlockString names an interlock state for payloads and pages.
func InterlockString(asserted bool) string {
	if asserted {
		return "ASSERTED"
	}
	return "NORMAL"
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		SWR:           FormatSWR(snap.SWR),
		SWRRaw:        snap.SWR,
		PowerWatts:    snap.Power,
		Interlock:     InterlockString(snap.Interlocked),
		Transmitting:  snap.Transmitting,
		UserActive:    snap.UserActive,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Trips:    snap.Counts.Trips,
			Releases: snap.Counts.Releases,
		},
		Config: ConfigJSON{
			PollMs:       snap.Config.PollMs,
			SWRThreshold: snap.Config.SWRThreshold,
			HeartbeatMs:  snap.Config.HeartbeatMs,
			ADCBackend:   snap.Config.ADCBackend,
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
		},
	}
}

// FormatStatus creates the JSON document served by the HTTP endpoint.
func FormatStatus(snap Snapshot) []byte {
	data, err := json.Marshal(StatusJSON{Status: buildInner(snap)})
	if err != nil {
		// Snapshot contains only plain values; this cannot happen.
		return []byte(`{"status":{}}`)
	}
	return data
}

// FormatStatusEvent creates the JSON payload for a system event carrying a
// full status snapshot (STARTUP, SHUTDOWN, HEARTBEAT).
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, err := json.Marshal(StatusJSON{Status: inner})
	if err != nil {
		return []byte(`{"status":{}}`)
	}
	return data
}
