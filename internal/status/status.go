// Package status provides a thread-safe status tracker for the swr-monitor
// daemon. It is read by the HTTP handlers and serialized into MQTT system
// events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/swr-monitor/internal/meter"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs       int64
	SWRThreshold int // SWR x10
	HeartbeatMs  int64
	ADCBackend   string
	Broker       string
	HTTPAddr     string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	SWR           int // x10
	Power         int // watts
	Interlocked   bool
	Transmitting  bool
	UserActive    bool
	Counts        meter.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime:  startTime,
			UserActive: true,
			Config:     cfg,
		},
	}
}

// Update sets the live measurement state. Called from the run loop on every
// iteration.
func (t *Tracker) Update(swr, power int, interlocked, transmitting, userActive bool, counts meter.EventCounts) {
	t.mu.Lock()
	t.snap.SWR = swr
	t.snap.Power = power
	t.snap.Interlocked = interlocked
	t.snap.Transmitting = transmitting
	t.snap.UserActive = userActive
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
