// Package meter contains pure business logic for the SWR measurement and
// protection loop. This package has NO external dependencies (no ADC, GPIO,
// MQTT, OS, or time.Sleep). Time is always injectable via time.Time parameters.
package meter

import "time"

// Reading is a pair of diode-compensated detector voltages in millivolts.
// Values are clamped to >= 0 after the diode offset is subtracted.
type Reading struct {
	FwdMillivolts int
	RefMillivolts int
}

// Metrics holds the derived measurements for one loop iteration.
// SWR is stored scaled by 10 (12 = SWR 1.2). Power is approximate watts.
type Metrics struct {
	SWR   int
	Power int
}

// EventType represents an interlock state transition event.
type EventType string

const (
	EventInterlockOn  EventType = "INTERLOCK_ON"
	EventInterlockOff EventType = "INTERLOCK_OFF"
)

// Event represents an interlock transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	SWR       int
	Power     int
}

// EventCounts tracks the number of interlock transitions since startup.
type EventCounts struct {
	Trips    int
	Releases int
}

// ChannelID identifies one of the two display channels.
type ChannelID int

const (
	ChannelSWR ChannelID = iota
	ChannelPower
)

// String returns a short name for the channel, used in logs and tests.
func (c ChannelID) String() string {
	if c == ChannelSWR {
		return "swr"
	}
	return "pwr"
}

// PaintKind says what a display channel should show this iteration.
type PaintKind int

const (
	// PaintNone leaves the previous numeric content on the display.
	PaintNone PaintKind = iota
	// PaintValue repaints the channel's metric as a decimal number.
	PaintValue
	// PaintGlyph shows the channel's fixed idle glyph.
	PaintGlyph
)

// Paint is one display command produced by the scheduler.
type Paint struct {
	Channel ChannelID
	Kind    PaintKind
	Value   int
}

// Brightness is the per-channel brightness command for one iteration.
// On=false blanks the display; the interlock blink toggles it every
// iteration to produce the visible flash.
type Brightness struct {
	Level uint8
	On    bool
}

// HeartbeatData contains information for a periodic heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
