package meter

import "time"

// DefaultSWRThreshold is the SWR x10 value at which the interlock trips
// (SWR 1.2). Entry and exit use the same threshold: there is no hysteresis
// band, so a reading sitting exactly on the boundary under noise can chatter
// between states every iteration. That matches the original protection
// behavior and is accepted.
const DefaultSWRThreshold = 12

// HoldFloor is the minimum iteration duration while the interlock is
// asserted. The original loop slept ~20 ms after applying the blink phase,
// which visibly slowed the loop during a high-SWR event; the slowdown is
// observable behavior, so the floor is kept even though the blink itself no
// longer blocks.
const HoldFloor = 20 * time.Millisecond

// Interlock is the high-SWR protection state machine. Two states: normal and
// high-SWR. While asserted, the blink phase toggles every step to drive the
// SWR display flash.
type Interlock struct {
	threshold  int
	asserted   bool
	blinkPhase bool
	counts     EventCounts
}

// NewInterlock creates an interlock comparing against the given SWR x10
// threshold. Thresholds < 1 fall back to DefaultSWRThreshold.
func NewInterlock(threshold int) *Interlock {
	if threshold < 1 {
		threshold = DefaultSWRThreshold
	}
	return &Interlock{threshold: threshold}
}

// Step evaluates one iteration's SWR against the threshold and returns any
// transition events. The caller is responsible for driving the physical
// interlock line from the events (or from Asserted).
func (i *Interlock) Step(now time.Time, m Metrics) []Event {
	var events []Event

	switch {
	case !i.asserted && m.SWR >= i.threshold:
		i.asserted = true
		i.counts.Trips++
		events = append(events, Event{
			Timestamp: now,
			Type:      EventInterlockOn,
			SWR:       m.SWR,
			Power:     m.Power,
		})
	case i.asserted && m.SWR < i.threshold:
		i.asserted = false
		i.blinkPhase = false
		i.counts.Releases++
		events = append(events, Event{
			Timestamp: now,
			Type:      EventInterlockOff,
			SWR:       m.SWR,
			Power:     m.Power,
		})
	}

	if i.asserted {
		i.blinkPhase = !i.blinkPhase
	}

	return events
}

// Asserted reports whether the interlock is currently tripped.
func (i *Interlock) Asserted() bool {
	return i.asserted
}

// BlinkPhase reports the current blink phase. Only meaningful while
// asserted; it is the display-on half of the flash when true.
func (i *Interlock) BlinkPhase() bool {
	return i.blinkPhase
}

// Counts returns the transition counts since startup.
func (i *Interlock) Counts() EventCounts {
	return i.counts
}
