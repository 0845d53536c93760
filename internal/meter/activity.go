package meter

import "time"

// DefaultInactiveSecs is the number of consecutive idle seconds before the
// displays dim.
const DefaultInactiveSecs = 6

// Activity tracks transmit/idle state and decides display brightness.
//
// Seconds are counted with a free-running comparison: once more than a
// second has elapsed since the last boundary, exactly one second is counted
// and the boundary moves to now. The boundary therefore drifts late; this is
// not a precise periodic timer and is not meant to be.
type Activity struct {
	inactiveSecs  uint
	brightnessMax uint8
	brightnessMin uint8

	transmitting       bool
	userActive         bool
	secondsTick        uint
	inactivitySeconds  uint
	lastSecondBoundary time.Time
}

// NewActivity creates an activity timer. start seeds the second boundary.
// inactiveSecs < 1 falls back to DefaultInactiveSecs.
func NewActivity(start time.Time, inactiveSecs uint, brightnessMin, brightnessMax uint8) *Activity {
	if inactiveSecs < 1 {
		inactiveSecs = DefaultInactiveSecs
	}
	return &Activity{
		inactiveSecs:       inactiveSecs,
		brightnessMax:      brightnessMax,
		brightnessMin:      brightnessMin,
		userActive:         true,
		lastSecondBoundary: start,
	}
}

// Step advances the timer by one loop iteration and returns the brightness
// level both displays should use. Transmit activity (reported by the
// previous display pass, see SetTransmitting) forces full brightness
// immediately; otherwise the displays dim after inactiveSecs consecutive
// idle seconds.
func (a *Activity) Step(now time.Time) uint8 {
	if now.Sub(a.lastSecondBoundary) > time.Second {
		// One second per boundary no matter how late we are; the
		// boundary drifts rather than catching up.
		a.lastSecondBoundary = now
		a.secondsTick++
		if !a.transmitting {
			a.inactivitySeconds++
			if a.userActive && a.inactivitySeconds%a.inactiveSecs == 0 {
				a.userActive = false
				a.inactivitySeconds = 1
			}
		}
	}

	if a.transmitting {
		a.userActive = true
		return a.brightnessMax
	}
	if !a.userActive {
		return a.brightnessMin
	}
	return a.brightnessMax
}

// SetTransmitting records whether the display pass saw a non-zero metric.
// It is set at the end of an iteration and consumed at the start of the
// next one, so the brightness decision lags the metrics by one iteration.
// That lag is inherited from the original loop ordering and kept on purpose.
func (a *Activity) SetTransmitting(transmitting bool) {
	a.transmitting = transmitting
}

// Transmitting reports the transmit flag from the last display pass.
func (a *Activity) Transmitting() bool {
	return a.transmitting
}

// UserActive reports whether the displays are at full brightness.
func (a *Activity) UserActive() bool {
	return a.userActive
}

// SecondsTick returns the number of second boundaries counted since start.
func (a *Activity) SecondsTick() uint {
	return a.secondsTick
}
