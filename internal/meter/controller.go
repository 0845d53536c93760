package meter

import "time"

// Params configures a Controller. Zero values select the reference defaults.
type Params struct {
	// SWRThreshold is the interlock trip point, SWR x10.
	SWRThreshold int
	// InactiveSecs is the idle time before the displays dim.
	InactiveSecs uint
	// BrightnessMin and BrightnessMax bound the display brightness.
	BrightnessMin uint8
	BrightnessMax uint8
	// DiodeOffsetMillivolts is subtracted from each detector channel.
	DiodeOffsetMillivolts int
	// SWRRefresh and PowerRefresh throttle numeric repaints per channel.
	SWRRefresh   time.Duration
	PowerRefresh time.Duration
	// Smoothing selects the averaged sampling strategy with the given
	// buffer depth. Off (the reference behavior) when false.
	Smoothing      bool
	SmoothingDepth int
}

// DefaultDiodeOffsetMillivolts approximates the detector diode's
// forward-conduction threshold.
const DefaultDiodeOffsetMillivolts = 400

// DefaultBrightnessMax and DefaultBrightnessMin are the display brightness
// bounds (TM1637 range is 0..7).
const (
	DefaultBrightnessMax uint8 = 7
	DefaultBrightnessMin uint8 = 1
)

// Frame is everything one loop iteration decided. The caller executes it
// against the hardware: drive the interlock line from Events (or Asserted),
// apply the brightness commands, then the paints, and finally sleep HoldFloor
// if it is non-zero.
type Frame struct {
	Reading Reading
	Metrics Metrics

	// Events holds interlock transitions that fired this iteration.
	Events []Event
	// Asserted is the interlock state after this iteration.
	Asserted bool

	// Brightness holds the per-channel brightness command, indexed by
	// ChannelID. Applied every iteration regardless of repaints.
	Brightness [2]Brightness
	// Paints holds the display commands for this iteration.
	Paints []Paint

	// Transmitting reports whether either metric was live this iteration.
	Transmitting bool
	// HoldFloor is the minimum remaining duration of this iteration.
	// Non-zero only while the interlock is asserted.
	HoldFloor time.Duration
}

// Controller threads the whole sampling -> estimation -> interlock ->
// activity -> display pipeline through one explicit state struct. One call
// to Step is one loop iteration; there is no shared state outside the
// receiver and no hardware access inside it.
type Controller struct {
	converter *Converter
	interlock *Interlock
	activity  *Activity
	scheduler *Scheduler

	startTime     time.Time
	lastHeartbeat time.Time
}

// NewController creates a controller with its timers seeded from start.
func NewController(start time.Time, p Params) *Controller {
	if p.BrightnessMax == 0 {
		p.BrightnessMax = DefaultBrightnessMax
		p.BrightnessMin = DefaultBrightnessMin
	}
	if p.DiodeOffsetMillivolts == 0 {
		p.DiodeOffsetMillivolts = DefaultDiodeOffsetMillivolts
	}

	var strategy Strategy
	if p.Smoothing {
		strategy = NewSmoothedStrategy(p.SmoothingDepth)
	}

	return &Controller{
		converter:     NewConverter(p.DiodeOffsetMillivolts, strategy),
		interlock:     NewInterlock(p.SWRThreshold),
		activity:      NewActivity(start, p.InactiveSecs, p.BrightnessMin, p.BrightnessMax),
		scheduler:     NewScheduler(p.SWRRefresh, p.PowerRefresh),
		startTime:     start,
		lastHeartbeat: start,
	}
}

// Step runs one loop iteration over a raw ADC sample pair.
func (c *Controller) Step(now time.Time, fwdRaw, refRaw uint16) Frame {
	reading := c.converter.Convert(fwdRaw, refRaw)
	metrics := Estimate(reading)

	events := c.interlock.Step(now, metrics)
	asserted := c.interlock.Asserted()

	// Brightness uses the transmit flag from the previous display pass.
	level := c.activity.Step(now)

	paints, transmitting := c.scheduler.Step(now, metrics, asserted)
	c.activity.SetTransmitting(transmitting)

	frame := Frame{
		Reading:      reading,
		Metrics:      metrics,
		Events:       events,
		Asserted:     asserted,
		Paints:       paints,
		Transmitting: transmitting,
	}

	frame.Brightness[ChannelSWR] = Brightness{Level: level, On: true}
	frame.Brightness[ChannelPower] = Brightness{Level: level, On: true}
	if asserted {
		// Blink the SWR display at full brightness while tripped, and
		// keep the loop from spinning faster than the flash.
		frame.Brightness[ChannelSWR] = Brightness{
			Level: c.activity.brightnessMax,
			On:    c.interlock.BlinkPhase(),
		}
		frame.HoldFloor = HoldFloor
	}

	return frame
}

// Counts returns the interlock transition counts since startup.
func (c *Controller) Counts() EventCounts {
	return c.interlock.Counts()
}

// Asserted reports the current interlock state.
func (c *Controller) Asserted() bool {
	return c.interlock.Asserted()
}

// UserActive reports whether the displays are at full brightness.
func (c *Controller) UserActive() bool {
	return c.activity.UserActive()
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if the interval has not
// elapsed or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}

	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.interlock.Counts(),
	}
}
