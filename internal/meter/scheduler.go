package meter

import "time"

// Default minimum repaint intervals per channel. The power display is
// deliberately slower; a jittery watts readout is more distracting than a
// jittery SWR readout.
const (
	DefaultSWRRefreshInterval   = 200 * time.Millisecond
	DefaultPowerRefreshInterval = 600 * time.Millisecond
)

// channelState is the throttle bookkeeping for one display channel.
type channelState struct {
	id          ChannelID
	minInterval time.Duration
	lastRefresh time.Time
	painted     bool
}

// Scheduler decides, per display channel and iteration, whether to repaint
// and what to show. Numeric repaints are throttled per channel; idle glyphs
// are not. While the interlock is asserted the power channel repaints every
// iteration so the blink stays in sync with a live value.
type Scheduler struct {
	swr channelState
	pwr channelState
}

// NewScheduler creates a scheduler with the given per-channel minimum
// repaint intervals. Non-positive intervals fall back to the defaults.
func NewScheduler(swrInterval, pwrInterval time.Duration) *Scheduler {
	if swrInterval <= 0 {
		swrInterval = DefaultSWRRefreshInterval
	}
	if pwrInterval <= 0 {
		pwrInterval = DefaultPowerRefreshInterval
	}
	return &Scheduler{
		swr: channelState{id: ChannelSWR, minInterval: swrInterval},
		pwr: channelState{id: ChannelPower, minInterval: pwrInterval},
	}
}

// Step produces the paint commands for one iteration and reports whether
// either channel carried a live (non-zero) metric. A channel shows exactly
// one of: its numeric value or its idle glyph, decided solely by whether the
// metric is > 0 at paint time.
func (s *Scheduler) Step(now time.Time, m Metrics, interlocked bool) (paints []Paint, transmitting bool) {
	swrPaint, swrLive := s.swr.step(now, m.SWR, false)
	// Interlock forces the power channel through the throttle.
	pwrPaint, pwrLive := s.pwr.step(now, m.Power, interlocked)

	for _, p := range []Paint{swrPaint, pwrPaint} {
		if p.Kind != PaintNone {
			paints = append(paints, p)
		}
	}
	return paints, swrLive || pwrLive
}

// step decides one channel's paint. force bypasses the interval check for
// numeric repaints. The returned live flag is true when the metric is > 0,
// whether or not a repaint was due.
func (c *channelState) step(now time.Time, value int, force bool) (Paint, bool) {
	if value <= 0 {
		// Idle glyph is unthrottled and does not touch the refresh
		// timestamp; throttling exists for numeric repaints only.
		return Paint{Channel: c.id, Kind: PaintGlyph}, false
	}

	if !force && c.painted && now.Sub(c.lastRefresh) < c.minInterval {
		return Paint{Channel: c.id, Kind: PaintNone}, true
	}

	c.lastRefresh = now
	c.painted = true
	return Paint{Channel: c.id, Kind: PaintValue, Value: value}, true
}
