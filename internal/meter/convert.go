package meter

// adcScale converts a 10-bit raw sample against a 5 V reference to
// millivolts: raw / 204.8 * 1000. Arithmetic is float32 to match the
// detector firmware this was ported from; the result truncates toward zero.
const adcScale float32 = 204.8

// Converter turns raw 10-bit ADC samples into compensated millivolt pairs.
// The diode offset approximates the detector diode's forward-conduction
// threshold and is subtracted from each channel, clamping at zero.
type Converter struct {
	OffsetMillivolts int
	strategy         Strategy
}

// NewConverter creates a Converter with the given diode offset. If strategy
// is nil the instantaneous (unsmoothed) strategy is used, which is the
// reference behavior.
func NewConverter(offsetMillivolts int, strategy Strategy) *Converter {
	if strategy == nil {
		strategy = RawStrategy{}
	}
	return &Converter{
		OffsetMillivolts: offsetMillivolts,
		strategy:         strategy,
	}
}

// Convert produces the compensated millivolt reading for one raw sample pair.
func (c *Converter) Convert(fwdRaw, refRaw uint16) Reading {
	fwdRaw, refRaw = c.strategy.Apply(fwdRaw, refRaw)
	return Reading{
		FwdMillivolts: c.compensate(fwdRaw),
		RefMillivolts: c.compensate(refRaw),
	}
}

func (c *Converter) compensate(raw uint16) int {
	mv := int(float32(raw) / adcScale * 1000)
	mv -= c.OffsetMillivolts
	if mv < 0 {
		mv = 0
	}
	return mv
}

// Strategy transforms a raw sample pair before millivolt conversion.
// It is the seam between instantaneous and smoothed sampling.
type Strategy interface {
	Apply(fwdRaw, refRaw uint16) (uint16, uint16)
}

// RawStrategy passes samples through unchanged (reference behavior).
type RawStrategy struct{}

// Apply returns the pair as-is.
func (RawStrategy) Apply(fwdRaw, refRaw uint16) (uint16, uint16) {
	return fwdRaw, refRaw
}

// SmoothedStrategy averages each channel over a fixed-depth circular buffer.
// The newest sample overwrites the oldest slot, then the full buffer is
// averaged. The buffers start zeroed, so the first depth calls average over
// partially written slots; this cold-start bias is deliberate, matching the
// original averaging code rather than warming the buffer.
type SmoothedStrategy struct {
	fwd ringAverage
	ref ringAverage
}

// DefaultSmoothingDepth is the buffer depth used when none is configured.
const DefaultSmoothingDepth = 8

// NewSmoothedStrategy creates a smoothing strategy with the given per-channel
// buffer depth. Depths < 1 fall back to DefaultSmoothingDepth.
func NewSmoothedStrategy(depth int) *SmoothedStrategy {
	if depth < 1 {
		depth = DefaultSmoothingDepth
	}
	return &SmoothedStrategy{
		fwd: ringAverage{buf: make([]uint16, depth)},
		ref: ringAverage{buf: make([]uint16, depth)},
	}
}

// Apply pushes the pair into the channel buffers and returns the averages.
func (s *SmoothedStrategy) Apply(fwdRaw, refRaw uint16) (uint16, uint16) {
	return s.fwd.push(fwdRaw), s.ref.push(refRaw)
}

// ringAverage is a fixed-depth circular buffer with an independent write
// index. Not safe for concurrent use.
type ringAverage struct {
	buf  []uint16
	next int
}

func (r *ringAverage) push(v uint16) uint16 {
	r.buf[r.next] = v
	r.next = (r.next + 1) % len(r.buf)

	var sum int
	for _, s := range r.buf {
		sum += int(s)
	}
	return uint16(sum / len(r.buf))
}
