package meter

import "github.com/chewxy/math32"

// SWRCeiling is the saturation value reported when the reflected voltage
// meets or exceeds the forward voltage. The ratio formula divides by
// (fwd - ref), which is undefined at equality and negative past it; instead
// of reproducing that, we saturate at the display ceiling (SWR 99.9). A
// reflected reading at or above forward is an unusable mismatch either way,
// and the ceiling is comfortably above the interlock threshold.
const SWRCeiling = 999

// EstimateSWR derives SWR x10 from a compensated reading.
//
// swr = round(10 * (fwd + ref) / (fwd - ref))
//
// Arithmetic is float32 for parity with the detector firmware. A forward
// voltage of zero means no carrier, reported as 0 so the displays fall back
// to their idle glyphs.
func EstimateSWR(r Reading) int {
	if r.FwdMillivolts <= 0 {
		return 0
	}
	if r.RefMillivolts >= r.FwdMillivolts {
		return SWRCeiling
	}
	fwd := float32(r.FwdMillivolts)
	ref := float32(r.RefMillivolts)
	ratio := (fwd + ref) / (fwd - ref)
	return int(math32.Round(ratio * 10))
}

// EstimatePower evaluates the empirical forward-power curve fit at the
// forward millivolt reading and truncates to whole watts, clamped at zero.
//
// The polynomial is a one-time fit for a single band and power range. The
// coefficients and the nesting order are load-bearing: do not refactor or
// algebraically simplify, the float32 rounding is part of the calibration.
func EstimatePower(r Reading) int {
	x := float32(r.FwdMillivolts)
	w := (((1433*(x-2750))/264362664930+31.0/9131304)*(x-2100)+15.0/452)*(x-1196) + 20
	if w < 0 {
		return 0
	}
	return int(w)
}

// Estimate computes both metrics for one reading.
func Estimate(r Reading) Metrics {
	return Metrics{
		SWR:   EstimateSWR(r),
		Power: EstimatePower(r),
	}
}
