// Package display provides the 4-digit numeric display with hardware
// abstraction. The real implementation bit-bangs the TM1637 two-wire
// protocol over the Linux GPIO character device. The fake implementation
// records commands for tests.
package display

// Digits is the number of positions on the module.
const Digits = 4

// Device is a 4-digit seven-segment display module.
type Device interface {
	// Clear blanks all digits.
	Clear() error

	// SetBrightness sets the backlight level (0..7). on=false blanks the
	// display without losing its contents; the control loop toggles it
	// to blink.
	SetBrightness(level uint8, on bool) error

	// ShowNumber renders a decimal number using the given digit count at
	// the given position (0 = leftmost). leadingZeros pads with zeros
	// instead of blanks.
	ShowNumber(value int, leadingZeros bool, digits, pos uint8) error

	// SetSegments writes raw segment patterns starting at position 0.
	SetSegments(segs []byte) error

	// Close releases the underlying hardware.
	Close() error
}

// Segment bits, matching the usual seven-segment layout plus decimal point.
const (
	SegA byte = 1 << iota
	SegB
	SegC
	SegD
	SegE
	SegF
	SegG
	SegDP
)

// Idle glyphs shown when a channel's metric is zero, and the startup splash.
var (
	// GlyphSWR is a lone "S" on the left digit.
	GlyphSWR = []byte{SegA | SegF | SegG | SegC | SegD, 0, 0, 0}
	// GlyphPower is a lone "P" on the left digit.
	GlyphPower = []byte{SegA | SegB | SegE | SegF | SegG, 0, 0, 0}
	// Splash is four dashes shown during startup.
	Splash = []byte{SegG, SegG, SegG, SegG}
)

// digitSegments maps 0..9 to segment patterns.
var digitSegments = [10]byte{
	SegA | SegB | SegC | SegD | SegE | SegF,        // 0
	SegB | SegC,                                    // 1
	SegA | SegB | SegD | SegE | SegG,               // 2
	SegA | SegB | SegC | SegD | SegG,               // 3
	SegB | SegC | SegF | SegG,                      // 4
	SegA | SegC | SegD | SegF | SegG,               // 5
	SegA | SegC | SegD | SegE | SegF | SegG,        // 6
	SegA | SegB | SegC,                             // 7
	SegA | SegB | SegC | SegD | SegE | SegF | SegG, // 8
	SegA | SegB | SegC | SegD | SegF | SegG,        // 9
}

// EncodeDigit returns the segment pattern for a decimal digit. Values
// outside 0..9 render blank.
func EncodeDigit(d int) byte {
	if d < 0 || d > 9 {
		return 0
	}
	return digitSegments[d]
}

// EncodeNumber renders value into digit-count segment patterns, least
// significant digit rightmost. Values that do not fit are truncated to the
// low-order digits, which matches what the display can physically show.
func EncodeNumber(value int, leadingZeros bool, digits uint8) []byte {
	segs := make([]byte, digits)
	v := value
	for i := int(digits) - 1; i >= 0; i-- {
		d := v % 10
		v /= 10
		if !leadingZeros && v == 0 && d == 0 && i != int(digits)-1 {
			// Blank instead of a leading zero.
			continue
		}
		segs[i] = EncodeDigit(d)
	}
	return segs
}
