// Package gpio provides the protective interlock output line with hardware
// abstraction. The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Interlock drives the digital interlock line. Logic high tells the
// downstream exciter to fold back power.
type Interlock interface {
	// Set drives the line: true = asserted (high), false = released (low).
	Set(asserted bool) error

	// Close releases the line, leaving it de-asserted.
	Close() error
}

// DefaultPinInterlock is the BCM pin wired to the exciter's fold-back input.
const DefaultPinInterlock = 17
