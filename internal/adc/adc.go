// Package adc provides the analog front end with hardware abstraction.
// Real implementations read an MCP3008 over bit-banged SPI or a
// serial-attached sampler board. The fake implementation allows testing
// without hardware.
package adc

// Reader reads the two detector channels of the directional coupler.
type Reader interface {
	// Read returns one raw 10-bit sample per channel, forward first.
	Read() (fwd, ref uint16, err error)

	// Close releases the underlying hardware.
	Close() error
}

// MaxRaw is the largest value a 10-bit sample can take.
const MaxRaw = 1023

// Default MCP3008 input channels (forward detector on CH0, reflected on CH1).
const (
	DefaultChannelFwd = 0
	DefaultChannelRef = 1
)

// Default BCM pins for the bit-banged SPI bus.
const (
	DefaultPinCLK  = 11
	DefaultPinMOSI = 10
	DefaultPinMISO = 9
	DefaultPinCS   = 8
)
