//go:build !linux

package adc

import "errors"

// MCP3008Reader is not available on non-Linux platforms.
type MCP3008Reader struct{}

// MCP3008Pins holds the BCM pin assignments for the bit-banged bus.
type MCP3008Pins struct {
	CLK  int
	MOSI int
	MISO int
	CS   int
}

// NewMCP3008Reader returns an error on non-Linux platforms.
func NewMCP3008Reader(pins MCP3008Pins, fwdCh, refCh int) (*MCP3008Reader, error) {
	return nil, errors.New("adc: mcp3008 not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (r *MCP3008Reader) Read() (uint16, uint16, error) {
	return 0, 0, errors.New("adc: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *MCP3008Reader) Close() error {
	return nil
}
