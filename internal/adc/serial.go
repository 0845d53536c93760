package adc

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the sampler board firmware.
const DefaultBaudRate = 115200

// SerialReader reads samples from a serial-attached sampler board that
// streams one "<fwd>,<ref>\n" line per conversion. This is the backend for
// rigs where the coupler sits away from the Pi and a small MCU does the
// actual conversion.
type SerialReader struct {
	port serial.Port
	br   *bufio.Reader
}

// NewSerialReader opens the given serial port at the given baud rate.
// A baud of 0 selects DefaultBaudRate.
func NewSerialReader(portName string, baud int) (*SerialReader, error) {
	if baud == 0 {
		baud = DefaultBaudRate
	}

	port, err := serial.Open(portName, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}

	return &SerialReader{
		port: port,
		br:   bufio.NewReader(port),
	}, nil
}

// Read blocks for the next sample line from the board.
func (r *SerialReader) Read() (uint16, uint16, error) {
	line, err := r.br.ReadString('\n')
	if err != nil {
		return 0, 0, fmt.Errorf("read sample line: %w", err)
	}
	return parseSampleLine(line)
}

// Close closes the serial port.
func (r *SerialReader) Close() error {
	return r.port.Close()
}

// parseSampleLine parses one "<fwd>,<ref>" line into a raw sample pair.
// Values must be decimal and within the 10-bit range.
func parseSampleLine(line string) (uint16, uint16, error) {
	line = strings.TrimSpace(line)
	fwdStr, refStr, ok := strings.Cut(line, ",")
	if !ok {
		return 0, 0, fmt.Errorf("malformed sample line %q", line)
	}

	fwd, err := parseRaw(fwdStr)
	if err != nil {
		return 0, 0, fmt.Errorf("fwd: %w", err)
	}
	ref, err := parseRaw(refStr)
	if err != nil {
		return 0, 0, fmt.Errorf("ref: %w", err)
	}

	return fwd, ref, nil
}

func parseRaw(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, err
	}
	if v > MaxRaw {
		return 0, fmt.Errorf("sample %d out of 10-bit range", v)
	}
	return uint16(v), nil
}
