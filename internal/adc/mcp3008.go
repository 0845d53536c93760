//go:build linux

package adc

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// MCP3008Reader samples an MCP3008 through bit-banged SPI on the Linux GPIO
// character device. At the loop rates this daemon runs, software clocking is
// plenty; it avoids needing the kernel SPI driver enabled on the Pi.
type MCP3008Reader struct {
	chip *gpiocdev.Chip
	clk  *gpiocdev.Line
	mosi *gpiocdev.Line
	miso *gpiocdev.Line
	cs   *gpiocdev.Line

	fwdCh int
	refCh int
}

// halfClock is the settle time after each clock edge. The MCP3008 tolerates
// arbitrarily slow clocks as long as a whole conversion stays under ~1.2 ms,
// which a 2 us half-period satisfies with a wide margin.
const halfClock = 2 * time.Microsecond

// MCP3008Pins holds the BCM pin assignments for the bit-banged bus.
type MCP3008Pins struct {
	CLK  int
	MOSI int
	MISO int
	CS   int
}

// NewMCP3008Reader requests the SPI lines and prepares the converter for
// single-ended reads of the given channels.
func NewMCP3008Reader(pins MCP3008Pins, fwdCh, refCh int) (*MCP3008Reader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &MCP3008Reader{chip: chip, fwdCh: fwdCh, refCh: refCh}

	// Idle state: clock low, chip deselected.
	for _, req := range []struct {
		line **gpiocdev.Line
		pin  int
		init int
		name string
	}{
		{&r.clk, pins.CLK, 0, "CLK"},
		{&r.mosi, pins.MOSI, 0, "MOSI"},
		{&r.cs, pins.CS, 1, "CS"},
	} {
		l, err := chip.RequestLine(req.pin, gpiocdev.AsOutput(req.init))
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", req.name, req.pin, err)
		}
		*req.line = l
	}

	miso, err := chip.RequestLine(pins.MISO, gpiocdev.AsInput)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request MISO pin %d: %w", pins.MISO, err)
	}
	r.miso = miso

	return r, nil
}

// Read samples the forward channel then the reflected channel.
func (r *MCP3008Reader) Read() (uint16, uint16, error) {
	fwd, err := r.readChannel(r.fwdCh)
	if err != nil {
		return 0, 0, fmt.Errorf("read fwd channel %d: %w", r.fwdCh, err)
	}
	ref, err := r.readChannel(r.refCh)
	if err != nil {
		return 0, 0, fmt.Errorf("read ref channel %d: %w", r.refCh, err)
	}
	return fwd, ref, nil
}

// readChannel runs one single-ended conversion: start bit, SGL/DIFF=1, three
// channel-select bits, then a null bit and ten data bits MSB first.
func (r *MCP3008Reader) readChannel(ch int) (uint16, error) {
	if err := r.cs.SetValue(0); err != nil {
		return 0, fmt.Errorf("select chip: %w", err)
	}
	defer r.cs.SetValue(1)

	cmd := []int{1, 1, ch >> 2 & 1, ch >> 1 & 1, ch & 1}
	for _, bit := range cmd {
		if err := r.mosi.SetValue(bit); err != nil {
			return 0, fmt.Errorf("write command bit: %w", err)
		}
		if err := r.pulseClock(); err != nil {
			return 0, err
		}
	}

	var value uint16
	for i := 0; i < 11; i++ {
		if err := r.pulseClock(); err != nil {
			return 0, err
		}
		bit, err := r.miso.Value()
		if err != nil {
			return 0, fmt.Errorf("read data bit: %w", err)
		}
		if i == 0 {
			// Null bit between command and data.
			continue
		}
		value = value<<1 | uint16(bit&1)
	}

	return value, nil
}

func (r *MCP3008Reader) pulseClock() error {
	if err := r.clk.SetValue(1); err != nil {
		return fmt.Errorf("clock high: %w", err)
	}
	time.Sleep(halfClock)
	if err := r.clk.SetValue(0); err != nil {
		return fmt.Errorf("clock low: %w", err)
	}
	time.Sleep(halfClock)
	return nil
}

// Close releases all requested lines and the chip. Output lines are
// reconfigured to inputs first so the bus floats safely across restarts.
func (r *MCP3008Reader) Close() error {
	var errs []error

	for _, l := range []*gpiocdev.Line{r.clk, r.mosi, r.cs, r.miso} {
		if l == nil {
			continue
		}
		if err := l.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure line: %w", err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
