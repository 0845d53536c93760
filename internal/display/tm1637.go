//go:build linux

package display

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// TM1637 command bytes.
const (
	cmdData        = 0x40 // write data, auto-increment address
	cmdAddr        = 0xc0 // set address, low 3 bits select the digit
	cmdDisplayOff  = 0x80
	cmdDisplayOn   = 0x88 // low 3 bits carry the brightness level
	maxBrightness  = 7
	bitPeriod      = 5 * time.Microsecond
	ackClockStalls = 1 // extra clock for the chip's ack slot
)

// TM1637 drives one 4-digit module over its two-wire protocol, bit-banged
// through the GPIO character device. The chip has no hardware blink; the
// on flag of SetBrightness maps to the display-enable bit and the control
// loop toggles it.
type TM1637 struct {
	chip *gpiocdev.Chip
	clk  *gpiocdev.Line
	dio  *gpiocdev.Line

	level uint8
	on    bool
}

// NewTM1637 requests the clock and data lines for one module.
func NewTM1637(pinCLK, pinDIO int) (*TM1637, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	clk, err := chip.RequestLine(pinCLK, gpiocdev.AsOutput(1))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request CLK pin %d: %w", pinCLK, err)
	}
	dio, err := chip.RequestLine(pinDIO, gpiocdev.AsOutput(1))
	if err != nil {
		clk.Close()
		chip.Close()
		return nil, fmt.Errorf("request DIO pin %d: %w", pinDIO, err)
	}

	return &TM1637{
		chip:  chip,
		clk:   clk,
		dio:   dio,
		level: maxBrightness,
		on:    true,
	}, nil
}

// Clear blanks all digits.
func (d *TM1637) Clear() error {
	return d.SetSegments(make([]byte, Digits))
}

// SetBrightness sets the level (clamped to 0..7) and the display-enable bit.
func (d *TM1637) SetBrightness(level uint8, on bool) error {
	if level > maxBrightness {
		level = maxBrightness
	}
	d.level = level
	d.on = on
	return d.writeControl()
}

// ShowNumber renders a decimal number at the given position.
func (d *TM1637) ShowNumber(value int, leadingZeros bool, digits, pos uint8) error {
	segs := EncodeNumber(value, leadingZeros, digits)
	return d.writeSegments(segs, pos)
}

// SetSegments writes raw patterns starting at position 0.
func (d *TM1637) SetSegments(segs []byte) error {
	return d.writeSegments(segs, 0)
}

func (d *TM1637) writeSegments(segs []byte, pos uint8) error {
	if int(pos)+len(segs) > Digits {
		segs = segs[:Digits-int(pos)]
	}

	if err := d.writeCommand(cmdData); err != nil {
		return err
	}

	d.start()
	if err := d.writeByte(cmdAddr | byte(pos&0x07)); err != nil {
		d.stop()
		return err
	}
	for _, s := range segs {
		if err := d.writeByte(s); err != nil {
			d.stop()
			return err
		}
	}
	d.stop()

	return d.writeControl()
}

func (d *TM1637) writeControl() error {
	cmd := byte(cmdDisplayOff)
	if d.on {
		cmd = cmdDisplayOn | (d.level & 0x07)
	}
	return d.writeCommand(cmd)
}

func (d *TM1637) writeCommand(cmd byte) error {
	d.start()
	err := d.writeByte(cmd)
	d.stop()
	return err
}

// start issues the bus start condition: DIO falls while CLK is high.
func (d *TM1637) start() {
	d.dio.SetValue(1)
	d.clk.SetValue(1)
	time.Sleep(bitPeriod)
	d.dio.SetValue(0)
	time.Sleep(bitPeriod)
}

// stop issues the bus stop condition: DIO rises while CLK is high.
func (d *TM1637) stop() {
	d.clk.SetValue(0)
	d.dio.SetValue(0)
	time.Sleep(bitPeriod)
	d.clk.SetValue(1)
	time.Sleep(bitPeriod)
	d.dio.SetValue(1)
	time.Sleep(bitPeriod)
}

// writeByte clocks out one byte LSB first, then runs the ack clock. The ack
// level is not checked: the module is write-only in this design and a
// failed transfer shows up on the glass immediately.
func (d *TM1637) writeByte(b byte) error {
	for i := 0; i < 8; i++ {
		if err := d.clk.SetValue(0); err != nil {
			return fmt.Errorf("clock low: %w", err)
		}
		if err := d.dio.SetValue(int(b >> i & 1)); err != nil {
			return fmt.Errorf("data bit: %w", err)
		}
		time.Sleep(bitPeriod)
		if err := d.clk.SetValue(1); err != nil {
			return fmt.Errorf("clock high: %w", err)
		}
		time.Sleep(bitPeriod)
	}

	for i := 0; i < ackClockStalls; i++ {
		d.clk.SetValue(0)
		d.dio.SetValue(1)
		time.Sleep(bitPeriod)
		d.clk.SetValue(1)
		time.Sleep(bitPeriod)
	}

	return nil
}

// Close blanks the module and releases its lines.
func (d *TM1637) Close() error {
	var errs []error

	if err := d.Clear(); err != nil {
		errs = append(errs, fmt.Errorf("clear: %w", err))
	}
	for _, l := range []*gpiocdev.Line{d.clk, d.dio} {
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
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
