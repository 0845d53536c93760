//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealInterlock drives the interlock line on actual hardware using the
// Linux GPIO character device.
type RealInterlock struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealInterlock requests the pin as an output, initially de-asserted.
// Starting low matters: the exciter must not see a fold-back request just
// because the monitor restarted.
func NewRealInterlock(pin int) (*RealInterlock, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request interlock pin %d: %w", pin, err)
	}

	return &RealInterlock{chip: chip, line: line}, nil
}

// Set drives the line high when asserted, low when released.
func (r *RealInterlock) Set(asserted bool) error {
	v := 0
	if asserted {
		v = 1
	}
	if err := r.line.SetValue(v); err != nil {
		return fmt.Errorf("set interlock pin: %w", err)
	}
	return nil
}

// Close de-asserts the line, reconfigures it to an input with pull-down
// (matching Pi boot defaults) and releases it. The pull-down keeps the
// exciter input from floating high while the daemon is down.
func (r *RealInterlock) Close() error {
	var errs []error

	if r.line != nil {
		if err := r.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("release interlock: %w", err))
		}
		if err := r.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure interlock pin: %w", err))
		}
		if err := r.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close interlock pin: %w", err))
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
