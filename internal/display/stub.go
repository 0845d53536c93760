//go:build !linux

package display

import "errors"

// TM1637 is not available on non-Linux platforms.
type TM1637 struct{}

// NewTM1637 returns an error on non-Linux platforms.
func NewTM1637(pinCLK, pinDIO int) (*TM1637, error) {
	return nil, errors.New("display: tm1637 not supported on this platform (requires Linux)")
}

// Clear is not implemented on non-Linux platforms.
func (d *TM1637) Clear() error { return errors.New("display: not supported") }

// SetBrightness is not implemented on non-Linux platforms.
func (d *TM1637) SetBrightness(level uint8, on bool) error {
	return errors.New("display: not supported")
}

// ShowNumber is not implemented on non-Linux platforms.
func (d *TM1637) ShowNumber(value int, leadingZeros bool, digits, pos uint8) error {
	return errors.New("display: not supported")
}

// SetSegments is not implemented on non-Linux platforms.
func (d *TM1637) SetSegments(segs []byte) error { return errors.New("display: not supported") }

// Close is not implemented on non-Linux platforms.
func (d *TM1637) Close() error { return nil }
