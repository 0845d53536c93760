package adc

import "errors"

// Sample represents a single raw reading pair.
type Sample struct {
	Fwd uint16
	Ref uint16
}

// FakeReader is a test double that returns scripted ADC values.
type FakeReader struct {
	// Samples contains scripted readings. Each call to Read() consumes
	// the next sample; once exhausted, the last sample repeats.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeReader) Read() (uint16, uint16, error) {
	if f.ReadError != nil {
		return 0, 0, f.ReadError
	}

	if len(f.Samples) == 0 {
		return 0, 0, errors.New("no samples configured")
	}

	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return s.Fwd, s.Ref, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the reader to the beginning of its samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}
