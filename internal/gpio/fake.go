package gpio

// FakeInterlock is a test double that records line transitions.
type FakeInterlock struct {
	// Transitions contains every value written, in order.
	Transitions []bool

	// Asserted is the current line state.
	Asserted bool

	// Closed tracks if Close was called.
	Closed bool

	// SetError, if set, will be returned by Set.
	SetError error
}

// NewFakeInterlock creates a FakeInterlock with the line released.
func NewFakeInterlock() *FakeInterlock {
	return &FakeInterlock{}
}

// Set records the written value.
func (f *FakeInterlock) Set(asserted bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Transitions = append(f.Transitions, asserted)
	f.Asserted = asserted
	return nil
}

// Close marks the interlock closed.
func (f *FakeInterlock) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded transitions.
func (f *FakeInterlock) Reset() {
	f.Transitions = nil
	f.Asserted = false
	f.Closed = false
	f.SetError = nil
}
