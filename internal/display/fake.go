package display

// Op records one command issued to a Fake device.
type Op struct {
	Kind string // "clear", "brightness", "number", "segments"

	// brightness
	Level uint8
	On    bool

	// number
	Value        int
	LeadingZeros bool
	Digits       uint8
	Pos          uint8

	// segments
	Segs []byte
}

// Fake is a test double that records every command.
type Fake struct {
	Ops    []Op
	Closed bool

	// Err, if set, is returned by every method.
	Err error
}

// NewFake creates a recording fake device.
func NewFake() *Fake {
	return &Fake{}
}

// Clear records a clear command.
func (f *Fake) Clear() error {
	if f.Err != nil {
		return f.Err
	}
	f.Ops = append(f.Ops, Op{Kind: "clear"})
	return nil
}

// SetBrightness records a brightness command.
func (f *Fake) SetBrightness(level uint8, on bool) error {
	if f.Err != nil {
		return f.Err
	}
	f.Ops = append(f.Ops, Op{Kind: "brightness", Level: level, On: on})
	return nil
}

// ShowNumber records a numeric paint.
func (f *Fake) ShowNumber(value int, leadingZeros bool, digits, pos uint8) error {
	if f.Err != nil {
		return f.Err
	}
	f.Ops = append(f.Ops, Op{
		Kind:         "number",
		Value:        value,
		LeadingZeros: leadingZeros,
		Digits:       digits,
		Pos:          pos,
	})
	return nil
}

// SetSegments records a raw segment paint.
func (f *Fake) SetSegments(segs []byte) error {
	if f.Err != nil {
		return f.Err
	}
	cp := make([]byte, len(segs))
	copy(cp, segs)
	f.Ops = append(f.Ops, Op{Kind: "segments", Segs: cp})
	return nil
}

// Close marks the device closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recent op of the given kind, or nil.
func (f *Fake) Last(kind string) *Op {
	for i := len(f.Ops) - 1; i >= 0; i-- {
		if f.Ops[i].Kind == kind {
			return &f.Ops[i]
		}
	}
	return nil
}

// CountKind returns how many ops of the given kind were recorded.
func (f *Fake) CountKind(kind string) int {
	n := 0
	for _, op := range f.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset clears recorded ops.
func (f *Fake) Reset() {
	f.Ops = nil
	f.Closed = false
	f.Err = nil
}
