package display

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDigit(t *testing.T) {
	if got := EncodeDigit(8); got != SegA|SegB|SegC|SegD|SegE|SegF|SegG {
		t.Errorf("digit 8: got %08b", got)
	}
	if got := EncodeDigit(1); got != SegB|SegC {
		t.Errorf("digit 1: got %08b", got)
	}
	if got := EncodeDigit(-1); got != 0 {
		t.Errorf("digit -1: got %08b, want blank", got)
	}
	if got := EncodeDigit(10); got != 0 {
		t.Errorf("digit 10: got %08b, want blank", got)
	}
}

func TestEncodeNumberBlanksLeadingZeros(t *testing.T) {
	segs := EncodeNumber(42, false, 4)
	want := []byte{0, 0, EncodeDigit(4), EncodeDigit(2)}
	if !bytes.Equal(segs, want) {
		t.Errorf("42: got %v, want %v", segs, want)
	}
}

func TestEncodeNumberLeadingZeros(t *testing.T) {
	segs := EncodeNumber(42, true, 4)
	want := []byte{EncodeDigit(0), EncodeDigit(0), EncodeDigit(4), EncodeDigit(2)}
	if !bytes.Equal(segs, want) {
		t.Errorf("0042: got %v, want %v", segs, want)
	}
}

func TestEncodeNumberZero(t *testing.T) {
	segs := EncodeNumber(0, false, 4)
	want := []byte{0, 0, 0, EncodeDigit(0)}
	if !bytes.Equal(segs, want) {
		t.Errorf("0: got %v, want %v", segs, want)
	}
}

func TestEncodeNumberInteriorZero(t *testing.T) {
	segs := EncodeNumber(105, false, 4)
	want := []byte{0, EncodeDigit(1), EncodeDigit(0), EncodeDigit(5)}
	if !bytes.Equal(segs, want) {
		t.Errorf("105: got %v, want %v", segs, want)
	}
}

func TestEncodeNumberTruncatesOverflow(t *testing.T) {
	// 12345 cannot fit on four digits; the low-order digits win.
	segs := EncodeNumber(12345, false, 4)
	want := []byte{EncodeDigit(2), EncodeDigit(3), EncodeDigit(4), EncodeDigit(5)}
	if !bytes.Equal(segs, want) {
		t.Errorf("12345: got %v, want %v", segs, want)
	}
}

func TestGlyphsAreDistinct(t *testing.T) {
	if bytes.Equal(GlyphSWR, GlyphPower) {
		t.Error("S and P glyphs must differ")
	}
	if GlyphSWR[0] == 0 || GlyphPower[0] == 0 {
		t.Error("glyphs must light the leftmost digit")
	}
}

func TestFakeRecordsOps(t *testing.T) {
	f := NewFake()

	f.Clear()
	f.SetBrightness(7, true)
	f.ShowNumber(123, false, 4, 0)
	f.SetSegments(GlyphSWR)

	if len(f.Ops) != 4 {
		t.Fatalf("ops: got %d, want 4", len(f.Ops))
	}

	if op := f.Last("brightness"); op == nil || op.Level != 7 || !op.On {
		t.Errorf("brightness op: got %+v", op)
	}
	if op := f.Last("number"); op == nil || op.Value != 123 || op.Digits != 4 {
		t.Errorf("number op: got %+v", op)
	}
	if op := f.Last("segments"); op == nil || !bytes.Equal(op.Segs, GlyphSWR) {
		t.Errorf("segments op: got %+v", op)
	}
	if f.CountKind("clear") != 1 {
		t.Errorf("clear count: got %d, want 1", f.CountKind("clear"))
	}
}

func TestFakeSegmentsCopied(t *testing.T) {
	f := NewFake()
	segs := []byte{1, 2, 3, 4}
	f.SetSegments(segs)
	segs[0] = 99

	if f.Ops[0].Segs[0] != 1 {
		t.Error("fake must copy segment data, not alias it")
	}
}

func TestFakeError(t *testing.T) {
	f := NewFake()
	f.Err = errors.New("fake failure")

	if err := f.Clear(); err == nil {
		t.Error("expected error")
	}
	if len(f.Ops) != 0 {
		t.Error("failed ops must not be recorded")
	}
}
