package main

import (
	"bytes"
	"encoding/json"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/swr-monitor/internal/adc"
	"github.com/sweeney/swr-monitor/internal/config"
	"github.com/sweeney/swr-monitor/internal/display"
	"github.com/sweeney/swr-monitor/internal/gpio"
	"github.com/sweeney/swr-monitor/internal/meter"
	"github.com/sweeney/swr-monitor/internal/mqtt"
	"github.com/sweeney/swr-monitor/internal/status"
)

func testDeps() (loopDeps, *adc.FakeReader, *display.Fake, *display.Fake, *gpio.FakeInterlock, *mqtt.FakePublisher) {
	reader := adc.NewFakeReader([]adc.Sample{{Fwd: 1023, Ref: 0}})
	swrDisp := display.NewFake()
	pwrDisp := display.NewFake()
	line := gpio.NewFakeInterlock()
	pub := mqtt.NewFakePublisher()

	start := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	tracker := status.NewTracker(start, status.Config{PollMs: 50, SWRThreshold: 12})

	clock := start
	d := loopDeps{
		reader:    reader,
		swrDisp:   swrDisp,
		pwrDisp:   pwrDisp,
		line:      line,
		publisher: pub,
		connected: pub,
		tracker:   tracker,
		ctrl:      meter.NewController(start, meter.Params{}),
		heartbeat: 0,
		diag:      false,
		now: func() time.Time {
			clock = clock.Add(50 * time.Millisecond)
			return clock
		},
		sleep: func(time.Duration) {},
	}
	return d, reader, swrDisp, pwrDisp, line, pub
}

func TestOpenReaderUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.ADC.Backend = "bogus"

	if _, err := openReader(cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestSignalName(t *testing.T) {
	if got := signalName(syscall.SIGINT); got != "SIGINT" {
		t.Errorf("SIGINT: got %q", got)
	}
	if got := signalName(syscall.SIGTERM); got != "SIGTERM" {
		t.Errorf("SIGTERM: got %q", got)
	}
	if got := signalName(syscall.SIGHUP); got != "UNKNOWN" {
		t.Errorf("SIGHUP: got %q", got)
	}
}

func TestSplash(t *testing.T) {
	swrDisp := display.NewFake()
	pwrDisp := display.NewFake()

	splash(swrDisp, pwrDisp, 7)

	for name, f := range map[string]*display.Fake{"swr": swrDisp, "pwr": pwrDisp} {
		if f.CountKind("clear") != 1 {
			t.Errorf("%s: expected one clear", name)
		}
		if op := f.Last("brightness"); op == nil || op.Level != 7 || !op.On {
			t.Errorf("%s: brightness op: got %+v", name, op)
		}
		if op := f.Last("segments"); op == nil || !bytes.Equal(op.Segs, display.Splash) {
			t.Errorf("%s: splash segments: got %+v", name, op)
		}
	}
}

func TestApplyFrameTripSequence(t *testing.T) {
	d, _, swrDisp, pwrDisp, line, pub := testDeps()

	frame := meter.Frame{
		Metrics:  meter.Metrics{SWR: 35, Power: 40},
		Asserted: true,
		Events: []meter.Event{{
			Type:  meter.EventInterlockOn,
			SWR:   35,
			Power: 40,
		}},
		Paints: []meter.Paint{
			{Channel: meter.ChannelSWR, Kind: meter.PaintValue, Value: 35},
			{Channel: meter.ChannelPower, Kind: meter.PaintValue, Value: 40},
		},
	}
	frame.Brightness[meter.ChannelSWR] = meter.Brightness{Level: 7, On: true}
	frame.Brightness[meter.ChannelPower] = meter.Brightness{Level: 7, On: true}

	applyFrame(d, frame)

	if !line.Asserted || len(line.Transitions) != 1 {
		t.Errorf("line: asserted=%v transitions=%v", line.Asserted, line.Transitions)
	}
	if len(pub.Events) != 1 || pub.Events[0].Type != meter.EventInterlockOn {
		t.Errorf("published: got %+v", pub.Events)
	}
	if op := swrDisp.Last("number"); op == nil || op.Value != 35 {
		t.Errorf("swr paint: got %+v", op)
	}
	if op := pwrDisp.Last("number"); op == nil || op.Value != 40 {
		t.Errorf("power paint: got %+v", op)
	}
}

func TestApplyFrameGlyphs(t *testing.T) {
	d, _, swrDisp, pwrDisp, _, _ := testDeps()

	frame := meter.Frame{
		Paints: []meter.Paint{
			{Channel: meter.ChannelSWR, Kind: meter.PaintGlyph},
			{Channel: meter.ChannelPower, Kind: meter.PaintGlyph},
		},
	}
	frame.Brightness[meter.ChannelSWR] = meter.Brightness{Level: 1, On: true}
	frame.Brightness[meter.ChannelPower] = meter.Brightness{Level: 1, On: true}

	applyFrame(d, frame)

	if op := swrDisp.Last("segments"); op == nil || !bytes.Equal(op.Segs, display.GlyphSWR) {
		t.Errorf("swr glyph: got %+v", op)
	}
	if op := pwrDisp.Last("segments"); op == nil || !bytes.Equal(op.Segs, display.GlyphPower) {
		t.Errorf("power glyph: got %+v", op)
	}
	if op := swrDisp.Last("brightness"); op == nil || op.Level != 1 {
		t.Errorf("dimmed brightness: got %+v", op)
	}
}

func TestShutdownReleasesEverything(t *testing.T) {
	d, _, swrDisp, pwrDisp, line, pub := testDeps()
	line.Set(true)

	if err := shutdown(d, "SIGTERM"); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if line.Asserted {
		t.Error("interlock must be released on shutdown")
	}
	if swrDisp.CountKind("clear") != 1 || pwrDisp.CountKind("clear") != 1 {
		t.Error("both displays must be cleared on shutdown")
	}

	if len(pub.SystemEvents) != 1 {
		t.Fatalf("system events: got %d, want 1", len(pub.SystemEvents))
	}
	ev := pub.SystemEvents[0]
	if ev.Event != "SHUTDOWN" || ev.Reason != "SIGTERM" || !ev.Retained {
		t.Errorf("shutdown event: got %+v", ev)
	}

	var parsed status.StatusJSON
	if err := json.Unmarshal(ev.RawPayload, &parsed); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("payload event: got %q", parsed.Status.Event)
	}
}

func TestRunLoopTicksThenExits(t *testing.T) {
	d, _, swrDisp, _, _, pub := testDeps()

	tick := make(chan time.Time)
	sig := make(chan os.Signal)
	done := make(chan error, 1)

	go func() { done <- runLoop(d, tick, sig) }()

	for i := 0; i < 3; i++ {
		tick <- time.Now()
	}
	sig <- syscall.SIGTERM

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runLoop: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runLoop did not exit after the signal")
	}

	// Three iterations on a matched load: numbers painted, no interlock
	// events, then a retained SHUTDOWN on the way out.
	if swrDisp.CountKind("number") == 0 {
		t.Error("expected at least one numeric paint")
	}
	if len(pub.Events) != 0 {
		t.Errorf("no interlock events expected, got %d", len(pub.Events))
	}
	if len(pub.SystemEvents) != 1 || pub.SystemEvents[0].Event != "SHUTDOWN" {
		t.Errorf("system events: got %+v", pub.SystemEvents)
	}

	snap := d.tracker.Snapshot()
	if snap.SWR != 10 {
		t.Errorf("tracker swr: got %d, want 10", snap.SWR)
	}
}
