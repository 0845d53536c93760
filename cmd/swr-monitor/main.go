// Command swr-monitor samples a directional coupler, derives SWR and forward
// power, drives two TM1637 displays, asserts a GPIO interlock on high SWR,
// and publishes transitions to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/swr-monitor/internal/adc"
	"github.com/sweeney/swr-monitor/internal/config"
	"github.com/sweeney/swr-monitor/internal/display"
	"github.com/sweeney/swr-monitor/internal/gpio"
	"github.com/sweeney/swr-monitor/internal/meter"
	"github.com/sweeney/swr-monitor/internal/mqtt"
	"github.com/sweeney/swr-monitor/internal/status"
	"github.com/sweeney/swr-monitor/internal/web"
)

func main() {
	configPath := flag.String("config", "/etc/swr-monitor.yaml", "Config file path")
	poll := flag.Duration("poll", 50*time.Millisecond, "ADC polling interval")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	adcBackend := flag.String("adc", "mcp3008", `ADC backend: "mcp3008" or "serial"`)
	serialPort := flag.String("serial-port", "/dev/ttyACM0", "Serial port for the serial ADC backend")
	diag := flag.Bool("diag", true, "Emit one diagnostic line per iteration")
	printState := flag.Bool("print-state", false, "Read once, print SWR and power, and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	// Flags that were set explicitly win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "poll":
			cfg.Loop.Poll = *poll
		case "broker":
			cfg.MQTT.Broker = *broker
		case "heartbeat":
			cfg.MQTT.Heartbeat = *heartbeat
		case "http":
			cfg.HTTP.Addr = *httpAddr
		case "adc":
			cfg.ADC.Backend = *adcBackend
		case "serial-port":
			cfg.ADC.SerialPort = *serialPort
		}
	})

	if err := run(cfg, *diag, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *config.Config, diag, printState bool) error {
	reader, err := openReader(cfg)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer reader.Close()

	// Print state mode: one conversion, no hardware side effects.
	if printState {
		fwd, ref, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read adc: %w", err)
		}
		conv := meter.NewConverter(cfg.Meter.DiodeOffsetMv, nil)
		m := meter.Estimate(conv.Convert(fwd, ref))
		fmt.Printf("SWR: %s, power: %d W\n", status.FormatSWR(m.SWR), m.Power)
		return nil
	}

	swrDisp, err := display.NewTM1637(cfg.Displays.SWRPinCLK, cfg.Displays.SWRPinDIO)
	if err != nil {
		return fmt.Errorf("init swr display: %w", err)
	}
	defer swrDisp.Close()

	pwrDisp, err := display.NewTM1637(cfg.Displays.PowerPinCLK, cfg.Displays.PowerPinDIO)
	if err != nil {
		return fmt.Errorf("init power display: %w", err)
	}
	defer pwrDisp.Close()

	line, err := gpio.NewRealInterlock(cfg.Interlock.Pin)
	if err != nil {
		return fmt.Errorf("init interlock: %w", err)
	}
	defer line.Close()

	publisher, err := mqtt.NewRealPublisher(cfg.MQTT.Broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	startTime := time.Now()
	tracker := status.NewTracker(startTime, status.Config{
		PollMs:       cfg.Loop.Poll.Milliseconds(),
		SWRThreshold: cfg.Meter.SWRThreshold,
		HeartbeatMs:  cfg.MQTT.Heartbeat.Milliseconds(),
		ADCBackend:   cfg.ADC.Backend,
		Broker:       cfg.MQTT.Broker,
		HTTPAddr:     cfg.HTTP.Addr,
	})

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	splash(swrDisp, pwrDisp, cfg.Meter.BrightnessMax)

	log.Printf("started: poll=%v threshold=%s broker=%s heartbeat=%v adc=%s",
		cfg.Loop.Poll, status.FormatSWR(cfg.Meter.SWRThreshold), cfg.MQTT.Broker,
		cfg.MQTT.Heartbeat, cfg.ADC.Backend)

	ticker := time.NewTicker(cfg.Loop.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ctrl := meter.NewController(startTime, cfg.MeterParams())

	return runLoop(loopDeps{
		reader:    reader,
		swrDisp:   swrDisp,
		pwrDisp:   pwrDisp,
		line:      line,
		publisher: publisher,
		connected: publisher,
		tracker:   tracker,
		ctrl:      ctrl,
		heartbeat: cfg.MQTT.Heartbeat,
		diag:      diag,
		now:       time.Now,
		sleep:     time.Sleep,
	}, ticker.C, sigCh)
}

// openReader constructs the configured ADC backend.
func openReader(cfg *config.Config) (adc.Reader, error) {
	switch cfg.ADC.Backend {
	case "serial":
		return adc.NewSerialReader(cfg.ADC.SerialPort, cfg.ADC.BaudRate)
	case "mcp3008":
		pins := adc.MCP3008Pins{
			CLK:  cfg.ADC.PinCLK,
			MOSI: cfg.ADC.PinMOSI,
			MISO: cfg.ADC.PinMISO,
			CS:   cfg.ADC.PinCS,
		}
		return adc.NewMCP3008Reader(pins, cfg.ADC.ChannelFwd, cfg.ADC.ChannelRef)
	default:
		return nil, fmt.Errorf("unknown adc backend %q", cfg.ADC.Backend)
	}
}

// splash shows four dashes on both modules for a second at startup, the
// visual check that both are wired and lit.
func splash(swrDisp, pwrDisp display.Device, brightness uint8) {
	for _, d := range []display.Device{swrDisp, pwrDisp} {
		if err := d.Clear(); err != nil {
			log.Printf("splash: clear: %v", err)
			continue
		}
		d.SetBrightness(brightness, true)
		d.SetSegments(display.Splash)
	}
	time.Sleep(time.Second)
}

// loopDeps carries everything runLoop needs; tests wire it with fakes.
type loopDeps struct {
	reader    adc.Reader
	swrDisp   display.Device
	pwrDisp   display.Device
	line      gpio.Interlock
	publisher mqtt.Publisher
	connected mqtt.ConnectionStatus
	tracker   *status.Tracker
	ctrl      *meter.Controller
	heartbeat time.Duration
	diag      bool
	now       func() time.Time
	sleep     func(time.Duration)
}

func runLoop(d loopDeps, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			return shutdown(d, signalName(s))

		case <-tick:
			t := d.now()
			fwd, ref, err := d.reader.Read()
			if err != nil {
				log.Printf("adc read error: %v", err)
				continue
			}

			frame := d.ctrl.Step(t, fwd, ref)
			applyFrame(d, frame)

			if d.diag {
				log.Printf("    swr=%d, pwr=%d", frame.Metrics.SWR, frame.Metrics.Power)
			}

			if hb := d.ctrl.CheckHeartbeat(t, d.heartbeat); hb != nil {
				publishHeartbeat(d, hb)
			}

			d.tracker.Update(frame.Metrics.SWR, frame.Metrics.Power,
				frame.Asserted, frame.Transmitting, d.ctrl.UserActive(), d.ctrl.Counts())
			if d.connected != nil {
				d.tracker.SetMQTTConnected(d.connected.IsConnected())
			}

			// Keep the iteration from outrunning the interlock blink.
			if frame.HoldFloor > 0 {
				d.sleep(frame.HoldFloor)
			}
		}
	}
}

// applyFrame executes one iteration's decisions against the hardware.
func applyFrame(d loopDeps, frame meter.Frame) {
	for _, ev := range frame.Events {
		switch ev.Type {
		case meter.EventInterlockOn:
			if err := d.line.Set(true); err != nil {
				log.Printf("interlock assert error: %v", err)
			}
			log.Printf("!!! HIGH SWR !!!    INTERLOCK ON")
		case meter.EventInterlockOff:
			if err := d.line.Set(false); err != nil {
				log.Printf("interlock release error: %v", err)
			}
			log.Printf("!!!      SWR normal interlock OFF")
		}
		if err := d.publisher.Publish(ev); err != nil {
			log.Printf("publish error: %v", err)
			// Don't crash on publish failure
		}
	}

	b := frame.Brightness[meter.ChannelSWR]
	if err := d.swrDisp.SetBrightness(b.Level, b.On); err != nil {
		log.Printf("swr display brightness error: %v", err)
	}
	b = frame.Brightness[meter.ChannelPower]
	if err := d.pwrDisp.SetBrightness(b.Level, b.On); err != nil {
		log.Printf("power display brightness error: %v", err)
	}

	for _, p := range frame.Paints {
		dev, glyph := d.swrDisp, display.GlyphSWR
		if p.Channel == meter.ChannelPower {
			dev, glyph = d.pwrDisp, display.GlyphPower
		}

		var err error
		switch p.Kind {
		case meter.PaintValue:
			err = dev.ShowNumber(p.Value, false, display.Digits, 0)
		case meter.PaintGlyph:
			err = dev.SetSegments(glyph)
		}
		if err != nil {
			log.Printf("%s display paint error: %v", p.Channel, err)
		}
	}
}

func publishHeartbeat(d loopDeps, hb *meter.HeartbeatData) {
	log.Printf("heartbeat: uptime=%v trips=%d releases=%d",
		hb.Uptime, hb.Counts.Trips, hb.Counts.Releases)

	event := mqtt.SystemEvent{
		Timestamp: hb.Timestamp,
		Event:     "HEARTBEAT",
	}
	if d.connected != nil {
		d.tracker.SetMQTTConnected(d.connected.IsConnected())
	}
	snap := d.tracker.Snapshot()
	event.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")

	if err := d.publisher.PublishSystem(event); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

// shutdown releases the interlock, blanks the displays and publishes the
// SHUTDOWN event before returning.
func shutdown(d loopDeps, reason string) error {
	if err := d.line.Set(false); err != nil {
		log.Printf("interlock release error: %v", err)
	}
	if err := d.swrDisp.Clear(); err != nil {
		log.Printf("swr display clear error: %v", err)
	}
	if err := d.pwrDisp.Clear(); err != nil {
		log.Printf("power display clear error: %v", err)
	}

	event := mqtt.SystemEvent{
		Timestamp: d.now(),
		Event:     "SHUTDOWN",
		Reason:    reason,
		Retained:  true,
	}
	if d.tracker != nil {
		if d.connected != nil {
			d.tracker.SetMQTTConnected(d.connected.IsConnected())
		}
		snap := d.tracker.Snapshot()
		event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", reason)
	}
	if err := d.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
	return nil
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
