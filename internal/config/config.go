// Package config loads the daemon configuration from a YAML file, falling
// back to defaults when the file is absent. Command-line flags override
// individual fields after loading.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/swr-monitor/internal/adc"
	"github.com/sweeney/swr-monitor/internal/gpio"
	"github.com/sweeney/swr-monitor/internal/meter"
)

// Config represents the daemon configuration.
type Config struct {
	ADC       ADCConfig       `yaml:"adc"`
	Displays  DisplaysConfig  `yaml:"displays"`
	Interlock InterlockConfig `yaml:"interlock"`
	Meter     MeterConfig     `yaml:"meter"`
	Loop      LoopConfig      `yaml:"loop"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	HTTP      HTTPConfig      `yaml:"http"`
}

// ADCConfig selects and configures the analog backend.
type ADCConfig struct {
	// Backend is "mcp3008" or "serial".
	Backend string `yaml:"backend"`

	// Serial backend.
	SerialPort string `yaml:"serial_port"`
	BaudRate   int    `yaml:"baud_rate"`

	// MCP3008 backend (BCM pins).
	PinCLK     int `yaml:"pin_clk"`
	PinMOSI    int `yaml:"pin_mosi"`
	PinMISO    int `yaml:"pin_miso"`
	PinCS      int `yaml:"pin_cs"`
	ChannelFwd int `yaml:"channel_fwd"`
	ChannelRef int `yaml:"channel_ref"`
}

// DisplaysConfig holds the TM1637 pin pairs (BCM numbering).
type DisplaysConfig struct {
	SWRPinCLK   int `yaml:"swr_pin_clk"`
	SWRPinDIO   int `yaml:"swr_pin_dio"`
	PowerPinCLK int `yaml:"power_pin_clk"`
	PowerPinDIO int `yaml:"power_pin_dio"`
}

// InterlockConfig holds the interlock output pin.
type InterlockConfig struct {
	Pin int `yaml:"pin"`
}

// MeterConfig holds the control-loop tuning values.
type MeterConfig struct {
	SWRThreshold   int           `yaml:"swr_threshold"`   // SWR x10
	InactiveSecs   uint          `yaml:"inactive_secs"`   // idle seconds before dimming
	BrightnessMin  uint8         `yaml:"brightness_min"`  // 0..7
	BrightnessMax  uint8         `yaml:"brightness_max"`  // 0..7
	DiodeOffsetMv  int           `yaml:"diode_offset_mv"` // detector diode compensation
	SWRRefresh     time.Duration `yaml:"swr_refresh"`     // min SWR repaint interval
	PowerRefresh   time.Duration `yaml:"power_refresh"`   // min power repaint interval
	Smoothing      bool          `yaml:"smoothing"`       // averaged sampling strategy
	SmoothingDepth int           `yaml:"smoothing_depth"` // circular buffer depth
}

// LoopConfig holds the main loop cadence.
type LoopConfig struct {
	Poll time.Duration `yaml:"poll"`
}

// MQTTConfig holds the telemetry settings.
type MQTTConfig struct {
	Broker    string        `yaml:"broker"`
	Heartbeat time.Duration `yaml:"heartbeat"` // 0 disables
}

// HTTPConfig holds the status server settings.
type HTTPConfig struct {
	Addr string `yaml:"addr"` // empty disables
}

// Default returns the configuration for the reference wiring.
func Default() *Config {
	return &Config{
		ADC: ADCConfig{
			Backend:    "mcp3008",
			SerialPort: "/dev/ttyACM0",
			BaudRate:   adc.DefaultBaudRate,
			PinCLK:     adc.DefaultPinCLK,
			PinMOSI:    adc.DefaultPinMOSI,
			PinMISO:    adc.DefaultPinMISO,
			PinCS:      adc.DefaultPinCS,
			ChannelFwd: adc.DefaultChannelFwd,
			ChannelRef: adc.DefaultChannelRef,
		},
		Displays: DisplaysConfig{
			SWRPinCLK:   5,
			SWRPinDIO:   6,
			PowerPinCLK: 13,
			PowerPinDIO: 19,
		},
		Interlock: InterlockConfig{
			Pin: gpio.DefaultPinInterlock,
		},
		Meter: MeterConfig{
			SWRThreshold:   meter.DefaultSWRThreshold,
			InactiveSecs:   meter.DefaultInactiveSecs,
			BrightnessMin:  meter.DefaultBrightnessMin,
			BrightnessMax:  meter.DefaultBrightnessMax,
			DiodeOffsetMv:  meter.DefaultDiodeOffsetMillivolts,
			SWRRefresh:     meter.DefaultSWRRefreshInterval,
			PowerRefresh:   meter.DefaultPowerRefreshInterval,
			Smoothing:      false,
			SmoothingDepth: meter.DefaultSmoothingDepth,
		},
		Loop: LoopConfig{
			Poll: 50 * time.Millisecond,
		},
		MQTT: MQTTConfig{
			Broker:    "tcp://192.168.1.200:1883",
			Heartbeat: 15 * time.Minute,
		},
		HTTP: HTTPConfig{
			Addr: ":80",
		},
	}
}

// Load reads configuration from the given YAML file, merged over the
// defaults. A missing file is not an error: the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ADC.Backend {
	case "mcp3008", "serial":
	default:
		return fmt.Errorf("unknown adc backend %q", c.ADC.Backend)
	}
	if c.Meter.BrightnessMin > c.Meter.BrightnessMax {
		return fmt.Errorf("brightness_min %d above brightness_max %d",
			c.Meter.BrightnessMin, c.Meter.BrightnessMax)
	}
	if c.Meter.SWRThreshold < 10 {
		// SWR below 1.0 is physically impossible; a threshold there
		// would latch the interlock forever.
		return fmt.Errorf("swr_threshold %d below 10 (SWR 1.0)", c.Meter.SWRThreshold)
	}
	if c.Loop.Poll <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	return nil
}

// MeterParams converts the meter section into controller parameters.
func (c *Config) MeterParams() meter.Params {
	return meter.Params{
		SWRThreshold:          c.Meter.SWRThreshold,
		InactiveSecs:          c.Meter.InactiveSecs,
		BrightnessMin:         c.Meter.BrightnessMin,
		BrightnessMax:         c.Meter.BrightnessMax,
		DiodeOffsetMillivolts: c.Meter.DiodeOffsetMv,
		SWRRefresh:            c.Meter.SWRRefresh,
		PowerRefresh:          c.Meter.PowerRefresh,
		Smoothing:             c.Meter.Smoothing,
		SmoothingDepth:        c.Meter.SmoothingDepth,
	}
}
