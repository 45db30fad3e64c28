// ABOUTME: YAML configuration for the xlaudio board
// ABOUTME: Loads pipeline, source, output, and telemetry settings and resolves them to typed values
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
	"github.com/xlaudio/xlaudio-go/pkg/audio/input"
	"github.com/xlaudio/xlaudio-go/pkg/audio/output"
	"github.com/xlaudio/xlaudio-go/pkg/pipeline"
	"github.com/xlaudio/xlaudio-go/pkg/transform"
	"gopkg.in/yaml.v3"
)

// Source kinds
const (
	SourceTone  = "tone"
	SourceNoise = "noise"
	SourceFile  = "file"
	SourceMic   = "mic"
)

// DefaultTelemetryPort is the telemetry websocket port
const DefaultTelemetryPort = 8930

var ErrInvalidConfig = errors.New("invalid config")

// Config is the on-disk board configuration
type Config struct {
	Pipeline struct {
		Mode         string        `yaml:"mode"`
		Rate         int           `yaml:"rate"`
		Input        string        `yaml:"input"`
		Length       int           `yaml:"length"`
		Transform    string        `yaml:"transform"`
		PollInterval time.Duration `yaml:"poll_interval"`
		FaultBlink   time.Duration `yaml:"fault_blink"`
	} `yaml:"pipeline"`

	// Source feeds the primary input. Aux feeds the auxiliary input and may be left empty,
	// in which case selecting the auxiliary input faults.
	Source SourceConfig `yaml:"source"`
	Aux    SourceConfig `yaml:"aux"`

	Output struct {
		Backend      string `yaml:"backend"`
		Pace         *bool  `yaml:"pace"`
		BufferMillis int    `yaml:"buffer_ms"`
	} `yaml:"output"`

	Telemetry struct {
		Enabled  bool          `yaml:"enabled"`
		Port     int           `yaml:"port"`
		Interval time.Duration `yaml:"interval"`
		MDNS     bool          `yaml:"mdns"`
		Name     string        `yaml:"name"`
	} `yaml:"telemetry"`

	TUI     bool   `yaml:"tui"`
	LogFile string `yaml:"log_file"`
	Debug   bool   `yaml:"debug"`
}

// SourceConfig describes one host sample source
type SourceConfig struct {
	Kind      string  `yaml:"kind"`
	Frequency float64 `yaml:"frequency"`
	Seed      uint64  `yaml:"seed"`
	Path      string  `yaml:"path"`
}

func (s SourceConfig) validate(name string) error {
	switch s.Kind {
	case SourceTone:
		if s.Frequency <= 0 {
			return fmt.Errorf("%w: %s tone frequency must be positive", ErrInvalidConfig, name)
		}
	case SourceNoise, SourceMic:
	case SourceFile:
		if s.Path == "" {
			return fmt.Errorf("%w: %s file source needs a path", ErrInvalidConfig, name)
		}
	default:
		return fmt.Errorf("%w: unknown %s source %q", ErrInvalidConfig, name, s.Kind)
	}
	return nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	c := &Config{}
	c.Pipeline.Mode = pipeline.BlockDMA.String()
	c.Pipeline.Rate = 8000
	c.Pipeline.Input = audio.Primary.String()
	c.Pipeline.Length = 32
	c.Pipeline.Transform = "identity"
	c.Pipeline.PollInterval = 100 * time.Microsecond
	c.Pipeline.FaultBlink = pipeline.DefaultFaultBlink
	c.Source.Kind = SourceTone
	c.Source.Frequency = input.DefaultToneFrequency
	c.Source.Seed = 1
	c.Output.Backend = "oto"
	c.Output.BufferMillis = output.DefaultBufferMillis
	c.Telemetry.Port = DefaultTelemetryPort
	c.TUI = true
	c.LogFile = "xlaudio.log"
	return c
}

// LoadConfig reads filename over the defaults
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the settings that are not left to the pipeline. Pipeline enums are
// checked by Configure, which puts the board into its fault state instead of exiting.
func (c *Config) Validate() error {
	if err := c.Source.validate("primary"); err != nil {
		return err
	}
	if c.Aux.Kind != "" {
		if err := c.Aux.validate("auxiliary"); err != nil {
			return err
		}
	}

	if !output.IsBackend(c.Output.Backend) {
		return fmt.Errorf("%w: unknown output backend %q", ErrInvalidConfig, c.Output.Backend)
	}
	if c.Output.BufferMillis < 0 {
		return fmt.Errorf("%w: negative output buffer", ErrInvalidConfig)
	}
	if c.Telemetry.Port < 0 || c.Telemetry.Port > 65535 {
		return fmt.Errorf("%w: telemetry port %d out of range", ErrInvalidConfig, c.Telemetry.Port)
	}
	return nil
}

// Settings are the typed pipeline parameters resolved from the config
type Settings struct {
	Mode   pipeline.Mode
	Rate   audio.SampleRate
	Input  audio.InputSource
	Length audio.BufferLength
	Sample pipeline.SampleTransform
	Block  pipeline.BlockTransform
}

// Resolve converts the pipeline section to typed values. Block length and transform are
// resolved only for the mode that uses them. Fields that fail to parse are left out of
// range, so pipeline.Configure reports the same problem as a fault.
func (c *Config) Resolve() (Settings, error) {
	s := Settings{Mode: -1, Rate: -1, Input: -1, Length: -1}
	var errs []error

	if mode, err := pipeline.ParseMode(c.Pipeline.Mode); err != nil {
		errs = append(errs, err)
	} else {
		s.Mode = mode
	}
	if rate, err := audio.ParseSampleRate(c.Pipeline.Rate); err != nil {
		errs = append(errs, err)
	} else {
		s.Rate = rate
	}
	if in, err := audio.ParseInputSource(c.Pipeline.Input); err != nil {
		errs = append(errs, err)
	} else {
		s.Input = in
	}

	switch s.Mode {
	case pipeline.BlockDMA:
		if length, err := audio.ParseBufferLength(c.Pipeline.Length); err != nil {
			errs = append(errs, err)
		} else {
			s.Length = length
		}
		if fn, err := transform.LookupBlock(c.Pipeline.Transform); err != nil {
			errs = append(errs, err)
		} else {
			s.Block = fn
		}
	case pipeline.Polling, pipeline.Interrupt:
		if fn, err := transform.Lookup(c.Pipeline.Transform); err != nil {
			errs = append(errs, err)
		} else {
			s.Sample = fn
		}
	}

	return s, errors.Join(errs...)
}

// Pace reports whether output writes should block when the device buffer is full.
// Unset, it paces only in polling mode where nothing else limits the loop.
func (c *Config) Pace(mode pipeline.Mode) bool {
	if c.Output.Pace != nil {
		return *c.Output.Pace
	}
	return mode == pipeline.Polling
}

// ServiceName returns the mDNS instance name
func (c *Config) ServiceName() string {
	if c.Telemetry.Name != "" {
		return c.Telemetry.Name
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s-xlaudio", hostname)
}
