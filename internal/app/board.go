// ABOUTME: Board application orchestration
// ABOUTME: Wires sources, output, LEDs, and the sample clock into a pipeline and runs it with telemetry
package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/xlaudio/xlaudio-go/internal/config"
	"github.com/xlaudio/xlaudio-go/internal/discovery"
	"github.com/xlaudio/xlaudio-go/internal/telemetry"
	"github.com/xlaudio/xlaudio-go/internal/ui"
	"github.com/xlaudio/xlaudio-go/internal/version"
	"github.com/xlaudio/xlaudio-go/pkg/audio"
	"github.com/xlaudio/xlaudio-go/pkg/audio/input"
	"github.com/xlaudio/xlaudio-go/pkg/audio/output"
	"github.com/xlaudio/xlaudio-go/pkg/hal"
	"github.com/xlaudio/xlaudio-go/pkg/pipeline"
	"github.com/xlaudio/xlaudio-go/pkg/profile"
)

// fallbackRate feeds host sources when the configured rate is not one the board supports
const fallbackRate = 8000

// Board is one simulated sampling board
type Board struct {
	config   *config.Config
	settings config.Settings
	rateHz   int

	controller *pipeline.Controller
	output     output.Output
	duty       *hal.LED
	errLED     *hal.LED
	debug      *hal.LED
	closers    []io.Closer
	opens      []func(sampleRate int) error

	recorder  *telemetry.Recorder
	status    *telemetry.Source
	telemetry *telemetry.Server
	discovery *discovery.Manager
	tuiProg   *tea.Program
}

// New builds a board from cfg. A bad pipeline section does not fail New; the board is
// built in the fault state and blinks its error LED when run.
func New(cfg *config.Config) (*Board, error) {
	b := &Board{
		config:   cfg,
		duty:     &hal.LED{},
		errLED:   &hal.LED{},
		debug:    &hal.LED{},
		recorder: telemetry.NewRecorder(telemetry.DefaultHistory),
	}

	settings, err := cfg.Resolve()
	if err != nil {
		log.Printf("Warning: pipeline configuration rejected, board will halt: %v", err)
	}
	b.settings = settings

	b.rateHz = settings.Rate.Hz()
	if b.rateHz == 0 {
		b.rateHz = fallbackRate
	}

	mux := &hal.Mux{Inputs: make(map[audio.InputSource]hal.ADC)}
	primary, err := b.newSource(cfg.Source)
	if err != nil {
		b.close()
		return nil, fmt.Errorf("failed to create primary source: %w", err)
	}
	mux.Inputs[audio.Primary] = primary
	if cfg.Aux.Kind != "" {
		aux, err := b.newSource(cfg.Aux)
		if err != nil {
			b.close()
			return nil, fmt.Errorf("failed to create auxiliary source: %w", err)
		}
		mux.Inputs[audio.Auxiliary] = aux
	}

	out, err := output.New(cfg.Output.Backend, output.Options{
		Pace:         cfg.Pace(settings.Mode),
		BufferMillis: cfg.Output.BufferMillis,
	})
	if err != nil {
		b.close()
		return nil, err
	}
	b.output = out

	// Interrupt mode lets a late tick nest over a slow transform so overruns show up.
	// The block producer is a DMA channel and never nests.
	var clock hal.Clock
	if settings.Mode != pipeline.Polling {
		clock = &hal.TickerClock{Preempt: settings.Mode == pipeline.Interrupt}
	}

	b.controller, err = pipeline.Configure(pipeline.Config{
		Mode:   settings.Mode,
		Rate:   settings.Rate,
		Input:  settings.Input,
		Length: settings.Length,
		Sample: settings.Sample,
		Block:  settings.Block,
		Hardware: pipeline.Hardware{
			ADC:   mux,
			DAC:   out,
			Clock: clock,
			Duty:  b.duty,
			Error: b.errLED,
			Debug: b.debug,
		},
		PollInterval: cfg.Pipeline.PollInterval,
		FaultBlink:   cfg.Pipeline.FaultBlink,
		OnEvent:      b.recorder.Observe,
	})
	if err != nil {
		// The controller is kept in the fault state; Run blinks the error LED.
		log.Printf("Warning: board will halt: %v", err)
	}

	b.status = telemetry.NewSource(b.controller, telemetry.Info{
		RateHz:    settings.Rate.Hz(),
		Input:     cfg.Pipeline.Input,
		Source:    sourceName(cfg),
		Transform: cfg.Pipeline.Transform,
		Output:    cfg.Output.Backend,
	})
	b.status.Duty = b.duty
	b.status.Error = b.errLED
	b.status.Debug = b.debug
	b.status.Output = out
	b.status.Recorder = b.recorder
	b.status.Budget = settings.Rate.Interval() * time.Duration(b.controller.BlockSize())
	b.profile()

	if cfg.Telemetry.Enabled {
		b.telemetry = telemetry.New(telemetry.Config{
			Port:     cfg.Telemetry.Port,
			Interval: cfg.Telemetry.Interval,
			Debug:    cfg.Debug,
		}, b.status)

		if cfg.Telemetry.MDNS {
			b.discovery = discovery.NewManager(discovery.Config{
				ServiceName: cfg.ServiceName(),
				Port:        cfg.Telemetry.Port,
				TXT: map[string]string{
					"path":    telemetry.Path,
					"mode":    cfg.Pipeline.Mode,
					"rate":    fmt.Sprintf("%d", cfg.Pipeline.Rate),
					"version": version.Version,
				},
			})
		}
	}

	if cfg.TUI {
		b.tuiProg = ui.Run(b.status, ui.DefaultRefresh)
	}

	return b, nil
}

func (b *Board) newSource(sc config.SourceConfig) (hal.ADC, error) {
	switch sc.Kind {
	case config.SourceTone:
		return input.NewTone(sc.Frequency, b.rateHz), nil
	case config.SourceNoise:
		return input.NewNoise(sc.Seed), nil
	case config.SourceFile:
		f, err := input.NewFile(sc.Path, b.rateHz)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, f)
		return f, nil
	case config.SourceMic:
		m := input.NewMicrophone()
		b.opens = append(b.opens, m.Open)
		b.closers = append(b.closers, m)
		return m, nil
	default:
		return nil, fmt.Errorf("unknown source %q", sc.Kind)
	}
}

func sourceName(cfg *config.Config) string {
	name := cfg.Source.Kind
	if cfg.Aux.Kind != "" {
		name += "/" + cfg.Aux.Kind
	}
	return name
}

// profile measures the transform once so telemetry can report its share of the budget
func (b *Board) profile() {
	if b.controller.Fault() != nil {
		return
	}
	cycles, err := b.controller.MeasureLatency(profile.New(profile.NewHostCounter()))
	if err != nil {
		log.Printf("Warning: transform profiling failed: %v", err)
		return
	}
	b.status.Cycles = cycles

	budget := b.status.Budget.Nanoseconds()
	log.Printf("Transform cost: %dns per buffer of %dns", cycles, budget)
	if budget > 0 && int64(cycles) > budget {
		log.Printf("Warning: transform exceeds the buffer period, expect overruns")
	}
}

// Run starts the board and blocks until ctx is cancelled, the dashboard quits, or a
// component fails. A faulted board returns its pipeline.FaultError.
func (b *Board) Run(ctx context.Context) error {
	defer b.close()

	if b.controller.Fault() == nil {
		for _, open := range b.opens {
			if err := open(b.rateHz); err != nil {
				return fmt.Errorf("failed to open source: %w", err)
			}
		}
		if err := b.output.Open(b.rateHz); err != nil {
			return fmt.Errorf("failed to open output: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return b.controller.Run(gctx)
	})

	if b.telemetry != nil {
		g.Go(func() error {
			return b.telemetry.Run(gctx)
		})
	}

	if b.discovery != nil {
		if err := b.discovery.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			g.Go(func() error {
				<-gctx.Done()
				b.discovery.Stop()
				return nil
			})
		}
	}

	if b.tuiProg != nil {
		prog := b.tuiProg
		go func() {
			<-gctx.Done()
			prog.Quit()
		}()
		g.Go(func() error {
			defer cancel()
			if _, err := prog.Run(); err != nil {
				return fmt.Errorf("TUI error: %w", err)
			}
			return nil
		})
	}

	log.Printf("%s running: mode=%s, rate=%dHz, source=%s, output=%s",
		version.String(), b.config.Pipeline.Mode, b.rateHz, sourceName(b.config), b.config.Output.Backend)
	return g.Wait()
}

// Controller returns the board's pipeline controller
func (b *Board) Controller() *pipeline.Controller {
	return b.controller
}

// Snapshot returns the current telemetry status
func (b *Board) Snapshot() telemetry.Status {
	return b.status.Snapshot()
}

func (b *Board) close() {
	if b.output != nil {
		if err := b.output.Close(); err != nil {
			log.Printf("Warning: output close error: %v", err)
		}
	}
	for _, c := range b.closers {
		if err := c.Close(); err != nil {
			log.Printf("Warning: source close error: %v", err)
		}
	}
	b.closers = nil
}
