// ABOUTME: Entry point for the xlaudio board simulator
// ABOUTME: Parses CLI flags over the config file and runs the sampling pipeline
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/xlaudio/xlaudio-go/internal/app"
	"github.com/xlaudio/xlaudio-go/internal/config"
	"github.com/xlaudio/xlaudio-go/internal/discovery"
	"github.com/xlaudio/xlaudio-go/internal/telemetry"
	"github.com/xlaudio/xlaudio-go/internal/ui"
	"github.com/xlaudio/xlaudio-go/internal/version"
	"github.com/xlaudio/xlaudio-go/pkg/pipeline"
)

var (
	configFile    = flag.String("config", "", "YAML config file (flags override it)")
	mode          = flag.String("mode", "", "Pipeline mode: polling, interrupt, or dma")
	rate          = flag.Int("rate", 0, "Sample rate in Hz")
	length        = flag.Int("length", 0, "Block length in samples (dma mode)")
	inputName     = flag.String("input", "", "Input channel: primary or aux")
	transformName = flag.String("transform", "", "Transform name")
	source        = flag.String("source", "", "Primary source: tone, noise, file, or mic")
	audioFile     = flag.String("audio", "", "Audio file for the file source (MP3 or FLAC)")
	frequency     = flag.Float64("freq", 0, "Tone frequency in Hz")
	backend       = flag.String("output", "", "Output backend: oto, malgo, or null")
	logFile       = flag.String("log-file", "", "Log file path")
	noTUI         = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	telemetryPort = flag.Int("telemetry-port", 0, "Serve websocket telemetry on this port")
	mdns          = flag.Bool("mdns", false, "Advertise telemetry via mDNS")
	discover      = flag.Bool("discover", false, "List boards on the local network and exit")
	watch         = flag.String("watch", "", "Show the dashboard for a remote board at host:port")
	debug         = flag.Bool("debug", false, "Enable debug logging")
	showVersion   = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *discover {
		listBoards(5 * time.Second)
		return
	}
	if *watch != "" {
		if err := watchBoard(*watch); err != nil {
			log.Fatalf("Watch failed: %v", err)
		}
		return
	}

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.TUI && !term.IsTerminal(int(os.Stdout.Fd())) {
		cfg.TUI = false
	}

	// Set up logging
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if cfg.TUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
		log.Printf("Logging to: %s", cfg.LogFile)
		log.Printf("Press Ctrl-C to stop")
	}

	board, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create board: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = board.Run(ctx)
	switch {
	case errors.Is(err, pipeline.ErrFault):
		log.Printf("Board halted: %v", err)
		os.Exit(2)
	case err != nil:
		log.Printf("Board error: %v", err)
		os.Exit(1)
	}
	log.Printf("Board stopped")
}

// applyFlags copies explicitly set flags over the loaded config
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Pipeline.Mode = *mode
		case "rate":
			cfg.Pipeline.Rate = *rate
		case "length":
			cfg.Pipeline.Length = *length
		case "input":
			cfg.Pipeline.Input = *inputName
		case "transform":
			cfg.Pipeline.Transform = *transformName
		case "source":
			cfg.Source.Kind = *source
		case "audio":
			cfg.Source.Path = *audioFile
			if cfg.Source.Kind == config.SourceTone {
				cfg.Source.Kind = config.SourceFile
			}
		case "freq":
			cfg.Source.Frequency = *frequency
		case "output":
			cfg.Output.Backend = *backend
		case "log-file":
			cfg.LogFile = *logFile
		case "no-tui":
			cfg.TUI = !*noTUI
		case "telemetry-port":
			cfg.Telemetry.Enabled = true
			cfg.Telemetry.Port = *telemetryPort
		case "mdns":
			cfg.Telemetry.MDNS = *mdns
			if *mdns {
				cfg.Telemetry.Enabled = true
			}
		case "debug":
			cfg.Debug = *debug
		}
	})
}

// listBoards browses for boards and prints each one found before the deadline
func listBoards(wait time.Duration) {
	mgr := discovery.NewManager(discovery.Config{})
	defer mgr.Stop()
	mgr.Browse()

	seen := make(map[string]bool)
	deadline := time.After(wait)
	for {
		select {
		case board := <-mgr.Boards():
			if seen[board.Addr()] {
				continue
			}
			seen[board.Addr()] = true
			fmt.Printf("%-24s %-22s mode=%s rate=%s version=%s\n",
				board.Name, board.Addr(), board.TXT["mode"], board.TXT["rate"], board.TXT["version"])
		case <-deadline:
			if len(seen) == 0 {
				fmt.Println("No boards found")
			}
			return
		}
	}
}

// watchBoard runs the dashboard against a remote board's telemetry
func watchBoard(addr string) error {
	client, err := telemetry.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	// The dashboard owns the terminal
	log.SetOutput(io.Discard)

	prog := ui.Run(client, ui.DefaultRefresh)
	go func() {
		<-client.Done()
		prog.Quit()
	}()

	_, err = prog.Run()
	return err
}
