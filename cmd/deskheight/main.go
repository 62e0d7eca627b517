// cmd/deskheight/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/deskheight/internal/config"
	"github.com/tamzrod/deskheight/internal/logging"
	"github.com/tamzrod/deskheight/internal/metrics"
	"github.com/tamzrod/deskheight/internal/pipeline"
	"github.com/tamzrod/deskheight/internal/poller"
	"github.com/tamzrod/deskheight/internal/serialport"
	"github.com/tamzrod/deskheight/internal/server"
	"github.com/tamzrod/deskheight/internal/stream"
	"github.com/tamzrod/deskheight/internal/writer"
)

const appName = "deskheight"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	switch args[0] {
	case "run":
		return runDaemon(args[1:], stdout, stderr)
	case "ports":
		return runPorts(stdout, stderr)
	case "-h", "--help", "help":
		printUsage(stdout)
		return 0
	default:
		if strings.HasPrefix(args[0], "-") {
			fmt.Fprintln(stderr, "unknown flag:", args[0])
			printUsage(stderr)
			return 2
		}
		// bare config path
		return runDaemon(args, stdout, stderr)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, "  deskheight [run] [-check] <config.yaml|config.toml>")
	fmt.Fprintln(w, "  deskheight ports")
}

func runPorts(stdout, stderr io.Writer) int {
	ports, err := serialport.List()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if len(ports) == 0 {
		fmt.Fprintln(stdout, "no serial ports found")
		return 0
	}
	for _, p := range ports {
		fmt.Fprintln(stdout, p.String())
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

func runDaemon(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	check := fs.Bool("check", false, "validate the config and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		printUsage(stderr)
		return 2
	}

	cfg, err := loadConfig(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *check {
		fmt.Fprintf(stdout, "config ok: device=%s targets=%d\n", cfg.Device.Path, len(cfg.Targets))
		return 0
	}

	logger := logging.New(logging.Config{
		App:    appName,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	}, stderr)

	if err := serve(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("deskheight stopped")
		return 1
	}
	return 0
}

// serve wires every component and blocks until a signal or a fatal
// poller error.
func serve(cfg *config.Config, logger zerolog.Logger) error {
	// --------------------
	// Desk line
	// --------------------

	p, closePort, err := poller.Build(*cfg)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.Device.Path, err)
	}
	defer closePort()

	// --------------------
	// Targets (DATA + STATUS)
	// --------------------

	plan := writer.BuildPlan(*cfg)
	clients, closeWriters, err := writer.BuildEndpointClients(*cfg)
	if err != nil {
		return fmt.Errorf("writer clients failed: %w", err)
	}
	defer closeWriters()

	m, err := metrics.New(cfg.Metrics.GaugeName)
	if err != nil {
		return err
	}

	deps := pipeline.Deps{
		Data:    writer.New(plan, clients),
		Metrics: m,
	}
	if sw, ok := writer.NewStatusWriter(plan, clients); ok {
		deps.Status = sw
	}

	var (
		bus        *stream.Bus
		streamPath string
	)
	if cfg.Stream.Enabled {
		bus = stream.NewBus()
		deps.Events = bus
		streamPath = cfg.Stream.Path
	}

	orch := pipeline.New(pipeline.Config{
		StaleAfter: time.Duration(cfg.Device.StaleAfterMs) * time.Millisecond,
	}, deps, logger.With().Str("component", "pipeline").Logger())

	srv, err := server.New(server.Config{
		Listen:      cfg.Metrics.Listen,
		MetricsPath: cfg.Metrics.Path,
		StreamPath:  streamPath,
	}, server.Deps{
		Metrics: m.Handler(),
		Height:  orch,
		Bus:     bus,
	}, logger.With().Str("component", "http").Logger())
	if err != nil {
		return err
	}

	// --------------------
	// Run
	// --------------------

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readings := make(chan poller.Reading, 1)

	orchDone := make(chan error, 1)
	go func() { orchDone <- orch.Run(ctx, readings) }()

	srvDone := make(chan error, 1)
	go func() { srvDone <- srv.Serve(ctx) }()

	pollDone := make(chan error, 1)
	go func() { pollDone <- p.Run(ctx, readings) }()

	logger.Info().
		Str("device", cfg.Device.Path).
		Int("baud", cfg.Device.BaudRate).
		Str("listen", cfg.Metrics.Listen).
		Int("targets", len(plan.Targets)).
		Msg("deskheight started")

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	case err := <-pollDone:
		pollDone <- err
		if err != nil && !errors.Is(err, context.Canceled) {
			runErr = fmt.Errorf("poller: %w", err)
		}
	case err := <-srvDone:
		srvDone <- err
		if err != nil {
			runErr = fmt.Errorf("http: %w", err)
		}
	}

	stop()
	// the blocked read only returns once the port is closed
	_ = closePort()
	<-pollDone
	close(readings)
	<-orchDone
	<-srvDone

	return runErr
}
