package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/DanilR266/sysprog/internal/configuration"
	"github.com/lmittmann/tint"
	flag "github.com/spf13/pflag"
)

const (
	stackTraceBufMax = 1 << 24
)

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  string

	configFiles = flag.StringSlice("config", nil, "read configuration from these files (dotenv or yaml)")
	logLevel    = flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	cpuprofile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile  = flag.String("memprofile", "", "write memory profile to this file")
)

func setupLogging(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

func setupSignalHandlers(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	sigChan2 := make(chan os.Signal, 1)
	signal.Notify(sigChan2, syscall.SIGUSR1)
	go func() {
		for range sigChan2 {
			buf := make([]byte, stackTraceBufMax)
			stacklen := runtime.Stack(buf, true)
			os.Stderr.Write(buf[:stacklen])
		}
	}()
}

func loadConfiguration() (*configuration.AppConfiguration, error) {
	config, err := configuration.NewHandlerFor(*configFiles...).Load(*configFiles...)
	if err != nil {
		return nil, err
	}

	if *logLevel != "" {
		if err := config.LogLevel.UnmarshalText([]byte(*logLevel)); err != nil {
			return nil, err
		}
	}

	return config, nil
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flag.Parse()
	setupLogging(slog.LevelInfo)

	config, err := loadConfiguration()
	if err != nil {
		slog.Error("Failed to load the configuration.",
			"err", err,
		)
		ExitCode = 1

		return
	}

	setupLogging(config.LogLevel)
	setupSignalHandlers(cancel)

	slog.Info("Starting sysprog.",
		"version", Version,
		"channels", config.Bus.Channels,
		"capacity", config.Bus.Capacity,
		"blockSize", config.FS.BlockSize,
	)

	memObserver := newMemoryObserver(ctx)
	defer memObserver.Stop()

	cpuProfiler := newCPUProfiler(ctx, *cpuprofile)
	defer cpuProfiler.Stop()

	allocProfiler := newAllocProfiler(ctx, *memprofile)
	defer allocProfiler.Stop()

	busReport, err := runBusWorkload(ctx, config.Bus)
	if err != nil {
		slog.Error("Bus workload failed.",
			"err", err,
		)
		ExitCode = 1
	}

	fsReport, err := runFSWorkload(config.FS)
	if err != nil {
		slog.Error("File system workload failed.",
			"err", err,
		)
		ExitCode = 1
	}

	os.Stdout.WriteString(renderSummary(busReport, fsReport, memObserver.PeakRSS()) + "\n")
}
