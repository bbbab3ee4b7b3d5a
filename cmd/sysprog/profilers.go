package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime/pprof"
)

// profiler writes a pprof profile to a file for as long as its context lives.
// An empty path disables it.
//
//nolint:containedctx
type profiler struct {
	ctx      context.Context
	cancel   context.CancelFunc
	doneChan chan struct{}
}

func newProfiler(ctx context.Context, path string, run func(ctx context.Context, w io.Writer) error) *profiler {
	prof := &profiler{doneChan: make(chan struct{})}
	prof.ctx, prof.cancel = context.WithCancel(ctx)

	go func() {
		defer close(prof.doneChan)

		if path == "" {
			return
		}

		f, err := os.Create(path)
		if err != nil {
			slog.Error("Could not create profile", "path", path, "err", err)

			return
		}
		defer f.Close()

		if err := run(prof.ctx, f); err != nil {
			slog.Error("Could not write profile", "path", path, "err", err)
		}
	}()

	return prof
}

// newCPUProfiler profiles the CPU until it is stopped.
func newCPUProfiler(ctx context.Context, path string) *profiler {
	return newProfiler(ctx, path, func(ctx context.Context, w io.Writer) error {
		if err := pprof.StartCPUProfile(w); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()

		<-ctx.Done()

		return nil
	})
}

// newAllocProfiler writes the allocations profile once it is stopped.
func newAllocProfiler(ctx context.Context, path string) *profiler {
	return newProfiler(ctx, path, func(ctx context.Context, w io.Writer) error {
		<-ctx.Done()

		return pprof.Lookup("allocs").WriteTo(w, 0)
	})
}

// Stop ends the profiling and waits for the profile to be written.
func (prof *profiler) Stop() {
	prof.cancel()
	<-prof.doneChan
}
