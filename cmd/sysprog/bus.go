package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanilR266/sysprog/internal/bus"
	"github.com/DanilR266/sysprog/internal/configuration"
	"github.com/DanilR266/sysprog/internal/coro"
)

const (
	// batchSize is the amount of messages moved per batch operation.
	batchSize = 16

	// announcement is the message broadcast to all channels before the
	// producers start.
	announcement = ^uint32(0)
)

// busReport holds the results of a bus workload.
type busReport struct {
	Channels   int
	Sent       uint64
	Received   uint64
	Coroutines int
	Switches   uint64
	Leftover   bus.Stats
	Elapsed    time.Duration
}

// runBusWorkload moves messages from producers over the channels of a bus to
// one consumer per channel, all running as coroutines of one scheduler.
// Producer p sends all of its messages to channel p modulo the amount of
// channels. With broadcasting enabled, an announcement is sent to every
// channel first.
func runBusWorkload(ctx context.Context, config configuration.BusConfiguration) (busReport, error) {
	report := busReport{Channels: config.Channels}
	start := time.Now()

	sched := coro.NewScheduler()
	b := bus.New(sched, bus.Options{
		Broadcast: config.Broadcast,
		Batch:     config.Batch,
	})
	defer b.Destroy()

	handles := make([]int, config.Channels)
	expected := make([]int, config.Channels)
	for i := range handles {
		handles[i] = b.Open(uint(config.Capacity)) //nolint:gosec
	}

	var sentSum, recvSum uint64
	var failure error

	fail := func(err error) {
		if failure == nil {
			failure = err
		}
	}

	if config.Broadcast {
		for i := range expected {
			expected[i]++
		}
		sched.Go("announcer", func(_ *coro.Coro) {
			if err := b.Broadcast(announcement); err != nil {
				fail(fmt.Errorf("(bus-workload) announcer: %w", err))

				return
			}
			report.Sent += uint64(len(handles))
			sentSum += uint64(announcement) * uint64(len(handles))
		})
	}

	for p := range config.Producers {
		channel := p % config.Channels
		expected[channel] += config.Messages

		msgs := make([]uint32, config.Messages)
		for m := range msgs {
			msgs[m] = uint32(p*config.Messages + m + 1) //nolint:gosec
		}

		sched.Go(fmt.Sprintf("producer-%d", p), func(_ *coro.Coro) {
			sent, err := produce(b, handles[channel], msgs, config.Batch)
			for _, msg := range msgs[:sent] {
				sentSum += uint64(msg)
			}
			report.Sent += uint64(sent) //nolint:gosec
			if err != nil {
				fail(fmt.Errorf("(bus-workload) producer %d: %w", p, err))
			}
		})
	}

	for i, handle := range handles {
		want := expected[i]

		sched.Go(fmt.Sprintf("consumer-%d", i), func(_ *coro.Coro) {
			got, sum, err := consume(b, handle, want, config.Batch)
			recvSum += sum
			report.Received += uint64(got) //nolint:gosec
			if err != nil {
				fail(fmt.Errorf("(bus-workload) consumer %d: %w", i, err))
			}
		})
	}

	if err := sched.Run(ctx); err != nil {
		fail(fmt.Errorf("(bus-workload) %w", err))
	}

	report.Coroutines = config.Producers + config.Channels
	if config.Broadcast {
		report.Coroutines++
	}
	report.Switches = sched.Switches()
	report.Leftover = b.Stats()
	report.Elapsed = time.Since(start)

	if failure == nil && (report.Sent != report.Received || sentSum != recvSum) {
		failure = fmt.Errorf("(bus-workload) %w: sent %d, received %d",
			ErrChecksumMismatch, report.Sent, report.Received)
	}

	slog.Debug("Bus workload finished.",
		"sent", report.Sent,
		"received", report.Received,
		"switches", report.Switches,
		"elapsed", report.Elapsed,
	)

	return report, failure
}

// produce sends all messages to the channel, returning how many were sent.
func produce(b *bus.Bus, handle int, msgs []uint32, batch bool) (int, error) {
	sent := 0

	for sent < len(msgs) {
		if batch {
			n, err := b.SendV(handle, msgs[sent:min(sent+batchSize, len(msgs))])
			sent += n
			if err != nil {
				return sent, err
			}

			continue
		}

		if err := b.Send(handle, msgs[sent]); err != nil {
			return sent, err
		}
		sent++
	}

	return sent, nil
}

// consume receives exactly want messages from the channel, returning how
// many were received and their sum.
func consume(b *bus.Bus, handle int, want int, batch bool) (int, uint64, error) {
	var sum uint64
	got := 0
	buf := make([]uint32, batchSize)

	for got < want {
		if batch {
			n, err := b.RecvV(handle, buf[:min(batchSize, want-got)])
			for _, msg := range buf[:n] {
				sum += uint64(msg)
			}
			got += n
			if err != nil {
				return got, sum, err
			}

			continue
		}

		msg, err := b.Recv(handle)
		if err != nil {
			return got, sum, err
		}
		sum += uint64(msg)
		got++
	}

	return got, sum, nil
}
