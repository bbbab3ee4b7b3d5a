package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

//nolint:gochecknoglobals
var (
	// titleStyle defines the style for a panel's title.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	// borderStyle defines the style for a panel's borders.
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	// infoStyle defines the style for a panel's text.
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))
)

// renderSummary renders the reports of both workloads side by side.
func renderSummary(busRep busReport, fsRep fsReport, peakRSS uint64) string {
	busDetails := fmt.Sprintf(
		"Channels: %d\n"+
			"Messages: Sent=%s, Received=%s\n"+
			"Coroutines: %d (%s switches)\n"+
			"Leftover: Queued=%d, Senders=%d, Receivers=%d\n"+
			"Time: %v",
		busRep.Channels,
		humanize.Comma(int64(busRep.Sent)),     //nolint:gosec
		humanize.Comma(int64(busRep.Received)), //nolint:gosec
		busRep.Coroutines,
		humanize.Comma(int64(busRep.Switches)), //nolint:gosec
		busRep.Leftover.QueuedMessages,
		busRep.Leftover.ParkedSenders,
		busRep.Leftover.ParkedReceivers,
		busRep.Elapsed.Round(time.Microsecond),
	)

	fsDetails := fmt.Sprintf(
		"Files: %d (overflow checked: %t)\n"+
			"Written: %s\n"+
			"Peak: %d blocks (%s)\n"+
			"Process RSS: %s\n"+
			"Time: %v",
		fsRep.Files,
		fsRep.Overflowed,
		humanize.IBytes(fsRep.Written),
		fsRep.PeakBlocks,
		humanize.IBytes(fsRep.PeakBytes),
		humanize.IBytes(peakRSS),
		fsRep.Elapsed.Round(time.Microsecond),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		panel("Bus", busDetails),
		panel("File System", fsDetails),
	)
}

func panel(title string, details string) string {
	return borderStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(title),
		"", // Empty line for spacing.
		infoStyle.Render(details),
	))
}
