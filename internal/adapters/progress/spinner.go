package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/tetu-io/vaultctl/internal/usecase"
)

// SpinnerProgressReporter shows a spinner with the current step while a
// use case waits on the chain.
type SpinnerProgressReporter struct {
	spinner   *spinner.Spinner
	out       io.Writer
	stage     string
	startedAt time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     os.Stderr,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	if event.Stage != r.stage {
		r.stage = event.Stage
		r.startedAt = time.Now()
	}

	if !event.Spinner {
		if r.spinner.Active() {
			r.spinner.Stop()
		}
		return
	}

	if !r.spinner.Active() {
		r.spinner.Start()
	}
	r.spinner.Suffix = " " + r.suffix(event)
}

func (r *SpinnerProgressReporter) suffix(event usecase.ProgressEvent) string {
	step := ""
	if event.Total > 0 {
		step = color.New(color.FgHiBlack).Sprintf("[%d/%d] ", event.Current, event.Total)
	}
	elapsed := time.Since(r.startedAt).Round(time.Second)
	return fmt.Sprintf("%s%s %s %s", step, event.Stage, color.New(color.FgYellow).Sprint(event.Message), color.New(color.Faint).Sprintf("(%s)", elapsed))
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.pause(func() { color.New(color.FgCyan).Fprintln(r.out, message) })
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.pause(func() { color.New(color.FgRed).Fprintln(r.out, message) })
}

// Stop clears the spinner line.
func (r *SpinnerProgressReporter) Stop() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

func (r *SpinnerProgressReporter) pause(print func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	print()
	if wasActive {
		r.spinner.Start()
	}
}

// NewProgressSink picks the spinner for interactive terminals and a no-op
// sink otherwise.
func NewProgressSink(nonInteractive bool) usecase.ProgressSink {
	if nonInteractive {
		return usecase.NopProgress{}
	}
	return NewSpinnerProgressReporter()
}

var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
