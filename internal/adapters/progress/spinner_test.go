package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/tetu-io/vaultctl/internal/usecase"
)

func TestSpinnerProgressReporter(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	r := NewSpinnerProgressReporter()
	r.out = &out
	r.spinner.Writer = &out

	ctx := context.Background()
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: "Deploying", Current: 1, Total: 4, Message: "Controller", Spinner: true})
	assert.Contains(t, r.spinner.Suffix, "[1/4] Deploying Controller")

	r.Info("hello")
	r.Error("boom")
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: "Done"})
	r.Stop()

	// the spinner never animates outside a terminal
	assert.False(t, r.spinner.Active())
	assert.Contains(t, out.String(), "hello")
	assert.Contains(t, out.String(), "boom")
}

func TestNewProgressSink(t *testing.T) {
	assert.IsType(t, usecase.NopProgress{}, NewProgressSink(true))
	assert.IsType(t, &SpinnerProgressReporter{}, NewProgressSink(false))
}
