package blockchain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum"
)

// ConfirmationWaiter blocks until the chain has advanced a number of blocks.
type ConfirmationWaiter struct {
	reader   ethereum.BlockNumberReader
	interval time.Duration
	skip     bool
	logger   *slog.Logger
}

func NewConfirmationWaiter(reader ethereum.BlockNumberReader, interval time.Duration, skip bool, logger *slog.Logger) *ConfirmationWaiter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ConfirmationWaiter{reader: reader, interval: interval, skip: skip, logger: logger}
}

// Wait returns once the height reaches start+blocks, where start is the height
// at the time of the call. It sleeps before every check.
func (w *ConfirmationWaiter) Wait(ctx context.Context, blocks uint64) error {
	if w.skip || blocks == 0 {
		return nil
	}

	start, err := w.reader.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("failed to read block number: %w", err)
	}
	target := start + blocks

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.logger.Info("waiting for confirmations", "current", start, "target", target, "delay", w.interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		current, err := w.reader.BlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("failed to read block number: %w", err)
		}
		if current >= target {
			return nil
		}
		start = current
	}
}

// WaitConfirmations waits for blocks confirmations using the client's poll
// interval. Local networks return immediately.
func (c *Client) WaitConfirmations(ctx context.Context, blocks uint64) error {
	return NewConfirmationWaiter(c.backend, c.opts.PollInterval, c.opts.Local, c.logger).Wait(ctx, blocks)
}
