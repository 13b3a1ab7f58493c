package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// RunWatch executes job immediately and then on the given cron schedule
// until ctx is cancelled. Ticks that fire while a run is still in progress
// are skipped rather than stacked.
func RunWatch(ctx context.Context, cronSpec string, job func()) error {
	logger := cron.VerbosePrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo))
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(cronSpec, job); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronSpec, err)
	}

	slog.Info("Watch mode started.", "cron", cronSpec)
	job()
	c.Start()

	<-ctx.Done()
	slog.Info("Watch mode stopping. Waiting for in-flight run to finish.")
	<-c.Stop().Done()
	return ctx.Err()
}
