package tasks

import (
	"context"
	"fmt"
	"time"
)

// newAftercareSweepTask creates the scheduled task that sends post-treatment
// follow-up messages for the current day.
func newAftercareSweepTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "aftercare_sweep")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting aftercare sweep...")
		start := time.Now()

		err := deps.Sweeper.Sweep(ctx, time.Now())

		duration := time.Since(start)
		if err != nil {
			log.ErrorContext(ctx, "Aftercare sweep failed", "error", err, "duration", duration)
			return fmt.Errorf("aftercare sweep failed: %w", err)
		}

		log.InfoContext(ctx, "Aftercare sweep completed successfully", "duration", duration)
		return nil
	}
}
