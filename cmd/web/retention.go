package main

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/jhalonen/kiloburn/internal/errors"
)

// startRetentionJob schedules the workout history pruning on the given cron
// expression. The returned stop function blocks until a running prune
// finishes.
func (app *application) startRetentionJob(ctx context.Context, schedule string) (func(), error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		removed, pruneErr := app.workouts.Prune(ctx)
		if pruneErr != nil {
			app.errLog.Record(ctx, pruneErr)
			return
		}
		if removed > 0 {
			app.logger.LogAttrs(ctx, slog.LevelInfo, "retention job pruned workouts",
				slog.Int("removed", removed))
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "schedule retention job", slog.String("schedule", schedule))
	}
	c.Start()
	app.logger.LogAttrs(ctx, slog.LevelInfo, "retention job scheduled", slog.String("schedule", schedule))

	return func() { <-c.Stop().Done() }, nil
}
