package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// RunWatch re-runs the report on a cron schedule, serially, until the context
// is canceled. The schedule is a standard 5-field cron expression
// (minute hour day-of-month month day-of-week).
// Examples: "*/30 * * * *" (every 30 min), "0 7 * * 1-5" (weekday mornings).
func RunWatch(ctx context.Context, cfg Config, p Pipeline, opts runOptions) error {
	schedule := strings.TrimSpace(cfg.WatchSchedule)
	if schedule == "" {
		return fmt.Errorf("watch_schedule is not set")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid watch_schedule '%s': %w", schedule, err)
	}

	log.Printf("watch scheduled cron=%q", schedule)
	for {
		now := time.Now().In(cfg.Location)
		next := sched.Next(now)
		wait := next.Sub(now)
		log.Printf("next run at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		if err := runOnce(ctx, cfg, p, opts); err != nil {
			log.Printf("scheduled run error: %v", err)
		}
	}
}
