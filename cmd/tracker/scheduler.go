package main

import (
	"fmt"
	"time"

	"hiscore-tracker/internal/config"

	"github.com/go-co-op/gocron"
)

// newDailyScheduler registers job once a day at the refresh hour in the
// configured timezone. A run still in progress blocks the next one.
func newDailyScheduler(cfg *config.Config, job func()) (*gocron.Scheduler, *gocron.Job, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	scheduler := gocron.NewScheduler(loc)
	j, err := scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", cfg.RefreshHour)).SingletonMode().Do(job)
	if err != nil {
		return nil, nil, fmt.Errorf("schedule daily job: %w", err)
	}
	return scheduler, j, nil
}
