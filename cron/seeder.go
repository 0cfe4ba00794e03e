package cron

import (
	"context"
	"fmt"
	"time"

	"medischedule/services/schedule"
	"medischedule/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSeedSpec runs early on Monday morning.
const DefaultSeedSpec = "5 0 * * 1"

// SeedDefaultWeeks fills the current week with the default slots for every
// doctor whose week is still empty.
func SeedDefaultWeeks(ctx context.Context, svc schedule.ScheduleService, doctorIDs []string, now time.Time) int {
	logger := utils.GetLogger()
	total := 0
	for _, id := range doctorIDs {
		n, err := svc.SeedWeek(ctx, id, now)
		if err != nil {
			logger.Error("Weekly seed failed", zap.String("doctorId", id), zap.Error(err))
			continue
		}
		total += n
	}
	logger.Info("Weekly slots seeded", zap.Int("doctors", len(doctorIDs)), zap.Int("slots", total))
	return total
}

// StartWeeklySeeder schedules SeedDefaultWeeks on spec. The returned
// scheduler is already running; Stop it on shutdown.
func StartWeeklySeeder(ctx context.Context, spec string, svc schedule.ScheduleService, doctorIDs func() []string) (*cron.Cron, error) {
	if spec == "" {
		spec = DefaultSeedSpec
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		jobCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		SeedDefaultWeeks(jobCtx, svc, doctorIDs(), time.Now())
	})
	if err != nil {
		return nil, fmt.Errorf("invalid seed schedule %q: %w", spec, err)
	}

	c.Start()
	utils.GetLogger().Info("Weekly seeder scheduled", zap.String("spec", spec))
	return c, nil
}
