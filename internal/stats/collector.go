package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cozmicai/waitlist/internal/metrics"
	"github.com/cozmicai/waitlist/internal/repository"
	"github.com/robfig/cron/v3"
)

// Collector periodically refreshes the subscriber-count gauges. The
// schedule is a standard cron expression or descriptor ("@every 1m").
type Collector struct {
	subs     repository.SubscriberRepository
	logger   *slog.Logger
	schedule cron.Schedule
}

func NewCollector(subs repository.SubscriberRepository, cronExpr string, logger *slog.Logger) (*Collector, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse stats cron %q: %w", cronExpr, err)
	}

	return &Collector{
		subs:     subs,
		logger:   logger.With("component", "stats"),
		schedule: schedule,
	}, nil
}

func (c *Collector) Start(ctx context.Context) {
	c.logger.Info("stats collector started")

	// Populate the gauges right away instead of waiting for the first tick.
	c.collect(ctx)

	for {
		next := c.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			c.logger.Info("stats collector shut down")
			return
		case <-timer.C:
			c.collect(ctx)
		}
	}
}

func (c *Collector) collect(ctx context.Context) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	verified, pending, err := c.subs.CountByStatus(queryCtx)
	if err != nil {
		c.logger.Error("count subscribers", "error", err)
		return
	}

	metrics.Subscribers.WithLabelValues("verified").Set(float64(verified))
	metrics.Subscribers.WithLabelValues("pending").Set(float64(pending))
}
