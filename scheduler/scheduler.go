package scheduler

import (
	"context"
	"fmt"
	"log"

	"nova-stays-server/config"
	"nova-stays-server/services"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the periodic channel-price and calendar syncs. Each job is
// idempotent (replace-all on its side of the data) and reports aggregate
// success/failure counts; a failing property never stops the run.
type Scheduler struct {
	cfg       *config.Config
	channel   *services.ChannelSyncService
	calendars *services.CalendarImportService
	cron      *cron.Cron
}

func New(cfg *config.Config, channel *services.ChannelSyncService, calendars *services.CalendarImportService) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		channel:   channel,
		calendars: calendars,
		cron:      cron.New(),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Sync.ChannelCron != "" {
		_, err := s.cron.AddFunc(s.cfg.Sync.ChannelCron, func() {
			report, err := s.channel.SyncAll(ctx)
			if err != nil {
				log.Printf("channel sync run error: %v", err)
				return
			}
			log.Printf("channel sync done: %d ok, %d failed", report.Success, report.Failed)
		})
		if err != nil {
			return fmt.Errorf("invalid channel cron expression: %w", err)
		}
	}

	if s.cfg.Sync.CalendarCron != "" {
		_, err := s.cron.AddFunc(s.cfg.Sync.CalendarCron, func() {
			report, err := s.calendars.SyncAll(ctx)
			if err != nil {
				log.Printf("calendar sync run error: %v", err)
				return
			}
			log.Printf("calendar sync done: %d ok, %d failed", report.Success, report.Failed)
		})
		if err != nil {
			return fmt.Errorf("invalid calendar cron expression: %w", err)
		}
	}

	s.cron.Start()
	log.Printf("scheduler started (channel: %q, calendars: %q)", s.cfg.Sync.ChannelCron, s.cfg.Sync.CalendarCron)
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
