package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/airmet/air-quality-monitor/internal/airquality"
)

// Scheduler periodically refreshes the most recently queried address so the
// persisted document and current view do not go stale between visits.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *airquality.Service
	interval  time.Duration
}

// New creates a Scheduler. An interval of 0 disables scheduling entirely.
func New(interval time.Duration, service *airquality.Service) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.service.RefreshLatest(ctx); err != nil {
			log.Printf("scheduler: refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
