// Package scheduler implements background job scheduling
package scheduler

import (
	"log"
	"sync"
	"time"

	"calendario.app/config"
	"calendario.app/notification"
	"calendario.app/service"
)

// Scheduler drives the periodic work of the application: digest ticks,
// immediate alert ticks, provider imports and event cleanup. The notification
// gate may be nil when push is not configured; imports keep running.
type Scheduler struct {
	config       *config.Config
	gate         *notification.Gate
	eventService service.EventServiceInterface

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewScheduler creates and configures a new task scheduler
func NewScheduler(config *config.Config, gate *notification.Gate, eventService service.EventServiceInterface) *Scheduler {
	return &Scheduler{
		config:       config,
		gate:         gate,
		eventService: eventService,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the scheduler's operations
func (s *Scheduler) Start() {
	importInterval := time.Duration(s.config.Scheduler.ImportIntervalMinutes) * time.Minute

	s.runInterval(importInterval, s.runImports)
	s.runInterval(importInterval, s.runCleanup)

	if s.gate == nil {
		log.Printf("[WARNING] Push notifications are not configured; digest and immediate ticks disabled\n")
		return
	}

	s.runInterval(time.Duration(s.config.Scheduler.DigestIntervalMinutes)*time.Minute, func() {
		if err := s.gate.RunDigestTick(); err != nil {
			log.Printf("[ERROR] Digest tick failed: %v\n", err)
		}
	})

	s.runInterval(time.Duration(s.config.Scheduler.ImmediateIntervalMinutes)*time.Minute, func() {
		if err := s.gate.RunImmediateTick(); err != nil {
			log.Printf("[ERROR] Immediate tick failed: %v\n", err)
		}
	})
}

// Stop halts all scheduled jobs and waits for in-flight ones to finish
func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// runInterval runs the job once immediately, then on every tick until Stop
func (s *Scheduler) runInterval(interval time.Duration, job func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		job()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				job()
			case <-s.stopCh:
				return
			}
		}
	}()
}

func (s *Scheduler) runImports() {
	if err := s.eventService.ImportAstronomyEvents(); err != nil {
		log.Printf("[ERROR] Astronomy import failed: %v\n", err)
	}
	if err := s.eventService.ImportTideEvents(); err != nil {
		log.Printf("[ERROR] Tide import failed: %v\n", err)
	}
	if err := s.eventService.ImportFixtureEvents(); err != nil {
		log.Printf("[ERROR] Fixture import failed: %v\n", err)
	}
}

func (s *Scheduler) runCleanup() {
	if err := s.eventService.CleanupPastEvents(); err != nil {
		log.Printf("[ERROR] Event cleanup failed: %v\n", err)
	}
}
