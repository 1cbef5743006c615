package jobs

import (
	"context"
	"log"
	"sync"
	"time"
)

// Scheduler runs the engine's recurring jobs
type Scheduler struct {
	sweep  *ComplianceSweep
	review *TierReview

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a new job scheduler
func NewScheduler(sweep *ComplianceSweep, review *TierReview) *Scheduler {
	return &Scheduler{sweep: sweep, review: review}
}

// Start begins all scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		log.Println("Scheduled jobs already running")
		return
	}

	s.running = true
	s.stop = make(chan struct{})
	log.Println("Starting scheduled jobs...")

	// Compliance sweep - daily at 10 AM
	s.every("compliance sweep", func(now time.Time) time.Time { return nextDaily(now, 10) }, func(ctx context.Context) {
		if _, err := s.sweep.RunOnce(ctx, time.Now()); err != nil {
			log.Printf("Compliance sweep failed: %v", err)
		}
	})

	// Tier review - every Sunday at 6 PM
	s.every("tier review", func(now time.Time) time.Time { return nextWeekly(now, time.Sunday, 18) }, func(ctx context.Context) {
		if _, err := s.review.RunOnce(ctx); err != nil {
			log.Printf("Tier review failed: %v", err)
		}
	})

	log.Println("✅ All scheduled jobs started")
}

// Stop halts all scheduled jobs and waits for a running one to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	s.mu.Unlock()

	log.Println("Stopping scheduled jobs...")
	s.wg.Wait()
}

func (s *Scheduler) every(name string, next func(time.Time) time.Time, run func(context.Context)) {
	stop := s.stop
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			now := time.Now()
			wait := next(now).Sub(now)
			log.Printf("Next %s scheduled in %v", name, wait)

			timer := time.NewTimer(wait)
			select {
			case <-stop:
				timer.Stop()
				return
			case <-timer.C:
			}

			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				select {
				case <-stop:
					cancel()
				case <-ctx.Done():
				}
			}()
			run(ctx)
			cancel()
		}
	}()
}

// nextDaily is the next occurrence of hour:00 strictly after now
func nextDaily(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// nextWeekly is the next weekday at hour:00 strictly after now
func nextWeekly(now time.Time, day time.Weekday, hour int) time.Time {
	days := (int(day) - int(now.Weekday()) + 7) % 7
	next := time.Date(now.Year(), now.Month(), now.Day()+days, hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
