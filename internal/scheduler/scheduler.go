// Package scheduler runs the periodic reachability refresh: one ticker,
// one sweep over every registered application per tick.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/appdex-dev/appdex/internal/handlers"
	"github.com/appdex-dev/appdex/internal/registry"
	"github.com/appdex-dev/appdex/internal/services"
)

const DefaultInterval = 5 * time.Minute

type Scheduler struct {
	registry *registry.Registry
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(reg *registry.Registry, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		registry: reg,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start kicks off the refresh loop with an immediate first sweep.
func (s *Scheduler) Start() {
	log.Printf("Starting status refresher with %v interval", s.interval)

	go func() {
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	log.Println("Stopping status refresher...")
	s.cancel()
}

func (s *Scheduler) sweep() {
	start := time.Now()

	refreshed, changes, err := s.registry.RefreshAll()

	if err != nil {
		log.Printf("Status refresh failed: %v", err)
		return
	}

	log.Printf("Refreshed %d applications in %v (%d status changes)", refreshed, time.Since(start), len(changes))

	for _, change := range changes {
		if err := services.SendStatusChangeNotification(change); err != nil {
			log.Printf("Failed to send status notification for application %d: %v", change.Application.ID, err)
		}
	}

	handlers.BroadcastRefresh()
}
