package weld

import (
	"context"
	"sync"
	"time"

	"github.com/weldlabs/weld/internal/typeref"
)

type PingStatus string

const (
	PingStatusUp   PingStatus = "up"
	PingStatusDown PingStatus = "down"
)

type PingReport struct {
	Dependency string
	Status     PingStatus
	Err        error
	Latency    time.Duration
}

// Healthcheck pings every materialized dependency that implements Pinger.
// It is itself injectable: the Injector field receives the injector, and the
// empty lifecycle hooks make it visible to injection without side effects.
//
//	type API struct {
//	    Health *weld.Healthcheck
//	}
type Healthcheck struct {
	Injector *Injector

	// MaxConcurrency bounds parallel pings; zero or less means one at a time.
	MaxConcurrency int `weld:"-"`
}

func (h *Healthcheck) Connect(ctx context.Context) error { return nil }

func (h *Healthcheck) Disconnect(ctx context.Context) error { return nil }

// PingDependencies fans out over all pingable dependencies and returns the
// first failure, or nil when everything is healthy.
func (h *Healthcheck) PingDependencies(ctx context.Context) error {
	for _, report := range h.Report(ctx) {
		if report.Status == PingStatusDown {
			return errPingFailed(report.Dependency, report.Err)
		}
	}
	return nil
}

// Report pings all pingable dependencies and returns one entry per
// dependency with its latency, in completion order.
func (h *Healthcheck) Report(ctx context.Context) []PingReport {
	pingers := DepsByInterface[Pinger](h.Injector)
	if len(pingers) == 0 {
		return nil
	}

	limit := h.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}
	sem := make(chan struct{}, limit)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		reports []PingReport
	)

	for _, p := range pingers {
		wg.Add(1)
		sem <- struct{}{}

		go func(p Pinger) {
			defer wg.Done()
			defer func() { <-sem }()

			name := typeref.KeyOf(p)
			h.Injector.log.Debug().Str("dependency", name).Msg("pinging")

			start := time.Now()
			err := p.Ping(ctx)
			latency := time.Since(start)
			h.Injector.notifyPing(name, latency, err)

			report := PingReport{
				Dependency: name,
				Latency:    latency,
				Status:     PingStatusUp,
			}
			if err != nil {
				report.Status = PingStatusDown
				report.Err = err
			}

			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
		}(p)
	}

	wg.Wait()
	return reports
}
