// Package control implements the decision engine: per-domain monitors
// latch a fan level derived from their threshold table, the coordinator
// arbitrates the maximum across domains, and the scheduler runs every
// monitor on its own cadence in a single cooperative flow.
package control

import "time"

// Health reports whether a domain's latched level reflects a current
// reading or a retained previous one.
type Health uint8

const (
	HealthOK Health = iota
	HealthStale
)

func (h Health) String() string {
	if h == HealthOK {
		return "ok"
	}

	return "stale"
}

// DomainState is the latched decision state of one monitored domain.
// It is written only by the owning Monitor; the Coordinator reads it.
// No locking is needed as long as all cycles run on the scheduler's
// single flow.
type DomainState struct {
	ID          string
	Latched     int
	LastReading float64
	HasReading  bool
	LastUpdate  time.Time
	Health      Health
}
