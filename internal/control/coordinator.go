package control

import (
	"context"
	"time"

	"github.com/afrojewelz/fan-control-lenovo/internal/actuator"
	"github.com/afrojewelz/fan-control-lenovo/internal/curve"
	"github.com/afrojewelz/fan-control-lenovo/internal/logger"
	"github.com/afrojewelz/fan-control-lenovo/internal/telemetry"
)

// Coordinator owns the arbitration step: the fan is always driven to the
// maximum latched level across all registered domains. The level is
// re-applied on every recompute rather than diffed, so an external
// override of the fan controller is corrected within one cycle.
type Coordinator struct {
	states    []*DomainState
	act       actuator.Actuator
	collector telemetry.Collector
	now       func() time.Time
}

func NewCoordinator(act actuator.Actuator, collector telemetry.Collector) *Coordinator {
	return &Coordinator{
		act:       act,
		collector: collector,
		now:       time.Now,
	}
}

// Register adds a domain with the given initial level and returns its
// state for the owning monitor. The initial level stands in until the
// first successful sample.
func (c *Coordinator) Register(id string, initialLevel int) *DomainState {
	state := &DomainState{
		ID:      id,
		Latched: curve.Clamp(initialLevel),
		Health:  HealthStale,
	}
	c.states = append(c.states, state)

	return state
}

// Recompute arbitrates the current latched levels and applies the result.
// Actuator failures are reported, never raised; the next cycle's
// unconditional re-assertion is the retry. Returns the applied level.
func (c *Coordinator) Recompute(ctx context.Context) int {
	level := curve.MinLevel
	samples := make([]telemetry.DomainSample, 0, len(c.states))

	for _, s := range c.states {
		if s.Latched > level {
			level = s.Latched
		}
		samples = append(samples, telemetry.DomainSample{
			Domain:     s.ID,
			Level:      s.Latched,
			Reading:    s.LastReading,
			HasReading: s.HasReading,
			Stale:      s.Health == HealthStale,
		})
	}

	level = curve.Clamp(level)

	err := c.act.Apply(ctx, level)
	if err != nil {
		logger.Warn().Err(err).Int("level", level).Msg("Failed to apply fan level")
	} else {
		logger.Debug().Int("level", level).Msg("Applied fan level")
	}

	snapshot := &telemetry.Snapshot{
		Timestamp:       c.now(),
		Domains:         samples,
		ArbitratedLevel: level,
		Applied:         err == nil,
	}
	if err := c.collector.Record(ctx, snapshot); err != nil {
		logger.Warn().Err(err).Msg("Failed to record telemetry snapshot")
	}

	return level
}
