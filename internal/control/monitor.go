package control

import (
	"context"
	"time"

	"github.com/afrojewelz/fan-control-lenovo/internal/curve"
	"github.com/afrojewelz/fan-control-lenovo/internal/errors"
	"github.com/afrojewelz/fan-control-lenovo/internal/logger"
	"github.com/afrojewelz/fan-control-lenovo/internal/sensor"
)

// Monitor owns the sample-map-latch cycle for one domain. A failed
// sample keeps the previous latched level and marks the domain stale;
// the coordinator still recomputes, so the fan level is re-asserted
// every cycle.
type Monitor struct {
	id       string
	source   sensor.Source
	table    curve.Table
	interval time.Duration
	state    *DomainState
	coord    *Coordinator
	now      func() time.Time
}

func NewMonitor(
	id string, source sensor.Source, table curve.Table,
	interval time.Duration, initialLevel int, coord *Coordinator,
) (*Monitor, error) {
	errFactory := errors.New()

	if err := table.Validate(); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}
	if interval <= 0 {
		return nil, errFactory.WithData(errors.ErrInvalidInterval, id)
	}

	return &Monitor{
		id:       id,
		source:   source,
		table:    table,
		interval: interval,
		state:    coord.Register(id, initialLevel),
		coord:    coord,
		now:      time.Now,
	}, nil
}

func (m *Monitor) ID() string {
	return m.id
}

func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// State exposes the domain state for inspection; only the monitor
// itself writes to it.
func (m *Monitor) State() *DomainState {
	return m.state
}

// Cycle runs one sample-map-latch pass and triggers arbitration.
func (m *Monitor) Cycle(ctx context.Context) {
	temp, err := m.source.Read(ctx)
	if err != nil {
		m.state.Health = HealthStale
		logger.Warn().
			Str("domain", m.id).
			Str("error_code", string(errors.CodeOf(err))).
			Err(err).
			Int("retained_level", m.state.Latched).
			Msg("No reading this cycle, keeping previous fan level")
	} else {
		m.state.Latched = m.table.Level(temp)
		m.state.LastReading = temp
		m.state.HasReading = true
		m.state.LastUpdate = m.now()
		m.state.Health = HealthOK
		logger.Debug().
			Str("domain", m.id).
			Float64("temperature", temp).
			Int("level", m.state.Latched).
			Msg("Sampled")
	}

	m.coord.Recompute(ctx)
}
