package control_test

import (
	"context"
	"testing"
	"time"

	"github.com/afrojewelz/fan-control-lenovo/internal/actuator"
	"github.com/afrojewelz/fan-control-lenovo/internal/control"
	"github.com/afrojewelz/fan-control-lenovo/internal/curve"
	"github.com/afrojewelz/fan-control-lenovo/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() curve.Table {
	return curve.Table{
		{Temp: 1, Level: 1},
		{Temp: 27, Level: 1},
		{Temp: 37, Level: 3},
		{Temp: 54, Level: 5},
		{Temp: 69, Level: 6},
		{Temp: 80, Level: 7},
	}
}

func TestCycleLatchesMappedLevel(t *testing.T) {
	fan := actuator.NewFake(nil)
	coord := control.NewCoordinator(fan, noopCollector(t))

	src := &sensor.FakeSource{Temps: []float64{48.0}}
	m, err := control.NewMonitor("cpu", src, testTable(), 5*time.Second, 3, coord)
	require.NoError(t, err)

	m.Cycle(context.Background())

	assert.Equal(t, 3, m.State().Latched)
	assert.Equal(t, control.HealthOK, m.State().Health)
	assert.InDelta(t, 48.0, m.State().LastReading, 0.001)
	assert.True(t, m.State().HasReading)
	assert.Equal(t, []int{3}, fan.Applied(), "cycle must trigger arbitration")
}

func TestCycleRetainsLatchOnFailure(t *testing.T) {
	fan := actuator.NewFake(nil)
	coord := control.NewCoordinator(fan, noopCollector(t))

	readErr := assert.AnError
	src := &sensor.FakeSource{
		Temps: []float64{70.0, 0, 0},
		Errs:  []error{nil, readErr, readErr},
	}
	m, err := control.NewMonitor("cpu", src, testTable(), 5*time.Second, 3, coord)
	require.NoError(t, err)

	m.Cycle(context.Background())
	require.Equal(t, 6, m.State().Latched)
	require.Equal(t, control.HealthOK, m.State().Health)

	// Two consecutive failed samples: latched level is untouched,
	// health flips to stale, and every cycle still re-asserts the fan.
	m.Cycle(context.Background())
	m.Cycle(context.Background())

	assert.Equal(t, 6, m.State().Latched)
	assert.Equal(t, control.HealthStale, m.State().Health)
	assert.InDelta(t, 70.0, m.State().LastReading, 0.001)
	assert.Equal(t, []int{6, 6, 6}, fan.Applied())
}

func TestFailureIsolationAcrossDomains(t *testing.T) {
	fan := actuator.NewFake(nil)
	coord := control.NewCoordinator(fan, noopCollector(t))

	broken := &sensor.FakeSource{Errs: []error{assert.AnError, assert.AnError}}
	cpu, err := control.NewMonitor("cpu", broken, testTable(), 5*time.Second, 3, coord)
	require.NoError(t, err)

	nicSrc := &sensor.FakeSource{Temps: []float64{56.0}}
	nic, err := control.NewMonitor("nic", nicSrc, testTable(), 5*time.Second, 3, coord)
	require.NoError(t, err)

	cpu.Cycle(context.Background())
	nic.Cycle(context.Background())
	cpu.Cycle(context.Background())

	// The failing domain never disturbs its sibling's latch.
	assert.Equal(t, 5, nic.State().Latched)
	assert.Equal(t, control.HealthOK, nic.State().Health)
	assert.Equal(t, 3, cpu.State().Latched, "initial level retained")
	assert.Equal(t, control.HealthStale, cpu.State().Health)

	// cpu initial 3 vs nic 5: arbitration follows the hottest domain.
	assert.Equal(t, []int{3, 5, 5}, fan.Applied())
}

func TestNewMonitorRejectsInvalidTable(t *testing.T) {
	coord := control.NewCoordinator(actuator.NewFake(nil), noopCollector(t))

	bad := curve.Table{{Temp: 50, Level: 5}, {Temp: 30, Level: 7}}
	_, err := control.NewMonitor("cpu", &sensor.FakeSource{}, bad, 5*time.Second, 3, coord)
	require.Error(t, err)
}

func TestNewMonitorRejectsNonPositiveInterval(t *testing.T) {
	coord := control.NewCoordinator(actuator.NewFake(nil), noopCollector(t))

	_, err := control.NewMonitor("cpu", &sensor.FakeSource{}, testTable(), 0, 3, coord)
	require.Error(t, err)
}
