// Package sensor contains the thin adapters that scrape temperatures out
// of vendor CLI output. Each adapter runs one external command per read
// and extracts readings with the same patterns the deployment scripts use.
package sensor

import (
	"context"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/afrojewelz/fan-control-lenovo/internal/errors"
)

const sensorsCommand = "sensors"

// execRunner is the default Runner, backed by os/exec.
func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// tctlPattern matches the k10temp package temperature reported by lm-sensors.
var tctlPattern = regexp.MustCompile(`Tctl:\s*\+?([\d.]+)°C`)

type cpuSource struct {
	run Runner
}

// NewCPU returns a Source reading the processor package temperature from
// lm-sensors output. A nil runner uses os/exec.
func NewCPU(run Runner) Source {
	if run == nil {
		run = execRunner
	}

	return &cpuSource{run: run}
}

func (s *cpuSource) Read(ctx context.Context) (float64, error) {
	errFactory := errors.New()

	out, err := s.run(ctx, sensorsCommand)
	if err != nil {
		return 0, errFactory.Wrap(ErrSourceUnavailable, err)
	}

	m := tctlPattern.FindSubmatch(out)
	if m == nil {
		return 0, errFactory.WithData(ErrSourceUnparsable, "no Tctl reading in sensors output")
	}

	return parseTemp(m[1])
}

type nicSource struct {
	run      Runner
	patterns []*regexp.Regexp
}

// NewNIC returns a Source reading the first matching network adapter
// temperature from lm-sensors output. Chips are lm-sensors chip name
// prefixes tried in order (e.g. "be2net", "mlx5").
func NewNIC(run Runner, chips []string) (Source, error) {
	if len(chips) == 0 {
		return nil, errors.New().New(ErrNoChips)
	}
	if run == nil {
		run = execRunner
	}

	patterns := make([]*regexp.Regexp, len(chips))
	for i, chip := range chips {
		patterns[i] = regexp.MustCompile(
			`(?m)` + regexp.QuoteMeta(chip) + `-\w+.*\n\s*Adapter: PCI adapter\n\s*(?:sensor0|temp1):\s*\+*([\d.]+)°C`)
	}

	return &nicSource{run: run, patterns: patterns}, nil
}

func (s *nicSource) Read(ctx context.Context) (float64, error) {
	errFactory := errors.New()

	out, err := s.run(ctx, sensorsCommand)
	if err != nil {
		return 0, errFactory.Wrap(ErrSourceUnavailable, err)
	}

	for _, pattern := range s.patterns {
		if m := pattern.FindSubmatch(out); m != nil {
			return parseTemp(m[1])
		}
	}

	return 0, errFactory.WithData(ErrSourceUnparsable, "no NIC adapter reading in sensors output")
}

type nvmeSource struct {
	run      Runner
	command  string
	devices  []string
	patterns map[string]*regexp.Regexp
}

// NewNVMe returns a DeviceSource reading one temperature per configured
// NVMe device from the output of the given command (a smartctl wrapper
// script on the target chassis).
func NewNVMe(run Runner, command string, devices []string) (DeviceSource, error) {
	if len(devices) == 0 {
		return nil, errors.New().New(ErrNoDevices)
	}
	if run == nil {
		run = execRunner
	}

	patterns := make(map[string]*regexp.Regexp, len(devices))
	for _, dev := range devices {
		patterns[dev] = regexp.MustCompile(
			`(?m)` + regexp.QuoteMeta(dev) + `.*\n\s*Adapter: PCI adapter\n\s*sensor0:\s*\+*([\d.]+)°C`)
	}

	return &nvmeSource{run: run, command: command, devices: devices, patterns: patterns}, nil
}

func (s *nvmeSource) ReadDevices(ctx context.Context) (map[string]float64, error) {
	errFactory := errors.New()

	out, err := s.run(ctx, s.command)
	if err != nil {
		return nil, errFactory.Wrap(ErrSourceUnavailable, err)
	}

	temps := make(map[string]float64)
	for _, dev := range s.devices {
		m := s.patterns[dev].FindSubmatch(out)
		if m == nil {
			continue
		}
		temp, err := parseTemp(m[1])
		if err != nil {
			continue
		}
		temps[dev] = temp
	}

	return temps, nil
}

func parseTemp(raw []byte) (float64, error) {
	temp, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, errors.New().Wrap(ErrSourceUnparsable, err)
	}

	return temp, nil
}

type maxOf struct {
	src DeviceSource
}

// MaxOf reduces a DeviceSource to a Source by taking the hottest device.
// An empty device set is reported as no reading.
func MaxOf(src DeviceSource) Source {
	return &maxOf{src: src}
}

func (m *maxOf) Read(ctx context.Context) (float64, error) {
	temps, err := m.src.ReadDevices(ctx)
	if err != nil {
		return 0, err
	}

	if len(temps) == 0 {
		return 0, errors.New().New(ErrNoDeviceReadings)
	}

	first := true
	var maxTemp float64
	for _, t := range temps {
		if first || t > maxTemp {
			maxTemp = t
			first = false
		}
	}

	return maxTemp, nil
}
