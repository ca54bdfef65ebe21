package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/afrojewelz/fan-control-lenovo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetArgs(t *testing.T, args ...string) {
	t.Helper()
	oldArgs := os.Args
	os.Args = append([]string{"fanctl"}, args...)
	t.Cleanup(func() { os.Args = oldArgs })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fanctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	resetArgs(t)
	configPath := writeConfig(t, `
log_level = "debug"
monitor = true
default_level = 2
telemetry = true
database = "/tmp/fanctl-test.db"

[cpu]
interval = 10
thresholds = [{ temp = 1, level = 1 }, { temp = 40, level = 4 }, { temp = 70, level = 7 }]

[nic]
interval = 15
chips = ["mlx5"]

[storage]
interval = 120
command = "/usr/local/bin/nvmetemp"
devices = ["/dev/nvme0", "/dev/nvme1"]
`)
	t.Setenv("FANCTL_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Monitor)
	assert.Equal(t, 2, cfg.DefaultLevel)
	assert.True(t, cfg.Telemetry)
	assert.Equal(t, "/tmp/fanctl-test.db", cfg.TelemetryDB)

	assert.Equal(t, 10, cfg.CPU.Interval)
	require.Len(t, cfg.CPU.Thresholds, 3)
	assert.Equal(t, 40.0, cfg.CPU.Thresholds[1].Temp)
	assert.Equal(t, 4, cfg.CPU.Thresholds[1].Level)

	assert.Equal(t, 15, cfg.NIC.Interval)
	assert.Equal(t, []string{"mlx5"}, cfg.NIC.Chips)
	// NIC file block did not set thresholds, defaults fill in
	assert.Equal(t, config.DefaultNICThresholds(), cfg.NIC.Thresholds)

	assert.Equal(t, 120, cfg.Storage.Interval)
	assert.Equal(t, "/usr/local/bin/nvmetemp", cfg.Storage.Command)
	assert.Equal(t, []string{"/dev/nvme0", "/dev/nvme1"}, cfg.Storage.Devices)
}

func TestLoadDefaults(t *testing.T) {
	resetArgs(t)
	// Point at an existing but empty config so /etc/fanctl.toml on the
	// build host cannot leak into the test.
	t.Setenv("FANCTL_CONFIG", writeConfig(t, ""))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.Monitor)
	assert.Equal(t, 3, cfg.DefaultLevel)
	assert.False(t, cfg.Telemetry)

	assert.Equal(t, 5, cfg.CPU.Interval)
	assert.Equal(t, 5, cfg.NIC.Interval)
	assert.Equal(t, 60, cfg.Storage.Interval)
	assert.Equal(t, []string{"be2net", "mlx5"}, cfg.NIC.Chips)
	assert.Equal(t, "/root/tempnvme.sh", cfg.Storage.Command)
	assert.Len(t, cfg.Storage.Devices, 4)

	assert.Equal(t, config.DefaultCPUThresholds(), cfg.CPU.Thresholds)
	assert.Equal(t, config.DefaultStorageThresholds(), cfg.Storage.Thresholds)
	require.NoError(t, cfg.CPU.Table().Validate())
	require.NoError(t, cfg.Storage.Table().Validate())
}

func TestLoadInvalidFormat(t *testing.T) {
	resetArgs(t)
	t.Setenv("FANCTL_CONFIG", writeConfig(t, "This is not a valid TOML file"))

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read configuration")
}

func TestLoadInvalidLogLevel(t *testing.T) {
	resetArgs(t)
	t.Setenv("FANCTL_CONFIG", writeConfig(t, `log_level = "loud"`))

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid log level")
}

func TestLoadRejectsUnsortedThresholds(t *testing.T) {
	resetArgs(t)
	t.Setenv("FANCTL_CONFIG", writeConfig(t, `
[cpu]
thresholds = [{ temp = 50, level = 3 }, { temp = 30, level = 5 }]
`))

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "curve_unsorted_table")
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	resetArgs(t)
	t.Setenv("FANCTL_CONFIG", writeConfig(t, `
[storage]
interval = 0
`))

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid interval")
}

func TestLogLevelFlag(t *testing.T) {
	resetArgs(t, "--log-level", "warn")
	t.Setenv("FANCTL_CONFIG", writeConfig(t, `log_level = "debug"`))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel, "flag overrides config file")
}

func TestMonitorFlag(t *testing.T) {
	resetArgs(t, "--monitor")
	t.Setenv("FANCTL_CONFIG", writeConfig(t, ""))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Monitor)
}

func TestConfigFlag(t *testing.T) {
	path := writeConfig(t, `default_level = 7`)
	resetArgs(t, "--config", path)
	t.Setenv("FANCTL_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.DefaultLevel)
}
