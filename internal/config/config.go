package config

import (
	"os"

	"github.com/afrojewelz/fan-control-lenovo/internal/curve"
	"github.com/afrojewelz/fan-control-lenovo/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName      = "fanctl"
	configType      = "toml"
	configPath      = "/etc"
	configEnv       = "FANCTL_CONFIG"
	envPrefix       = "FANCTL"
	DefaultLogLevel = "info"

	defaultLevel       = 3
	defaultCPUInterval = 5
	defaultNICInterval = 5
	defaultHDDInterval = 60
)

// Step mirrors one threshold table entry in the config file.
type Step struct {
	Temp  float64 `mapstructure:"temp"`
	Level int     `mapstructure:"level"`
}

// Domain holds the per-domain monitoring settings. Chips applies to the
// NIC domain, Devices and Command to the storage domain.
type Domain struct {
	Interval   int      `mapstructure:"interval"`
	Thresholds []Step   `mapstructure:"thresholds"`
	Chips      []string `mapstructure:"chips"`
	Devices    []string `mapstructure:"devices"`
	Command    string   `mapstructure:"command"`
}

// Table converts the configured steps into a threshold table.
func (d Domain) Table() curve.Table {
	table := make(curve.Table, len(d.Thresholds))
	for i, s := range d.Thresholds {
		table[i] = curve.Step{Temp: s.Temp, Level: s.Level}
	}

	return table
}

type Actuator struct {
	Command []string `mapstructure:"command"`
}

type Config struct {
	LogLevel     string   `mapstructure:"log_level"`
	Monitor      bool     `mapstructure:"monitor"`
	DefaultLevel int      `mapstructure:"default_level"`
	Telemetry    bool     `mapstructure:"telemetry"`
	TelemetryDB  string   `mapstructure:"database"`
	Actuator     Actuator `mapstructure:"actuator"`
	CPU          Domain   `mapstructure:"cpu"`
	NIC          Domain   `mapstructure:"nic"`
	Storage      Domain   `mapstructure:"storage"`
}

// Load reads configuration from flags, environment and the TOML config
// file, applies defaults and validates the result. Flags take precedence
// over the file.
func Load() (*Config, error) {
	errFactory := errors.New()

	flags := pflag.NewFlagSet("fanctl", pflag.ContinueOnError)
	configFile := flags.String("config", "", "Path to config file")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.Bool("monitor", false, "Only log decisions, never drive the fans")
	flags.Bool("telemetry", false, "Record decisions to the telemetry database")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(configPath)
	if path := os.Getenv(configEnv); path != "" {
		v.SetConfigFile(path)
	}
	if *configFile != "" {
		v.SetConfigFile(*configFile)
	}
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.BindPFlag("log_level", flags.Lookup("log-level")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlag("monitor", flags.Lookup("monitor")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlag("telemetry", flags.Lookup("telemetry")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	applyThresholdDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("monitor", false)
	v.SetDefault("default_level", defaultLevel)
	v.SetDefault("telemetry", false)
	v.SetDefault("database", "/var/lib/fanctl/telemetry.db")
	v.SetDefault("cpu.interval", defaultCPUInterval)
	v.SetDefault("nic.interval", defaultNICInterval)
	v.SetDefault("nic.chips", []string{"be2net", "mlx5"})
	v.SetDefault("storage.interval", defaultHDDInterval)
	v.SetDefault("storage.command", "/root/tempnvme.sh")
	v.SetDefault("storage.devices", []string{"/dev/nvme0", "/dev/nvme1", "/dev/nvme2", "/dev/nvme3"})
}

func applyThresholdDefaults(config *Config) {
	if len(config.CPU.Thresholds) == 0 {
		config.CPU.Thresholds = DefaultCPUThresholds()
	}
	if len(config.NIC.Thresholds) == 0 {
		config.NIC.Thresholds = DefaultNICThresholds()
	}
	if len(config.Storage.Thresholds) == 0 {
		config.Storage.Thresholds = DefaultStorageThresholds()
	}
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate fails fast on anything the control loop could not run with.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !validLogLevels[c.LogLevel] {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.DefaultLevel < curve.MinLevel || c.DefaultLevel > curve.MaxLevel {
		return errFactory.WithData(errors.ErrInvalidConfig, "default_level out of range")
	}

	domains := map[string]Domain{
		"cpu":     c.CPU,
		"nic":     c.NIC,
		"storage": c.Storage,
	}
	for name, d := range domains {
		if d.Interval <= 0 {
			return errFactory.WithData(errors.ErrInvalidInterval, name)
		}
		if err := d.Table().Validate(); err != nil {
			return errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	return nil
}
