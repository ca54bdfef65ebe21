package sensor

import "github.com/afrojewelz/fan-control-lenovo/internal/errors"

const (
	// Source Errors
	ErrSourceUnavailable = errors.ErrorCode("sensor_source_unavailable")
	ErrSourceUnparsable  = errors.ErrorCode("sensor_output_unparsable")
	ErrNoDeviceReadings  = errors.ErrorCode("sensor_no_device_readings")

	// Configuration Errors
	ErrNoDevices = errors.ErrorCode("sensor_no_devices_configured")
	ErrNoChips   = errors.ErrorCode("sensor_no_chips_configured")
)
