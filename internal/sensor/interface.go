package sensor

import "context"

// Source produces one temperature reading per cycle for a domain.
// An error means no reading could be obtained this cycle; the caller
// decides what to do with the previous value.
type Source interface {
	Read(ctx context.Context) (float64, error)
}

// DeviceSource produces one reading per device for multi-device domains
// (storage). Devices that could not be read are simply absent from the map.
type DeviceSource interface {
	ReadDevices(ctx context.Context) (map[string]float64, error)
}

// Runner executes an external command and returns its combined stdout.
// Injectable so adapters can be tested against canned CLI output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)
