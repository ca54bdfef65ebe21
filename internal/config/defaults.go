package config

// Default threshold tables, taken from the target chassis tuning. CPU and
// NIC share a curve; the storage curve ramps earlier since the NVMe bays
// sit away from the main airflow.

func DefaultCPUThresholds() []Step {
	return []Step{
		{Temp: 1, Level: 1},
		{Temp: 27, Level: 1},
		{Temp: 33, Level: 1},
		{Temp: 37, Level: 3},
		{Temp: 42, Level: 3},
		{Temp: 49, Level: 3},
		{Temp: 54, Level: 5},
		{Temp: 59, Level: 5},
		{Temp: 64, Level: 5},
		{Temp: 69, Level: 6},
		{Temp: 73, Level: 6},
		{Temp: 79, Level: 6},
		{Temp: 80, Level: 7},
		{Temp: 87, Level: 7},
	}
}

func DefaultNICThresholds() []Step {
	return DefaultCPUThresholds()
}

func DefaultStorageThresholds() []Step {
	return []Step{
		{Temp: 1, Level: 1},
		{Temp: 22, Level: 2},
		{Temp: 28, Level: 2},
		{Temp: 34, Level: 2},
		{Temp: 37, Level: 3},
		{Temp: 42, Level: 3},
		{Temp: 47, Level: 4},
		{Temp: 51, Level: 5},
		{Temp: 57, Level: 6},
		{Temp: 61, Level: 7},
	}
}
