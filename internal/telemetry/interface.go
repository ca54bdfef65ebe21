package telemetry

import (
	"context"
	"time"
)

// Collector records control decisions for later inspection
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Repository defines the interface for decision history storage
type Repository interface {
	Store(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Snapshot captures one arbitration decision
type Snapshot struct {
	Timestamp       time.Time
	Domains         []DomainSample
	ArbitratedLevel int
	Applied         bool
}

// DomainSample is the per-domain state feeding the decision
type DomainSample struct {
	Domain     string
	Level      int
	Reading    float64
	HasReading bool
	Stale      bool
}
