// Package curve implements the threshold table mapping a temperature to a
// fan level. The table is a step function: a reading snaps to the level of
// the highest threshold it still satisfies.
package curve

import (
	"fmt"

	"github.com/afrojewelz/fan-control-lenovo/internal/errors"
)

// MinLevel and MaxLevel bound every fan level the controller may emit.
const (
	MinLevel = 1
	MaxLevel = 100
)

const (
	ErrEmptyTable      = errors.ErrorCode("curve_empty_table")
	ErrUnsortedTable   = errors.ErrorCode("curve_unsorted_table")
	ErrLevelDecrease   = errors.ErrorCode("curve_level_decrease")
	ErrLevelOutOfRange = errors.ErrorCode("curve_level_out_of_range")
)

// Step is a single breakpoint: readings at or above Temp map to Level,
// until the next step takes over.
type Step struct {
	Temp  float64
	Level int
}

// Table is an ascending sequence of steps. It is immutable after
// construction and validated once at load time.
type Table []Step

// Validate checks the table invariants: non-empty, strictly ascending
// thresholds, non-decreasing levels, levels within [MinLevel, MaxLevel].
func (t Table) Validate() error {
	errFactory := errors.New()

	if len(t) == 0 {
		return errFactory.New(ErrEmptyTable)
	}

	for i, s := range t {
		if s.Level < MinLevel || s.Level > MaxLevel {
			return errFactory.WithData(ErrLevelOutOfRange,
				fmt.Sprintf("step %d: level %d", i, s.Level))
		}
		if i == 0 {
			continue
		}
		if s.Temp <= t[i-1].Temp {
			return errFactory.WithData(ErrUnsortedTable,
				fmt.Sprintf("step %d: threshold %.1f after %.1f", i, s.Temp, t[i-1].Temp))
		}
		if s.Level < t[i-1].Level {
			return errFactory.WithData(ErrLevelDecrease,
				fmt.Sprintf("step %d: level %d after %d", i, s.Level, t[i-1].Level))
		}
	}

	return nil
}

// Level maps a temperature to a fan level: the level of the last step
// whose threshold is at or below the reading. Readings below the first
// threshold map to MinLevel. Requires a validated table.
func (t Table) Level(temp float64) int {
	level := MinLevel
	for _, s := range t {
		if temp < s.Temp {
			break
		}
		level = s.Level
	}

	return level
}

// Clamp bounds a level to [MinLevel, MaxLevel].
func Clamp(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}

	return level
}
