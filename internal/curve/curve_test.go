package curve_test

import (
	"testing"

	"github.com/afrojewelz/fan-control-lenovo/internal/curve"
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

func TestLevel(t *testing.T) {
	table := testTable()
	require.NoError(t, table.Validate())

	tests := []struct {
		name string
		temp float64
		want int
	}{
		{"below first threshold", 0, 1},
		{"at first threshold", 1, 1},
		{"between thresholds snaps down", 36, 1},
		{"at threshold", 37, 3},
		{"mid range", 60, 5},
		{"above last threshold", 90, 7},
		{"negative", -12.5, 1},
		{"extreme", 4000, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Level(tt.temp))
		})
	}
}

func TestLevelMonotonic(t *testing.T) {
	table := testTable()
	require.NoError(t, table.Validate())

	prev := 0
	for temp := -20.0; temp <= 120; temp += 0.5 {
		level := table.Level(temp)
		assert.GreaterOrEqual(t, level, prev, "level must not decrease at %.1f", temp)
		prev = level
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   curve.Table
		wantErr string
	}{
		{
			name:    "empty table",
			table:   curve.Table{},
			wantErr: "curve_empty_table",
		},
		{
			name: "unsorted thresholds",
			table: curve.Table{
				{Temp: 40, Level: 3},
				{Temp: 30, Level: 5},
			},
			wantErr: "curve_unsorted_table",
		},
		{
			name: "duplicate thresholds",
			table: curve.Table{
				{Temp: 40, Level: 3},
				{Temp: 40, Level: 5},
			},
			wantErr: "curve_unsorted_table",
		},
		{
			name: "decreasing level",
			table: curve.Table{
				{Temp: 30, Level: 5},
				{Temp: 40, Level: 3},
			},
			wantErr: "curve_level_decrease",
		},
		{
			name: "level above maximum",
			table: curve.Table{
				{Temp: 30, Level: 240},
			},
			wantErr: "curve_level_out_of_range",
		},
		{
			name: "level below minimum",
			table: curve.Table{
				{Temp: 30, Level: 0},
			},
			wantErr: "curve_level_out_of_range",
		},
		{
			name:  "valid table",
			table: testTable(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, curve.Clamp(-5))
	assert.Equal(t, 1, curve.Clamp(0))
	assert.Equal(t, 42, curve.Clamp(42))
	assert.Equal(t, 100, curve.Clamp(100))
	assert.Equal(t, 100, curve.Clamp(250))
}
