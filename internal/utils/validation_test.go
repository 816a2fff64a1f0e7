package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStopID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"valid id", "42", 42, false},
		{"valid id with whitespace", " 7 ", 7, false},
		{"empty", "", 0, true},
		{"not a number", "abc", 0, true},
		{"float", "1.5", 0, true},
		{"zero", "0", 0, true},
		{"negative", "-3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStopID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsExcludedStopName(t *testing.T) {
	excluded := []string{
		"", "   ", "A", "b", "C",
		"Stop A", "stop b", "STOP C",
		"StopA", "stopb", "stopc",
		"sto a", "stob", "stoc",
		"  Stop A  ",
	}
	for _, name := range excluded {
		assert.True(t, IsExcludedStopName(name), "expected %q to be excluded", name)
	}

	kept := []string{
		"Central Station",
		"Stop Armory",      // prefix match is not enough
		"Abbey Road",
		"Stop A1",
		"CA",
	}
	for _, name := range kept {
		assert.False(t, IsExcludedStopName(name), "expected %q to be kept", name)
	}
}

func TestValidateLocationParams(t *testing.T) {
	assert.Empty(t, ValidateLocationParams(12.56, 75.39, 500))

	fieldErrors := ValidateLocationParams(91, -181, 20000)
	assert.Contains(t, fieldErrors, "lat")
	assert.Contains(t, fieldErrors, "lon")
	assert.Contains(t, fieldErrors, "radius")

	// Zero radius means "use the default" and is not validated
	assert.Empty(t, ValidateLocationParams(0, 0, 0))
}
