package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// One degree of latitude is roughly 111.2 km
	assert.InDelta(t, 111.19, HaversineKm(12.0, 75.0, 13.0, 75.0), 0.1)

	// Same point
	assert.Zero(t, HaversineKm(12.56, 75.39, 12.56, 75.39))

	// Symmetric
	a := HaversineKm(12.56, 75.39, 12.87, 74.84)
	b := HaversineKm(12.87, 74.84, 12.56, 75.39)
	assert.InDelta(t, a, b, 1e-9)
}

func TestHaversineMeters(t *testing.T) {
	km := HaversineKm(12.0, 75.0, 12.01, 75.0)
	assert.InDelta(t, km*1000, Haversine(12.0, 75.0, 12.01, 75.0), 1e-6)
}
