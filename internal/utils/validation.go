package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// excludedNamePattern matches blank names and the A/B/C demo-stop variants
// left behind by early data loads. Those rows must never reach the map.
var excludedNamePattern = regexp.MustCompile(`(?i)^\s*(?:a|b|c|stop\s*a|stop\s*b|stop\s*c|sto\s*a|stob|stoc|stopa|stopb|stopc)\s*$`)

// ParseStopID parses a stop id parameter into an int64
func ParseStopID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("id cannot be empty")
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("id must be an integer")
	}

	if id <= 0 {
		return 0, errors.New("id must be positive")
	}

	return id, nil
}

// IsExcludedStopName reports whether a stop name should be hidden from listings
func IsExcludedStopName(name string) bool {
	if strings.TrimSpace(name) == "" {
		return true
	}
	return excludedNamePattern.MatchString(name)
}

// ValidateLatitude validates latitude values
func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values
func ValidateLongitude(lon float64) error {
	if lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateRadius validates radius values for location searches
func ValidateRadius(radius float64) error {
	if radius < 0 {
		return errors.New("radius must be non-negative")
	}

	// Reasonable maximum radius of 10km for transit searches
	if radius > 10000 {
		return errors.New("radius too large (max 10000 meters)")
	}

	return nil
}

// ValidateLocationParams validates a complete set of location parameters
func ValidateLocationParams(lat, lon, radius float64) map[string][]string {
	fieldErrors := make(map[string][]string)

	if err := ValidateLatitude(lat); err != nil {
		fieldErrors["lat"] = append(fieldErrors["lat"], err.Error())
	}

	if err := ValidateLongitude(lon); err != nil {
		fieldErrors["lon"] = append(fieldErrors["lon"], err.Error())
	}

	if radius != 0 {
		if err := ValidateRadius(radius); err != nil {
			fieldErrors["radius"] = append(fieldErrors["radius"], err.Error())
		}
	}

	return fieldErrors
}
