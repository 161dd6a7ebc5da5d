package api

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"citytour/internal/model"
)

// parseCoordinates parses "lat, lon" into two finite floats.
func parseCoordinates(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("coordinates must be \"lat, lon\", got %d values", len(parts))
	}
	if lat, err = parseFinite(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("latitude: %w", err)
	}
	if lon, err = parseFinite(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("longitude: %w", err)
	}
	return lat, lon, nil
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", strings.TrimSpace(s))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %q", strings.TrimSpace(s))
	}
	return f, nil
}

func validateCityIn(in model.CityIn) (model.City, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.City{}, errors.New("name is required")
	}
	switch {
	case in.Coordinates != "" && in.Location != nil:
		return model.City{}, errors.New("set either coordinates or location, not both")
	case in.Location != nil:
		if !finite(in.Location.Lat) || !finite(in.Location.Lon) {
			return model.City{}, errors.New("location must be finite")
		}
		return model.City{Name: name, Lat: in.Location.Lat, Lon: in.Location.Lon}, nil
	case in.Coordinates != "":
		lat, lon, err := parseCoordinates(in.Coordinates)
		if err != nil {
			return model.City{}, err
		}
		return model.City{Name: name, Lat: lat, Lon: lon}, nil
	default:
		return model.City{}, errors.New("coordinates or location is required")
	}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
