package opt

import (
	"errors"
	"fmt"
)

// ErrUnknownCity is returned when a tour references a name that is not in the city set.
var ErrUnknownCity = errors.New("unknown city")

// CitySet is a read-only view over named coordinates.
// Names returns the keys in insertion order.
type CitySet interface {
	Names() []string
	Coord(name string) (Point, bool)
}

// NamedPoint pairs a city name with its coordinate.
type NamedPoint struct {
	Name  string
	Point Point
}

type citySet struct {
	names  []string
	coords map[string]Point
}

// NewCitySet snapshots entries into an immutable CitySet.
// A repeated name keeps its first position and its first coordinate.
func NewCitySet(entries []NamedPoint) CitySet {
	s := &citySet{
		names:  make([]string, 0, len(entries)),
		coords: make(map[string]Point, len(entries)),
	}
	for _, e := range entries {
		if _, ok := s.coords[e.Name]; ok {
			continue
		}
		s.names = append(s.names, e.Name)
		s.coords[e.Name] = e.Point
	}
	return s
}

func (s *citySet) Names() []string {
	return append([]string(nil), s.names...)
}

func (s *citySet) Coord(name string) (Point, bool) {
	p, ok := s.coords[name]
	return p, ok
}

// Evaluate returns the closed-cycle length of order over cities, including the
// edge from the last city back to the first. Empty and single-city orders cost 0.
func Evaluate(order []string, cities CitySet) (float64, error) {
	pts, err := resolve(order, cities)
	if err != nil {
		return 0, err
	}
	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}
	return cycleLength(pts, idx), nil
}

func resolve(order []string, cities CitySet) ([]Point, error) {
	pts := make([]Point, len(order))
	for i, name := range order {
		p, ok := cities.Coord(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCity, name)
		}
		pts[i] = p
	}
	return pts, nil
}

// cycleLength sums consecutive edges of order over pts, then closes the cycle.
func cycleLength(pts []Point, order []int) float64 {
	if len(order) == 0 {
		return 0
	}
	total := 0.0
	for i := 0; i < len(order)-1; i++ {
		total += Distance(pts[order[i]], pts[order[i+1]])
	}
	total += Distance(pts[order[len(order)-1]], pts[order[0]])
	return total
}
