package opt

import (
	"fmt"
	"math/rand"
)

// DefaultRestarts is the number of shuffle-and-descend rounds per optimization.
const DefaultRestarts = 10

// Options tunes Optimize. The zero value runs DefaultRestarts rounds.
type Options struct {
	Restarts int
}

func (o Options) restarts() int {
	if o.Restarts <= 0 {
		return DefaultRestarts
	}
	return o.Restarts
}

// Metrics describes the work done by one Optimize call.
type Metrics struct {
	Rounds       int     `json:"rounds"`
	Improvements int     `json:"improvements"`
	Evaluations  int     `json:"evaluations"`
	InitialCost  float64 `json:"initialCost"`
	BestRound    int     `json:"bestRound"` // 0 when the insertion order was never beaten
}

// Result is the best tour found and its closed-cycle cost.
type Result struct {
	Tour    []string
	Cost    float64
	Metrics Metrics
}

// Optimize searches for a short closed tour over every city in cities using
// hill climbing with random restarts.
//
// Each round shuffles the working order with rng and then descends with
// first-improvement pairwise swaps: the first swap (i, j) that strictly lowers
// the cost is adopted and the scan starts over, until a full pass over all
// ordered pairs finds nothing better. A round's local optimum replaces the best
// tour only when strictly cheaper, so ties keep the incumbent.
//
// Fewer than two cities yields an empty tour with cost 0. A nil rng uses the
// NewRand(0) stream. cities is never modified.
func Optimize(cities CitySet, rng *rand.Rand, opts Options) (Result, error) {
	names := cities.Names()
	if len(names) < 2 {
		return Result{Tour: []string{}}, nil
	}
	if rng == nil {
		rng = NewRand(0)
	}
	pts, err := resolve(names, cities)
	if err != nil {
		return Result{}, fmt.Errorf("optimize: %w", err)
	}

	n := len(names)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	best := append([]int(nil), order...)
	bestCost := cycleLength(pts, best)
	m := Metrics{InitialCost: bestCost}

	rounds := opts.restarts()
	for round := 1; round <= rounds; round++ {
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
		cost := descend(pts, order, &m)
		m.Rounds++
		if cost < bestCost {
			copy(best, order)
			bestCost = cost
			m.BestRound = round
		}
	}

	tour := make([]string, n)
	for i, idx := range best {
		tour[i] = names[idx]
	}
	total, err := Evaluate(tour, cities)
	if err != nil {
		return Result{}, fmt.Errorf("optimize: %w", err)
	}
	return Result{Tour: tour, Cost: total, Metrics: m}, nil
}

// descend applies first-improvement swaps to order in place until no single
// swap lowers the cycle length, and returns the final length.
func descend(pts []Point, order []int, m *Metrics) float64 {
	current := cycleLength(pts, order)
	m.Evaluations++
	cand := make([]int, len(order))
	for {
		improved := false
	scan:
		for i := range order {
			for j := range order {
				if i == j {
					continue
				}
				copy(cand, order)
				cand[i], cand[j] = cand[j], cand[i]
				d := cycleLength(pts, cand)
				m.Evaluations++
				if d < current {
					copy(order, cand)
					current = d
					m.Improvements++
					improved = true
					break scan
				}
			}
		}
		if !improved {
			return current
		}
	}
}
