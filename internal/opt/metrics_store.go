package opt

import (
	"sync"
	"time"
)

// Run summarises a finished optimization for the admin endpoints.
type Run struct {
	Seed    int64     `json:"seed"`
	Cities  int       `json:"cities"`
	Cost    float64   `json:"cost"`
	Metrics Metrics   `json:"metrics"`
	At      time.Time `json:"at"`
}

type runStats struct {
	Last  Run
	Count int
}

var (
	mu   sync.Mutex
	runs = map[string]runStats{}
)

// RecordRun stores r as the latest run for source and bumps its run count.
func RecordRun(source string, r Run) {
	mu.Lock()
	st := runs[source]
	st.Last = r
	st.Count++
	runs[source] = st
	mu.Unlock()
}

// LastRun returns the latest run recorded for source and how many runs it has seen.
func LastRun(source string) (Run, int, bool) {
	mu.Lock()
	defer mu.Unlock()
	st, ok := runs[source]
	return st.Last, st.Count, ok
}

// ResetRuns clears every recorded run.
func ResetRuns() {
	mu.Lock()
	runs = map[string]runStats{}
	mu.Unlock()
}
