// Command tour computes a closed tour over a city file (or the built-in demo
// set) without starting the HTTP service.
//
//	tour -file cities.yaml -seed 42
//
// The file is a YAML (or JSON) list of {name, lat, lon} entries.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"citytour/internal/model"
	"citytour/internal/opt"
)

func main() {
	file := flag.String("file", "", "city list (YAML or JSON); empty uses the demo set")
	seed := flag.Int64("seed", 0, "random seed; 0 picks one from the clock")
	restarts := flag.Int("restarts", opt.DefaultRestarts, "shuffle-and-descend rounds")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(os.Stdout, *file, *seed, *restarts); err != nil {
		logger.Error("tour failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(out io.Writer, file string, seed int64, restarts int) error {
	cities := demoCities
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		if cities, err = loadCities(f); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	entries := make([]opt.NamedPoint, len(cities))
	for i, c := range cities {
		entries[i] = opt.NamedPoint{Name: c.Name, Point: opt.Point{Lat: c.Lat, Lon: c.Lon}}
	}
	res, err := opt.Optimize(opt.NewCitySet(entries), opt.NewRand(seed), opt.Options{Restarts: restarts})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Tour: %s\n", strings.Join(res.Tour, " -> "))
	fmt.Fprintf(out, "Total distance: %.6f\n", res.Cost)
	fmt.Fprintf(out, "Seed: %d\n", seed)
	return nil
}

func loadCities(r io.Reader) ([]model.City, error) {
	var cities []model.City
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cities); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode cities: %w", err)
	}
	seen := map[string]bool{}
	for i, c := range cities {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("entry %d: name is required", i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("entry %d: duplicate city %q", i, c.Name)
		}
		seen[c.Name] = true
	}
	return cities, nil
}
