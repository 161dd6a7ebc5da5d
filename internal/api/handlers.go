package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"citytour/internal/metrics"
	"citytour/internal/model"
	"citytour/internal/opt"
)

const maxBodyBytes = 1 << 20

// CitiesHandler handles GET/POST /v1/cities
func (s *Server) CitiesHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/cities" {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	l := s.Logger.With(slog.String("handler", "cities"))
	switch r.Method {
	case http.MethodGet:
		cities, err := s.Store.ListCities(r.Context())
		if err != nil {
			l.ErrorContext(r.Context(), "list cities failed", slog.Any("error", err))
			writeProblem(w, http.StatusInternalServerError, "List cities failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, model.CityList{Items: cities})
	case http.MethodPost:
		var in model.CityIn
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		c, err := validateCityIn(in)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid city", err.Error(), r.URL.Path)
			return
		}
		if err := s.Store.AddCity(r.Context(), c); err != nil {
			metrics.CityMutations.WithLabelValues("add", "error").Inc()
			status := storeStatus(err)
			if status == http.StatusConflict {
				writeProblem(w, status, "City already exists", fmt.Sprintf("city %q already exists; remove it before re-adding", c.Name), r.URL.Path)
				return
			}
			l.ErrorContext(r.Context(), "add city failed", slog.String("city", c.Name), slog.Any("error", err))
			writeProblem(w, status, "Add city failed", err.Error(), r.URL.Path)
			return
		}
		metrics.CityMutations.WithLabelValues("add", "ok").Inc()
		l.InfoContext(r.Context(), "city added", slog.String("city", c.Name), slog.Float64("lat", c.Lat), slog.Float64("lon", c.Lon))
		s.publish(newEvent(EventCityAdded, map[string]any{"name": c.Name, "lat": c.Lat, "lon": c.Lon}))
		writeJSON(w, http.StatusCreated, map[string]any{"message": "city added", "city": c})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// CityByNameHandler handles GET/DELETE /v1/cities/{name}
func (s *Server) CityByNameHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/v1/cities/")
	if name == "" || name == r.URL.Path {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing city name", r.URL.Path)
		return
	}
	switch r.Method {
	case http.MethodGet:
		cities, err := s.Store.ListCities(r.Context())
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List cities failed", err.Error(), r.URL.Path)
			return
		}
		for _, c := range cities {
			if c.Name == name {
				writeJSON(w, http.StatusOK, c)
				return
			}
		}
		writeProblem(w, http.StatusNotFound, "City not found", fmt.Sprintf("city %q not found", name), r.URL.Path)
	case http.MethodDelete:
		if err := s.Store.RemoveCity(r.Context(), name); err != nil {
			metrics.CityMutations.WithLabelValues("remove", "error").Inc()
			status := storeStatus(err)
			if status == http.StatusNotFound {
				writeProblem(w, status, "City not found", fmt.Sprintf("city %q not found", name), r.URL.Path)
				return
			}
			s.Logger.ErrorContext(r.Context(), "remove city failed", slog.String("city", name), slog.Any("error", err))
			writeProblem(w, status, "Remove city failed", err.Error(), r.URL.Path)
			return
		}
		metrics.CityMutations.WithLabelValues("remove", "ok").Inc()
		s.Logger.InfoContext(r.Context(), "city removed", slog.String("city", name))
		s.publish(newEvent(EventCityRemoved, map[string]any{"name": name}))
		writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("city %q removed", name)})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// TourHandler handles GET /v1/tour. The optional seed query parameter makes
// the result reproducible; otherwise the server draws one and reports it.
func (s *Server) TourHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	l := s.Logger.With(slog.String("handler", "tour"))
	if s.Limiter != nil && !s.Limiter.Allow() {
		metrics.TourComputations.WithLabelValues("throttled").Inc()
		w.Header().Set("Retry-After", "1")
		writeProblem(w, http.StatusTooManyRequests, "Too many tour requests", "retry shortly", r.URL.Path)
		return
	}
	seed := s.nextSeed()
	if v := r.URL.Query().Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid seed", err.Error(), r.URL.Path)
			return
		}
		// 0 would silently alias the default stream
		if n == 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid seed", "seed must be non-zero", r.URL.Path)
			return
		}
		seed = n
	}

	cities, err := s.Store.ListCities(r.Context())
	if err != nil {
		l.ErrorContext(r.Context(), "list cities failed", slog.Any("error", err))
		writeProblem(w, http.StatusInternalServerError, "List cities failed", err.Error(), r.URL.Path)
		return
	}
	entries := make([]opt.NamedPoint, len(cities))
	for i, c := range cities {
		entries[i] = opt.NamedPoint{Name: c.Name, Point: opt.Point{Lat: c.Lat, Lon: c.Lon}}
	}

	start := time.Now()
	res, err := opt.Optimize(opt.NewCitySet(entries), opt.NewRand(seed), opt.Options{Restarts: s.Config.Tour.Restarts})
	elapsed := time.Since(start)
	if err != nil {
		metrics.TourComputations.WithLabelValues("error").Inc()
		l.ErrorContext(r.Context(), "tour computation failed", slog.Any("error", err))
		writeProblem(w, http.StatusInternalServerError, "Tour computation failed", err.Error(), r.URL.Path)
		return
	}
	metrics.TourComputations.WithLabelValues("ok").Inc()
	metrics.TourDuration.Observe(elapsed.Seconds())
	metrics.TourCities.Observe(float64(len(cities)))
	metrics.TourDistance.Set(res.Cost)
	opt.RecordRun(s.Store.Kind(), opt.Run{Seed: seed, Cities: len(cities), Cost: res.Cost, Metrics: res.Metrics, At: time.Now().UTC()})

	l.InfoContext(r.Context(), "tour computed",
		slog.Int("cities", len(cities)),
		slog.Float64("distance", res.Cost),
		slog.Int64("seed", seed),
		slog.Int("evaluations", res.Metrics.Evaluations),
		slog.Duration("elapsed", elapsed))
	s.publish(newEvent(EventTourComputed, map[string]any{"cities": len(cities), "totalDistance": res.Cost, "seed": seed}))

	writeJSON(w, http.StatusOK, model.TourOut{
		Tour:          res.Tour,
		TotalDistance: res.Cost,
		Seed:          seed,
		Metrics: model.TourMetrics{
			Rounds:       res.Metrics.Rounds,
			Improvements: res.Metrics.Improvements,
			Evaluations:  res.Metrics.Evaluations,
			InitialCost:  res.Metrics.InitialCost,
			BestRound:    res.Metrics.BestRound,
			ElapsedMs:    elapsed.Milliseconds(),
		},
	})
}

// TourMetricsHandler handles GET /v1/admin/tour-metrics
func (s *Server) TourMetricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	source := s.Store.Kind()
	last, count, ok := opt.LastRun(source)
	out := map[string]any{"source": source, "runs": count}
	if ok {
		out["last"] = last
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.Store.Ping(ctx); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Store unavailable", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "store": s.Store.Kind()})
}
