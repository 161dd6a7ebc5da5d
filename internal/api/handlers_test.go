package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"citytour/internal/config"
	"citytour/internal/model"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Server.RateRPS = 0
	s, err := NewServer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewReader([]byte(b))
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func addCity(t *testing.T, h http.Handler, name, coords string) {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/v1/cities", model.CityIn{Name: name, Coordinates: coords})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func TestHealthReady(t *testing.T) {
	h := newTestServer(t).Routes()
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", nil).Code)
	rr := do(t, h, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "memory")
}

func TestCitiesCreateListDelete(t *testing.T) {
	h := newTestServer(t).Routes()
	addCity(t, h, "Jiloyork", "19.916012, -99.580580")
	addCity(t, h, "Toluca", "19.289165, -99.655697")
	rr := do(t, h, http.MethodPost, "/v1/cities", model.CityIn{Name: "CDMX", Location: &model.GeoPoint{Lat: 19.432713, Lon: -99.133183}})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, http.MethodGet, "/v1/cities", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list model.CityList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Items, 3)
	assert.Equal(t, "Jiloyork", list.Items[0].Name)
	assert.Equal(t, -99.580580, list.Items[0].Lon)
	assert.Equal(t, "CDMX", list.Items[2].Name)

	rr = do(t, h, http.MethodGet, "/v1/cities/Toluca", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "19.289165")

	rr = do(t, h, http.MethodDelete, "/v1/cities/Toluca", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, h, http.MethodDelete, "/v1/cities/Toluca", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	rr = do(t, h, http.MethodGet, "/v1/cities/Toluca", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCitiesCreateValidation(t *testing.T) {
	h := newTestServer(t).Routes()
	for name, body := range map[string]any{
		"bad json":     `{"name":`,
		"no name":      model.CityIn{Coordinates: "1,2"},
		"no coords":    model.CityIn{Name: "X"},
		"bad coords":   model.CityIn{Name: "X", Coordinates: "abc, 2"},
		"three values": model.CityIn{Name: "X", Coordinates: "1,2,3"},
	} {
		rr := do(t, h, http.MethodPost, "/v1/cities", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, name)
		var p Problem
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p), name)
		assert.Equal(t, http.StatusBadRequest, p.Status, name)
	}
}

func TestCitiesCreateDuplicate(t *testing.T) {
	h := newTestServer(t).Routes()
	addCity(t, h, "QRO", "20.59719437542255, -100.38667040246602")
	rr := do(t, h, http.MethodPost, "/v1/cities", model.CityIn{Name: "QRO", Coordinates: "0, 0"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	// coordinates of the original entry are kept
	rr = do(t, h, http.MethodGet, "/v1/cities/QRO", nil)
	assert.Contains(t, rr.Body.String(), "20.59719437542255")
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t).Routes()
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPut, "/v1/cities", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPost, "/v1/tour", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPatch, "/v1/cities/x", nil).Code)
}

func TestTourDegenerate(t *testing.T) {
	h := newTestServer(t).Routes()
	for i := 0; i < 2; i++ {
		rr := do(t, h, http.MethodGet, "/v1/tour", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var out model.TourOut
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		assert.NotNil(t, out.Tour)
		assert.Empty(t, out.Tour)
		assert.Zero(t, out.TotalDistance)
		if i == 0 {
			addCity(t, h, "Solo", "1, 1")
		}
	}
}

func TestTourRectangle(t *testing.T) {
	h := newTestServer(t).Routes()
	addCity(t, h, "A", "0, 0")
	addCity(t, h, "B", "0, 3")
	addCity(t, h, "C", "4, 3")
	addCity(t, h, "D", "4, 0")

	rr := do(t, h, http.MethodGet, "/v1/tour", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var out model.TourOut
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.InDelta(t, 14.0, out.TotalDistance, 1e-9)
	got := append([]string(nil), out.Tour...)
	sort.Strings(got)
	assert.Equal(t, []string{"A", "B", "C", "D"}, got)
	assert.NotZero(t, out.Seed)
	assert.Equal(t, 10, out.Metrics.Rounds)
}

func TestTourTwoCities(t *testing.T) {
	h := newTestServer(t).Routes()
	addCity(t, h, "A", "0, 0")
	addCity(t, h, "B", "1, 1")
	rr := do(t, h, http.MethodGet, "/v1/tour", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var out model.TourOut
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.InDelta(t, 2*math.Sqrt2, out.TotalDistance, 1e-12)
	assert.Equal(t, []string{"A", "B"}, out.Tour, "equal-cost orders keep insertion order")
}

func TestTourRejectsZeroSeed(t *testing.T) {
	h := newTestServer(t).Routes()
	addCity(t, h, "A", "0, 0")
	addCity(t, h, "B", "1, 1")
	rr := do(t, h, http.MethodGet, "/v1/tour?seed=0", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "non-zero")

	rr = do(t, h, http.MethodGet, "/v1/tour?seed=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/v1/tour?seed=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var out model.TourOut
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, int64(1), out.Seed)
}

func TestTourSeedReproducible(t *testing.T) {
	s := newTestServer(t)
	h := s.Routes()
	for _, c := range [][2]string{
		{"Jiloyork", "19.916012, -99.580580"},
		{"Toluca", "19.289165, -99.655697"},
		{"Atlacomulco", "19.799520, -99.873844"},
		{"Guadalajara", "20.677754472859146, -103.34625354877137"},
		{"Monterrey", "25.69161110159454, -100.321838480256"},
		{"QuintanaRoo", "21.163111924844458, -86.80231502121464"},
		{"Michohacan", "19.701400113725654, -101.20829680213464"},
		{"Aguascalientes", "21.87641043660486, -102.26438663286967"},
		{"CDMX", "19.432713075976878, -99.13318344772986"},
		{"QRO", "20.59719437542255, -100.38667040246602"},
	} {
		addCity(t, h, c[0], c[1])
	}

	var first model.TourOut
	for i := 0; i < 2; i++ {
		rr := do(t, h, http.MethodGet, "/v1/tour?seed=77", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var out model.TourOut
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		assert.Equal(t, int64(77), out.Seed)
		require.Len(t, out.Tour, 10)
		if i == 0 {
			first = out
			continue
		}
		assert.Equal(t, first.Tour, out.Tour)
		assert.Equal(t, first.TotalDistance, out.TotalDistance)
	}

	rr := do(t, h, http.MethodGet, "/v1/tour?seed=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/v1/admin/tour-metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var m struct {
		Source string `json:"source"`
		Runs   int    `json:"runs"`
		Last   struct {
			Seed   int64 `json:"seed"`
			Cities int   `json:"cities"`
		} `json:"last"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	assert.Equal(t, "memory", m.Source)
	assert.GreaterOrEqual(t, m.Runs, 2)
	assert.Equal(t, 10, m.Last.Cities)
}

func TestTourRateLimited(t *testing.T) {
	s := newTestServer(t)
	s.Limiter = rate.NewLimiter(rate.Limit(0.001), 1)
	h := s.Routes()
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/v1/tour", nil).Code)
	rr := do(t, h, http.MethodGet, "/v1/tour", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
}

func TestRequestIDAndMetricsEndpoint(t *testing.T) {
	h := newTestServer(t).Routes()
	rr := do(t, h, http.MethodGet, "/healthz", nil)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "req-123", rr.Header().Get("X-Request-Id"))

	rr = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "http_requests_total")
}

func TestDebugJSON(t *testing.T) {
	h := newTestServer(t).Routes()
	rr := do(t, h, http.MethodGet, "/debug/info", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var info struct {
		Build  map[string]string `json:"build"`
		Config map[string]any    `json:"config"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, "dev", info.Build["version"])
	assert.Equal(t, "memory", info.Config["store"])
	assert.Equal(t, false, info.Config["hasDatabaseUrl"])
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/v1/cities/{name}", routeLabel("/v1/cities/Toluca"))
	assert.Equal(t, "/v1/tour", routeLabel("/v1/tour"))
	assert.Equal(t, "other", routeLabel("/wp-admin"))
}
