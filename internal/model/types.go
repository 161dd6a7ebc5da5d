package model

// City is a named point held by the store.
type City struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CityIn is the body of POST /v1/cities. Either Coordinates ("lat, lon")
// or Location must be set.
type CityIn struct {
	Name        string    `json:"name"`
	Coordinates string    `json:"coordinates,omitempty"`
	Location    *GeoPoint `json:"location,omitempty"`
}

type CityList struct {
	Items []City `json:"items"`
}

// TourMetrics mirrors opt.Metrics on the wire.
type TourMetrics struct {
	Rounds       int     `json:"rounds"`
	Improvements int     `json:"improvements"`
	Evaluations  int     `json:"evaluations"`
	InitialCost  float64 `json:"initialCost"`
	BestRound    int     `json:"bestRound"`
	ElapsedMs    int64   `json:"elapsedMs"`
}

type TourOut struct {
	Tour          []string    `json:"tour"`
	TotalDistance float64     `json:"totalDistance"`
	Seed          int64       `json:"seed"`
	Metrics       TourMetrics `json:"metrics"`
}
