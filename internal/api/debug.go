package api

import (
	"net/http"
	"time"

	"citytour/internal/buildinfo"
)

// DebugJSON reports build info and the non-secret parts of the running config.
func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
	cfg := s.Config
	info := map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"port":             cfg.Server.Port,
			"allowOrigins":     cfg.Server.AllowOrigins,
			"rateRps":          cfg.Server.RateRPS,
			"rateBurst":        cfg.Server.RateBurst,
			"tourRestarts":     cfg.Tour.Restarts,
			"store":            s.Store.Kind(),
			"hasDatabaseUrl":   cfg.Database.URL != "",
			"hasRedisUrl":      cfg.Redis.URL != "",
			"logLevel":         cfg.Log.Level,
			"webhookReceivers": len(cfg.Webhooks.URLs),
		},
	}
	writeJSON(w, http.StatusOK, info)
}
