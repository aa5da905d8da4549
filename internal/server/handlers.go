package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/omriShneor/salesdesk/internal/timeutil"
)

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			respondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}

	status := map[string]interface{}{
		"status":   "healthy",
		"calendar": s.providerName,
		"fallback": "disabled",
	}
	if s.notifyService != nil && s.notifyService.IsEmailAvailable() {
		status["fallback"] = "email"
	}

	respondJSON(w, http.StatusOK, status)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// parseTime reads an RFC3339 or organizer-local timestamp.
func (s *Server) parseTime(value string) (time.Time, error) {
	return timeutil.ParseDateTime(value, s.scheduler.Location())
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
