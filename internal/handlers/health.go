package handlers

import (
	"context"
	"net/http"
	"time"
)

// Check pings one dependency and returns nil when it is reachable.
type Check func(ctx context.Context) error

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Time   time.Time         `json:"time"`
	Checks map[string]string `json:"checks"`
}

// Health reports whether the API's dependencies are reachable.
type Health struct {
	checks map[string]Check
	now    func() time.Time
}

// NewHealth creates the health handler. Optional dependencies that are not
// configured should simply be left out of checks.
func NewHealth(checks map[string]Check) *Health {
	return &Health{checks: checks, now: time.Now}
}

// ServeHTTP answers 200 when every check passes and 503 otherwise.
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Time: h.now().UTC(), Checks: map[string]string{}}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	writeJSON(w, status, resp)
}
