package http

import (
	"context"
	"net/http"
	"time"
)

// HealthCheck probes one dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type healthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health reports "ok" when every check passes and "degraded" with 503
// otherwise. Each check gets two seconds.
func Health(checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := healthStatus{Status: "ok", Checks: make(map[string]string, len(checks))}
		code := http.StatusOK
		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := c.Check(ctx)
			cancel()
			if err != nil {
				st.Checks[c.Name] = err.Error()
				st.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			st.Checks[c.Name] = "ok"
		}
		writeJSON(w, code, st)
	}
}
