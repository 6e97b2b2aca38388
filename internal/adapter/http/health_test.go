package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	cfhttp "github.com/Strob0t/followup/internal/adapter/http"
)

func TestHealth(t *testing.T) {
	ok := cfhttp.HealthCheck{Name: "postgres", Check: func(context.Context) error { return nil }}
	down := cfhttp.HealthCheck{Name: "nats", Check: func(context.Context) error { return errors.New("connection refused") }}

	tests := []struct {
		name       string
		checks     []cfhttp.HealthCheck
		wantCode   int
		wantStatus string
	}{
		{"no checks", nil, http.StatusOK, "ok"},
		{"all healthy", []cfhttp.HealthCheck{ok}, http.StatusOK, "ok"},
		{"one down", []cfhttp.HealthCheck{ok, down}, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			cfhttp.Health(tt.checks...)(w, httptest.NewRequest("GET", "/health", http.NoBody))
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}
			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", body.Status, tt.wantStatus)
			}
			for _, c := range tt.checks {
				if _, ok := body.Checks[c.Name]; !ok {
					t.Errorf("missing check %q", c.Name)
				}
			}
		})
	}
}

func TestHealthCheckHasDeadline(t *testing.T) {
	var hasDeadline bool
	check := cfhttp.HealthCheck{Name: "probe", Check: func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}}
	cfhttp.Health(check)(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", http.NoBody))
	if !hasDeadline {
		t.Error("check context has no deadline")
	}
}
