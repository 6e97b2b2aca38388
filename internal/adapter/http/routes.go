package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Version is reported by GET /api/v1/.
var Version = "0.1.0"

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"version": Version})
		})

		// Tasks
		r.Get("/tasks", handleList(h.Lifecycle.List))
		r.Post("/tasks", handleCreate(maxRequestBodySize, h.Lifecycle.Create))
		r.Get("/tasks/overdue", handleList(h.Lifecycle.Overdue))
		r.Get("/tasks/{id}", handleGet(h.Lifecycle.Get, "task not found"))
		r.Get("/tasks/{id}/reminder", handleGet(h.Lifecycle.NextReminder, "task not found"))
		r.Get("/tasks/{id}/escalations", handleListByParam("id", h.Lifecycle.Escalations, "task not found"))

		r.Post("/classify", h.ClassifyTask)

		// Inbound mail
		r.Post("/replies", h.ApplyReply)
		r.Post("/replies/extract", h.ExtractUpdates)
		r.Post("/moms", h.IngestMinutes)

		// Batch passes
		r.Post("/passes/reminders", handleRun(h.Lifecycle.RunReminders))
		r.Post("/passes/escalations", handleRun(h.Lifecycle.RunEscalations))
	})
}
