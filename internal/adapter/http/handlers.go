// Package http provides the REST adapter and HTTP middleware.
package http

import (
	"net/http"

	"github.com/Strob0t/followup/internal/domain/mom"
	"github.com/Strob0t/followup/internal/domain/reply"
	"github.com/Strob0t/followup/internal/domain/task"
	"github.com/Strob0t/followup/internal/service"
)

// Handlers holds the services behind the REST API.
type Handlers struct {
	Lifecycle *service.Coordinator
}

// ClassifyTask previews the priority and deadline of a task.
func (h *Handlers) ClassifyTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[task.CreateRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	if !requireField(w, req.Text, "text") {
		return
	}
	writeJSON(w, http.StatusOK, h.Lifecycle.Classify(&req))
}

// ApplyReply processes a fetched reply mail.
func (h *Handlers) ApplyReply(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[service.Reply](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	if !requireField(w, req.Body, "body") {
		return
	}
	res, err := h.Lifecycle.ApplyReply(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "reply failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	Updates   []reply.Update `json:"updates"`
	ReplyType reply.Type     `json:"reply_type"`
}

// ExtractUpdates returns the status updates found in a text without applying them.
func (h *Handlers) ExtractUpdates(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[extractRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	updates := reply.ExtractUpdates(req.Text)
	if updates == nil {
		updates = []reply.Update{}
	}
	writeJSON(w, http.StatusOK, extractResponse{
		Updates:   updates,
		ReplyType: reply.DecideType(req.Text, len(updates) > 0, false),
	})
}

// IngestMinutes creates tasks from a minutes-of-meeting mail.
func (h *Handlers) IngestMinutes(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[mom.Message](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	if !requireField(w, req.Body, "body") {
		return
	}
	res, err := h.Lifecycle.IngestMinutes(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "intake failed")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
