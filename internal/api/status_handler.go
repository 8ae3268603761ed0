package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/courier/internal/api/shared"
	"github.com/phrazzld/courier/internal/correlation"
	"github.com/phrazzld/courier/internal/ledger"
	"github.com/phrazzld/courier/internal/service"
)

// StatusHandler serves request status and stored results.
type StatusHandler struct {
	status service.StatusService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(status service.StatusService) *StatusHandler {
	return &StatusHandler{status: status}
}

// GetRequest handles GET /api/requests/{id}.
func (h *StatusHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	entry, err := h.status.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, statusToResponse(entry))
}

// GetUsernames handles GET /api/usernames/{id}.
func (h *StatusHandler) GetUsernames(w http.ResponseWriter, r *http.Request) {
	id, err := correlation.Parse(chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	record, err := h.status.Usernames(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	usernames := record.Usernames
	if usernames == nil {
		usernames = []string{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, UsernamesResponse{
		RequestID:   id,
		Theme:       record.Theme,
		Usernames:   usernames,
		GeneratedAt: record.GeneratedAt,
	})
}

// GetGreeting handles GET /api/greetings/{id}.
func (h *StatusHandler) GetGreeting(w http.ResponseWriter, r *http.Request) {
	id, err := correlation.Parse(chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	record, err := h.status.Greeting(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, GreetingResponse{
		RequestID:   id,
		Greeting:    record.Greeting,
		AppName:     record.AppName,
		RequestedAt: record.RequestedAt,
		ProcessedAt: record.ProcessedAt,
	})
}

func statusToResponse(entry *ledger.Entry) RequestStatusResponse {
	return RequestStatusResponse{
		RequestID: entry.RequestID,
		Topic:     entry.Topic,
		Status:    string(entry.Status),
		Error:     entry.Error,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}
