package api

import (
	"net/http"

	"github.com/phrazzld/courier/internal/api/shared"
	"github.com/phrazzld/courier/internal/domain"
	"github.com/phrazzld/courier/internal/service"
)

// UsernameHandler handles username generation requests.
type UsernameHandler struct {
	usernames service.UsernameService
}

// NewUsernameHandler creates a new UsernameHandler.
func NewUsernameHandler(usernames service.UsernameService) *UsernameHandler {
	return &UsernameHandler{usernames: usernames}
}

// GenerateUsername handles POST /api/generate-username requests.
func (h *UsernameHandler) GenerateUsername(w http.ResponseWriter, r *http.Request) {
	var body GenerateUsernameRequest
	if err := shared.DecodeJSON(w, r, &body); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	req, err := domain.NewUsernameRequest(body.Theme, body.Keywords, body.Count)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.usernames.RequestGeneration(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, GenerateUsernameResponse{
		Message:   "Username generation started",
		Theme:     task.Theme,
		Keywords:  task.Keywords,
		Count:     task.Count,
		RequestID: task.RequestID,
	})
}
