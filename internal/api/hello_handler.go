package api

import (
	"net/http"

	"github.com/phrazzld/courier/internal/api/shared"
	"github.com/phrazzld/courier/internal/service"
)

// HelloHandler handles GET /hello.
type HelloHandler struct {
	greetings service.GreetingService
}

// NewHelloHandler creates a new HelloHandler.
func NewHelloHandler(greetings service.GreetingService) *HelloHandler {
	return &HelloHandler{greetings: greetings}
}

// Hello dispatches a greeting and acknowledges it.
func (h *HelloHandler) Hello(w http.ResponseWriter, r *http.Request) {
	task, err := h.greetings.RequestGreeting(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HelloResponse{
		Message:   "Hello request received! Processing...",
		Status:    "processing",
		AppName:   task.AppName,
		RequestID: task.RequestID,
	})
}
