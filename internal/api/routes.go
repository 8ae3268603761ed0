package api

import "github.com/go-chi/chi/v5"

// Handlers groups the handlers mounted by Register.
type Handlers struct {
	Usernames *UsernameHandler
	Hello     *HelloHandler
	Status    *StatusHandler
	Watch     *WatchHandler
}

// Register mounts every endpoint on r.
func (h Handlers) Register(r chi.Router) {
	r.Get("/hello", h.Hello.Hello)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-username", h.Usernames.GenerateUsername)

		r.Get("/requests/{id}", h.Status.GetRequest)
		r.Get("/requests/{id}/watch", h.Watch.Watch)
		r.Get("/usernames/{id}", h.Status.GetUsernames)
		r.Get("/greetings/{id}", h.Status.GetGreeting)
	})
}
