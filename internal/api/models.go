package api

import "time"

// GenerateUsernameRequest is the body of POST /api/generate-username.
// Keywords and Count are optional.
type GenerateUsernameRequest struct {
	Theme    string   `json:"theme"`
	Keywords []string `json:"keywords"`
	Count    *int     `json:"count"`
}

// GenerateUsernameResponse acknowledges an accepted generation request.
type GenerateUsernameResponse struct {
	Message   string   `json:"message"`
	Theme     string   `json:"theme"`
	Keywords  []string `json:"keywords"`
	Count     int      `json:"count"`
	RequestID string   `json:"requestId"`
}

// HelloResponse acknowledges an accepted greeting request.
type HelloResponse struct {
	Message   string `json:"message"`
	Status    string `json:"status"`
	AppName   string `json:"appName"`
	RequestID string `json:"requestId"`
}

// RequestStatusResponse reports a request's ledger entry.
type RequestStatusResponse struct {
	RequestID string    `json:"requestId"`
	Topic     string    `json:"topic"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UsernamesResponse reports stored usernames.
type UsernamesResponse struct {
	RequestID   string    `json:"requestId"`
	Theme       string    `json:"theme"`
	Usernames   []string  `json:"usernames"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// GreetingResponse reports a processed greeting.
type GreetingResponse struct {
	RequestID   string    `json:"requestId"`
	Greeting    string    `json:"greeting"`
	AppName     string    `json:"appName"`
	RequestedAt time.Time `json:"requestedAt"`
	ProcessedAt time.Time `json:"processedAt"`
}
