package domain

import (
	"strings"
	"time"
)

// Bounds and defaults for username generation requests.
const (
	DefaultUsernameCount = 5
	MinUsernameCount     = 1
	MaxUsernameCount     = 10

	// MaxUsernameLength is the longest handle a worker may return.
	MaxUsernameLength = 30
)

// UsernameRequest is the validated form of a username generation request.
type UsernameRequest struct {
	Theme    string   `json:"theme" validate:"required"`
	Keywords []string `json:"keywords"`
	Count    int      `json:"count" validate:"min=1,max=10"`
}

// NewUsernameRequest applies defaults for omitted optional fields and
// validates the result. A nil count means the caller omitted it.
func NewUsernameRequest(theme string, keywords []string, count *int) (*UsernameRequest, error) {
	req := &UsernameRequest{
		Theme:    strings.TrimSpace(theme),
		Keywords: make([]string, 0, len(keywords)),
		Count:    DefaultUsernameCount,
	}
	req.Keywords = append(req.Keywords, keywords...)
	if count != nil {
		req.Count = *count
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate checks the request against its declared constraints.
func (r *UsernameRequest) Validate() error {
	return validateStruct(r)
}

// UsernameTask is the payload emitted on TopicUsernameRequested.
// It is never mutated after construction.
type UsernameTask struct {
	Theme     string   `json:"theme"`
	Keywords  []string `json:"keywords"`
	Count     int      `json:"count"`
	RequestID string   `json:"requestId"`
}

// NewUsernameTask builds the task payload for an accepted request.
func NewUsernameTask(req *UsernameRequest, requestID string) (*UsernameTask, error) {
	if requestID == "" {
		return nil, ErrEmptyRequestID
	}

	keywords := make([]string, len(req.Keywords))
	copy(keywords, req.Keywords)

	return &UsernameTask{
		Theme:     req.Theme,
		Keywords:  keywords,
		Count:     req.Count,
		RequestID: requestID,
	}, nil
}

// UsernameResult is the payload received on TopicUsernameGenerated.
type UsernameResult struct {
	RequestID string   `json:"requestId" validate:"required"`
	Success   bool     `json:"success"`
	Theme     string   `json:"theme,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	Usernames []string `json:"usernames"`
	Error     string   `json:"error,omitempty"`
}

// Validate checks that the result can be correlated.
func (r *UsernameResult) Validate() error {
	return validateStruct(r)
}

// NewUsernameFailure builds a failed result for the given task.
func NewUsernameFailure(requestID string, cause string) *UsernameResult {
	return &UsernameResult{
		RequestID: requestID,
		Success:   false,
		Usernames: []string{},
		Error:     cause,
	}
}

// UsernameRecord is what gets stored under NamespaceUsernames for a
// successful result.
type UsernameRecord struct {
	Theme       string    `json:"theme"`
	Usernames   []string  `json:"usernames"`
	GeneratedAt time.Time `json:"generatedAt"`
}
