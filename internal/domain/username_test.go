package domain

import (
	"errors"
	"testing"
)

func intPtr(n int) *int { return &n }

func TestNewUsernameRequest(t *testing.T) {
	t.Parallel()

	req, err := NewUsernameRequest("  retro gaming  ", []string{"pixel", "arcade"}, intPtr(3))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if req.Theme != "retro gaming" {
		t.Errorf("Expected trimmed theme %q, got %q", "retro gaming", req.Theme)
	}
	if len(req.Keywords) != 2 || req.Keywords[0] != "pixel" || req.Keywords[1] != "arcade" {
		t.Errorf("Expected keywords [pixel arcade], got %v", req.Keywords)
	}
	if req.Count != 3 {
		t.Errorf("Expected count 3, got %d", req.Count)
	}
}

func TestNewUsernameRequest_Defaults(t *testing.T) {
	t.Parallel()

	req, err := NewUsernameRequest("space", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if req.Count != DefaultUsernameCount {
		t.Errorf("Expected default count %d, got %d", DefaultUsernameCount, req.Count)
	}
	if req.Keywords == nil || len(req.Keywords) != 0 {
		t.Errorf("Expected empty non-nil keywords, got %#v", req.Keywords)
	}
}

func TestNewUsernameRequest_CopiesKeywords(t *testing.T) {
	t.Parallel()

	keywords := []string{"moon"}
	req, err := NewUsernameRequest("space", keywords, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	keywords[0] = "sun"
	if req.Keywords[0] != "moon" {
		t.Errorf("Expected request keywords to be independent of the caller's slice, got %v", req.Keywords)
	}
}

func TestNewUsernameRequest_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		theme   string
		count   *int
		field   string
		message string
	}{
		{"empty theme", "", nil, "theme", "theme is required"},
		{"blank theme", "   ", nil, "theme", "theme is required"},
		{"count too small", "space", intPtr(0), "count", "count must be at least 1"},
		{"negative count", "space", intPtr(-2), "count", "count must be at least 1"},
		{"count too large", "space", intPtr(11), "count", "count must be at most 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, err := NewUsernameRequest(tt.theme, nil, tt.count)
			if req != nil {
				t.Errorf("Expected nil request, got %+v", req)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Expected ErrValidation, got %v", err)
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, ve.Field)
			}
			if err.Error() != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestNewUsernameRequest_CountBounds(t *testing.T) {
	t.Parallel()

	for _, n := range []int{MinUsernameCount, MaxUsernameCount} {
		if _, err := NewUsernameRequest("space", nil, intPtr(n)); err != nil {
			t.Errorf("Expected count %d to be accepted, got %v", n, err)
		}
	}
}

func TestNewUsernameTask(t *testing.T) {
	t.Parallel()

	req := &UsernameRequest{Theme: "space", Keywords: []string{"orbit"}, Count: 4}

	task, err := NewUsernameTask(req, "req-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.Theme != "space" || task.Count != 4 || task.RequestID != "req-1" {
		t.Errorf("Unexpected task %+v", task)
	}

	req.Keywords[0] = "changed"
	if task.Keywords[0] != "orbit" {
		t.Errorf("Expected task keywords to be a copy, got %v", task.Keywords)
	}

	if _, err := NewUsernameTask(req, ""); !errors.Is(err, ErrEmptyRequestID) {
		t.Errorf("Expected ErrEmptyRequestID, got %v", err)
	}
}

func TestUsernameResultValidate(t *testing.T) {
	t.Parallel()

	valid := UsernameResult{RequestID: "req-1", Success: true, Usernames: []string{"a"}}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	missing := UsernameResult{Success: true}
	err := missing.Validate()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected ErrValidation, got %v", err)
	}
	if err.Error() != "requestId is required" {
		t.Errorf("Expected %q, got %q", "requestId is required", err.Error())
	}
}

func TestNewUsernameFailure(t *testing.T) {
	t.Parallel()

	r := NewUsernameFailure("req-9", "model unavailable")
	if r.Success {
		t.Error("Expected Success to be false")
	}
	if r.RequestID != "req-9" || r.Error != "model unavailable" {
		t.Errorf("Unexpected failure result %+v", r)
	}
	if r.Usernames == nil || len(r.Usernames) != 0 {
		t.Errorf("Expected empty non-nil usernames, got %#v", r.Usernames)
	}
}
