// Package correlation issues the opaque identifiers that link an accepted
// request to the result that eventually arrives for it.
package correlation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/courier/internal/domain"
)

// Generator produces correlation IDs. Services depend on this interface so
// tests can supply deterministic IDs.
type Generator interface {
	NewID() string
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func() string

// NewID implements Generator.
func (f GeneratorFunc) NewID() string {
	return f()
}

// UUIDGenerator issues random (version 4) UUIDs, 122 bits of entropy each.
type UUIDGenerator struct{}

// NewID implements Generator.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// NewID issues a fresh correlation ID using the default generator.
func NewID() string {
	return UUIDGenerator{}.NewID()
}

// Parse validates an ID received from outside the process (for example a URL
// path segment) and returns it in canonical lower-case form.
func Parse(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.NewValidationError("id", "is required", domain.ErrInvalidID)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", domain.NewValidationError("id", fmt.Sprintf("has invalid format: %q", raw), domain.ErrInvalidID)
	}
	return id.String(), nil
}
