package generation

import (
	"context"
	"strings"
)

// MaxUsernameLength is the longest username kept from model output.
const MaxUsernameLength = 30

// Generator produces usernames for a theme. Implementations return at most
// count usernames.
type Generator interface {
	GenerateUsernames(ctx context.Context, theme string, keywords []string, count int) ([]string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, theme string, keywords []string, count int) ([]string, error)

// GenerateUsernames implements Generator.
func (f GeneratorFunc) GenerateUsernames(ctx context.Context, theme string, keywords []string, count int) ([]string, error) {
	return f(ctx, theme, keywords, count)
}

// Unconfigured is a Generator that always fails with ErrNotConfigured.
type Unconfigured struct{}

// GenerateUsernames implements Generator.
func (Unconfigured) GenerateUsernames(ctx context.Context, theme string, keywords []string, count int) ([]string, error) {
	return nil, ErrNotConfigured
}

// ParseUsernames splits model output into usernames: one per non-blank
// line, trimmed, lines longer than MaxUsernameLength dropped, at most count
// kept in order.
func ParseUsernames(text string, count int) []string {
	usernames := make([]string, 0, count)
	if count <= 0 {
		return usernames
	}

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		name := strings.TrimSpace(line)
		if name == "" || len(name) > MaxUsernameLength {
			continue
		}
		usernames = append(usernames, name)
		if len(usernames) == count {
			break
		}
	}
	return usernames
}

// KeywordList renders keywords for a prompt.
func KeywordList(keywords []string) string {
	if len(keywords) == 0 {
		return "none specified"
	}
	return strings.Join(keywords, ", ")
}
