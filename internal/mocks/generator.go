package mocks

import (
	"context"

	"github.com/phrazzld/courier/internal/generation"
	"github.com/stretchr/testify/mock"
)

// MockGenerator implements generation.Generator for testing.
type MockGenerator struct {
	mock.Mock
}

var _ generation.Generator = (*MockGenerator)(nil)

// GenerateUsernames implements generation.Generator.
func (m *MockGenerator) GenerateUsernames(ctx context.Context, theme string, keywords []string, count int) ([]string, error) {
	args := m.Called(ctx, theme, keywords, count)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}
