package shared

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctxWithTrace := SetTraceID(ctx)
	traceID := GetTraceID(ctxWithTrace)
	assert.Len(t, traceID, 32)
	assert.True(t, ValidTraceID(traceID))

	assert.Empty(t, GetTraceID(ctx), "original context must be unchanged")
}

func TestWithTraceID(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc")
	assert.Equal(t, "abc", GetTraceID(ctx))
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestGenerateTraceID(t *testing.T) {
	const iterations = 1000
	seen := make(map[string]bool, iterations)
	for i := 0; i < iterations; i++ {
		id := generateTraceID()
		_, err := hex.DecodeString(id)
		assert.NoError(t, err)
		assert.False(t, seen[id], "trace IDs must be unique")
		seen[id] = true
	}
}

func TestValidTraceID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{strings.Repeat("a1", 16), true},
		{strings.Repeat("A1", 16), false},
		{strings.Repeat("a1", 15), false},
		{strings.Repeat("zz", 16), false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidTraceID(tt.in), tt.in)
	}
}
