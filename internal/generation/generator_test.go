package generation_test

import (
	"context"
	"strings"
	"testing"

	"github.com/phrazzld/courier/internal/generation"
	"github.com/stretchr/testify/assert"
)

func TestParseUsernames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		count int
		want  []string
	}{
		{
			name:  "one per line",
			text:  "pixel_raider\nloot.goblin\nfrag_queen\n",
			count: 5,
			want:  []string{"pixel_raider", "loot.goblin", "frag_queen"},
		},
		{
			name:  "truncates to count",
			text:  "a1b2\nc3d4\ne5f6\ng7h8",
			count: 2,
			want:  []string{"a1b2", "c3d4"},
		},
		{
			name:  "drops blank and padded lines",
			text:  "\n  spaced.out  \n\n\t\ntabbed\n",
			count: 5,
			want:  []string{"spaced.out", "tabbed"},
		},
		{
			name:  "drops lines over thirty characters",
			text:  strings.Repeat("x", 31) + "\n" + strings.Repeat("y", 30),
			count: 5,
			want:  []string{strings.Repeat("y", 30)},
		},
		{
			name:  "windows line endings",
			text:  "one_1\r\ntwo_2\r\n",
			count: 5,
			want:  []string{"one_1", "two_2"},
		},
		{
			name:  "empty text",
			text:  "",
			count: 3,
			want:  []string{},
		},
		{
			name:  "zero count",
			text:  "abcd",
			count: 0,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, generation.ParseUsernames(tt.text, tt.count))
		})
	}
}

func TestKeywordList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none specified", generation.KeywordList(nil))
	assert.Equal(t, "none specified", generation.KeywordList([]string{}))
	assert.Equal(t, "pro, fps", generation.KeywordList([]string{"pro", "fps"}))
}

func TestUnconfigured(t *testing.T) {
	t.Parallel()

	var g generation.Generator = generation.Unconfigured{}
	usernames, err := g.GenerateUsernames(context.Background(), "gaming", nil, 3)

	assert.Nil(t, usernames)
	assert.ErrorIs(t, err, generation.ErrNotConfigured)
	assert.Equal(t, "GEMINI_API_KEY not configured", err.Error())
}

func TestGeneratorFunc(t *testing.T) {
	t.Parallel()

	g := generation.GeneratorFunc(func(ctx context.Context, theme string, keywords []string, count int) ([]string, error) {
		return []string{theme + "_1"}, nil
	})

	got, err := g.GenerateUsernames(context.Background(), "space", nil, 1)
	assert.NoError(t, err)
	assert.Equal(t, []string{"space_1"}, got)
}
