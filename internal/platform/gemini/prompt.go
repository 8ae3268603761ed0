package gemini

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"text/template"

	"github.com/phrazzld/courier/internal/generation"
)

//go:embed prompt.tmpl
var defaultPrompt string

// ErrEmptyTheme is returned when a prompt is requested without a theme.
var ErrEmptyTheme = errors.New("theme cannot be empty")

// promptData represents the data passed to the prompt template
type promptData struct {
	Theme    string
	Keywords string
	Count    int
}

// loadPromptTemplate parses the template at path, or the built-in prompt
// when path is empty.
func loadPromptTemplate(path string) (*template.Template, error) {
	content := defaultPrompt
	name := "username_prompt"

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				generation.ErrInvalidConfig, path, err)
		}
		content = string(data)
		name = path
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}
	return tmpl, nil
}

// renderPrompt executes tmpl for one request.
func renderPrompt(tmpl *template.Template, theme string, keywords []string, count int) (string, error) {
	if theme == "" {
		return "", ErrEmptyTheme
	}

	var buf bytes.Buffer
	data := promptData{
		Theme:    theme,
		Keywords: generation.KeywordList(keywords),
		Count:    count,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
