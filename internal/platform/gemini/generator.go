package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/courier/internal/config"
	"github.com/phrazzld/courier/internal/generation"
	"google.golang.org/genai"
)

// Defaults applied when the configured retry values are out of range.
const (
	defaultMaxRetries        = 3
	defaultRetryDelaySeconds = 2
)

// contentGenerator is the slice of the genai client this package uses.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Generator implements generation.Generator using Gemini.
type Generator struct {
	logger         *slog.Logger
	models         contentGenerator
	model          string
	promptTemplate *template.Template
	maxRetries     int
	baseDelay      time.Duration

	// sleep waits between attempts; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
	rng   *rand.Rand
}

var _ generation.Generator = (*Generator)(nil)

// New creates a Generator with a genai client for cfg.GeminiAPIKey.
func New(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidConfig, generation.ErrNotConfigured)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return newGenerator(client.Models, cfg, logger)
}

func newGenerator(models contentGenerator, cfg config.LLMConfig, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	tmpl, err := loadPromptTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	logger = logger.With("component", "gemini", "model", cfg.ModelName)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		logger.Warn("invalid max retries value, using default",
			"max_retries", cfg.MaxRetries,
			"default", defaultMaxRetries)
		maxRetries = defaultMaxRetries
	}

	delaySeconds := cfg.RetryDelaySeconds
	if delaySeconds < 1 {
		delaySeconds = defaultRetryDelaySeconds
	}

	return &Generator{
		logger:         logger,
		models:         models,
		model:          cfg.ModelName,
		promptTemplate: tmpl,
		maxRetries:     maxRetries,
		baseDelay:      time.Duration(delaySeconds) * time.Second,
		sleep:          sleepContext,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// GenerateUsernames renders the prompt, calls Gemini with retries and
// parses the reply.
func (g *Generator) GenerateUsernames(ctx context.Context, theme string, keywords []string, count int) ([]string, error) {
	prompt, err := renderPrompt(g.promptTemplate, theme, keywords, count)
	if err != nil {
		return nil, err
	}

	text, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	usernames := generation.ParseUsernames(text, count)
	if len(usernames) == 0 {
		return nil, fmt.Errorf("%w: no usable usernames in response", generation.ErrInvalidResponse)
	}

	g.logger.InfoContext(ctx, "usernames generated",
		"theme", theme,
		"requested", count,
		"generated", len(usernames))
	return usernames, nil
}

// callWithRetry makes a call to the Gemini API with exponential backoff retry logic.
//
// It attempts the call up to maxRetries+1 times. Permanent errors (content
// blocked, malformed responses, client errors) are returned immediately.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.DebugContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", g.maxRetries+1)

		text, err := g.call(ctx, prompt)
		if err == nil {
			return text, nil
		}

		g.logger.WarnContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !errors.Is(err, generation.ErrTransientFailure) {
			return "", err
		}

		if attempt >= g.maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, g.maxRetries, err)
		}

		// delay = baseDelay * 2^attempt * [0.5, 1.0)
		backoff := float64(g.baseDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + g.rng.Float64()*0.5))

		g.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay", delay.String())

		if err := g.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
	}
}

// call performs one request and classifies its failure.
func (g *Generator) call(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", classifyError(err)
	}

	switch {
	case resp == nil:
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	case resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "":
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	case len(resp.Candidates) == 0:
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	case resp.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}
	return sb.String(), nil
}

// classifyError marks rate limits, server errors and network failures as
// transient; other API errors are permanent.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}

	if code == 0 || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}
	return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
