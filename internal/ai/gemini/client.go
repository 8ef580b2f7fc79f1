package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/shortlist/internal/utils"
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultBackoff = 2 * time.Second
)

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Generator wraps the Google GenAI client to provide simple prompt-based interactions.
type Generator struct {
	generate   generateFunc
	modelName  string
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxRetries < 0 {
		maxRetries = 0
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		generate:   client.Models.GenerateContent,
		modelName:  model,
		maxRetries: maxRetries,
		backoff:    defaultBackoff,
		logger:     logger,
	}, nil
}

// GenerateContent sends the prompt to Gemini and returns the textual response.
// Failed calls are retried with a linearly growing pause.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.generate == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Debug("retrying gemini request",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			if err := utils.WaitFor(ctx, time.Duration(attempt)*g.backoff); err != nil {
				return "", err
			}
		}

		output, err := g.generateOnce(ctx, prompt)
		if err == nil {
			return output, nil
		}
		lastErr = err
	}

	return "", lastErr
}

func (g *Generator) generateOnce(ctx context.Context, prompt string) (string, error) {
	resp, err := g.generate(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
