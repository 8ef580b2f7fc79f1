package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/shortlist/internal/ai"
	"github.com/spigell/shortlist/internal/listing"
	"github.com/spigell/shortlist/internal/profile"
	"github.com/spigell/shortlist/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type Matcher struct {
	generator contentGenerator
	minScore  float64
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewMatcher(generator contentGenerator, minScore float64, maxLogLength int, logger *zap.Logger) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Matcher{
		generator: generator,
		minScore:  minScore,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (m *Matcher) Evaluate(ctx context.Context, p *profile.Profile, l *listing.Listing) (*ai.FitAssessment, error) {
	if p == nil {
		return nil, fmt.Errorf("profile is required")
	}
	if l == nil {
		return nil, fmt.Errorf("listing is required")
	}

	profileJSON, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile payload: %w", err)
	}

	listingJSON, err := json.MarshalIndent(map[string]string{
		"company_name": l.CompanyName,
		"focus":        l.Focus,
		"locations":    l.Locations,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal listing payload: %w", err)
	}

	prompt := buildPrompt(string(profileJSON), string(listingJSON))

	m.logger.Debug("gemini generate content request",
		zap.String("company", l.CompanyName),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, m.maxLogLen)),
	)

	raw, err := m.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("gemini generate content response",
		zap.String("company", l.CompanyName),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, m.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if m.minScore > 0 && assessment.Score < m.minScore {
		m.logger.Debug("set fit to false by score threshold",
			zap.String("company", l.CompanyName),
			zap.Float64("score", assessment.Score),
			zap.Float64("threshold", m.minScore),
		)
		assessment.Fit = false
	}

	assessment.Raw = raw
	return assessment, nil
}

func buildPrompt(profileJSON, listingJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Profile:\n{{PROFILE_JSON}}\n\nCompany:\n{{LISTING_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{PROFILE_JSON}}", profileJSON)
	prompt = strings.ReplaceAll(prompt, "{{LISTING_JSON}}", listingJSON)
	return prompt
}

func parseResponse(raw string) (*ai.FitAssessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) {
		score = 0
	}

	return &ai.FitAssessment{
		Fit:    coerceBool(data["fit"]),
		Score:  score,
		Reason: coerceString(data["reason"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
