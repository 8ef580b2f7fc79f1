package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/shortlist/internal/ai"
	"github.com/spigell/shortlist/internal/ai/gemini"
	"github.com/spigell/shortlist/internal/filtering"
	"github.com/spigell/shortlist/internal/listing"
	"github.com/spigell/shortlist/internal/profile"
	"github.com/spigell/shortlist/internal/secrets"
	"github.com/spigell/shortlist/internal/utils"
)

type FilterConfig struct {
	Paste   string `mapstructure:"paste"`
	Profile string `mapstructure:"profile"`
	Result  string `mapstructure:"result"`
	CSV     string `mapstructure:"csv"`
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter a pasted company list by location and profile fit",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return bindFlags(cmd.Flags(), map[string]string{
			"filter.paste":   "paste",
			"filter.profile": "profile",
			"filter.result":  "result",
			"filter.csv":     "csv",
			"ai.enabled":     "ai",
		})
	},
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		logger, config := setup("filter")

		matcher := prepareMatcher(ctx, config.AI, logger)

		if err := filterListings(ctx, config.Filter, matcher, logger, cmd.OutOrStdout()); err != nil {
			logger.Fatal("filtering the pasted list", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(filterCmd)

	filterCmd.Flags().String("paste", "paste_here.txt", "file with the pasted company list")
	filterCmd.Flags().String("profile", "elena_profile.txt", "profile file with GOOD_FIT_KEYWORDS and AVOID_KEYWORDS")
	filterCmd.Flags().String("result", "result.txt", "where to write the text report")
	filterCmd.Flags().String("csv", "filtered_jobs.csv", "where to write the CSV")
	filterCmd.Flags().Bool("ai", false, "ask the AI matcher about entries labelled maybe")
}

// filterListings parses the paste file, runs the listing filters and writes
// the report and the CSV. A missing or empty paste file is not an error.
func filterListings(ctx context.Context, config *FilterConfig, matcher ai.Matcher, logger *zap.Logger, out io.Writer) error {
	if config == nil {
		return errors.New("filter configuration is required")
	}

	content, err := os.ReadFile(config.Paste)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("exiting",
			zap.String("reason", "paste file not found"),
			zap.String("path", config.Paste),
			zap.String("hint", "create "+config.Paste+" and paste the company list into it"),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading paste file: %w", err)
	}

	paste := listing.SplitSections(string(content))
	items := listing.ParseListings(paste.Listings)

	links := map[string]string{}
	if paste.HasLinks {
		links = listing.ParseLinks(paste.Links)
	}
	attached := listing.AttachLinks(items, links)

	logger.Info("parsed the paste file",
		zap.Int("companies", len(items)),
		zap.Int("links", len(links)),
		zap.Int("attached", attached),
	)

	if len(items) == 0 {
		logger.Info("exiting",
			zap.String("reason", "no companies found"),
			zap.String("path", config.Paste),
		)
		return nil
	}

	p, err := profile.Load(config.Profile)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	if p.IsEmpty() {
		logger.Info("profile has no keywords, every entry is labelled maybe", zap.String("path", config.Profile))
	}

	steps := filtering.ListingSteps(p, matcher, logger)
	logger.Debug("filters", zap.Strings("status", filtering.FormatStatuses(filtering.Describe(steps))))

	kept, results, err := filtering.Run(ctx, logger, steps, items)
	if err != nil {
		return err
	}

	locationMatched := len(items)
	if step, ok := filtering.Find(results, filtering.LocationFilterName); ok {
		locationMatched = step.Left
	}

	report := listing.RenderReport(listing.Summary{
		Total:           len(items),
		LocationMatched: locationMatched,
		ProfileName:     filepath.Base(config.Profile),
		HasLinks:        len(links) > 0,
	}, kept)

	var csvBuf bytes.Buffer
	if err := listing.WriteCSV(&csvBuf, kept); err != nil {
		return fmt.Errorf("rendering csv: %w", err)
	}

	if err := utils.WriteFileAtomic(config.CSV, csvBuf.Bytes()); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	if err := utils.WriteFileAtomic(config.Result, []byte(report)); err != nil {
		// Both outputs or neither.
		_ = os.Remove(config.CSV)
		return fmt.Errorf("writing report: %w", err)
	}

	fmt.Fprintln(out, report)
	fmt.Fprintln(out, strings.Repeat("-", 60))
	fmt.Fprintf(out, "Result saved to: %s\n", config.Result)
	fmt.Fprintf(out, "Also: %s\n", config.CSV)

	return nil
}

// prepareMatcher returns nil when AI is disabled or cannot be set up. The
// listing filters then run without the AI step.
func prepareMatcher(ctx context.Context, config *AIConfig, logger *zap.Logger) ai.Matcher {
	if config == nil || !config.Enabled {
		return nil
	}

	matcher, err := newAIMatcher(ctx, config, logger)
	if err != nil {
		logger.Warn("skipping AI filter", zap.Error(err))
		return nil
	}

	return matcher
}

func newAIMatcher(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Matcher, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai filter is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	matcherLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
		zap.Float64("minimum_fit_score", minScore),
	)

	return gemini.NewMatcher(generator, minScore, cfg.Gemini.MaxLogLength, matcherLogger), nil
}
