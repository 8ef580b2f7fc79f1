package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/shortlist/internal/ats"
	"github.com/spigell/shortlist/internal/directory"
	"github.com/spigell/shortlist/internal/filtering"
	"github.com/spigell/shortlist/internal/history"
	"github.com/spigell/shortlist/internal/scoring"
	"github.com/spigell/shortlist/internal/utils"
)

const sampleScores = 5

type IngestConfig struct {
	URL            string `mapstructure:"url"`
	Top            int    `mapstructure:"top"`
	RemoteOnly     bool   `mapstructure:"remote-only"`
	NoFilterStatus bool   `mapstructure:"no-filter-status"`
	ExportPriority bool   `mapstructure:"export-priority"`
	EnrichATS      bool   `mapstructure:"enrich-ats"`
	Output         string `mapstructure:"output"`
	PriorityOutput string `mapstructure:"priority-output"`
}

type companyFetcher interface {
	Fetch(ctx context.Context) ([]*directory.Company, error)
}

type companyEnricher interface {
	Enrich(ctx context.Context, companies []*directory.Company) int
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch, filter and score the YC AI Assistant company directory",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return bindFlags(cmd.Flags(), map[string]string{
			"ingest.url":              "url",
			"ingest.top":              "top",
			"ingest.remote-only":      "remote-only",
			"ingest.no-filter-status": "no-filter-status",
			"ingest.export-priority":  "export-priority",
			"ingest.enrich-ats":       "enrich-ats",
			"ingest.output":           "output",
			"ingest.priority-output":  "priority-output",
			"history.path":            "history",
			"exclude-file":            "exclude-file",
		})
	},
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		logger, config := setup("ingest")

		if config.Ingest == nil {
			logger.Fatal("ingest configuration is required")
		}

		if err := directory.ValidateURL(config.Ingest.URL); err != nil {
			logger.Fatal("invalid directory url", zap.Error(err))
		}

		client := directory.New(logger, config.Ingest.URL)
		if config.UserAgent != "" {
			client.UserAgent = config.UserAgent
		}

		var enricher companyEnricher
		if config.Ingest.EnrichATS {
			enricher = ats.NewDetector(logger)
		}

		if err := ingest(ctx, config, client, enricher, logger, cmd.OutOrStdout()); err != nil {
			logger.Fatal("ingesting the directory", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().String("url", directory.DefaultURL, "directory API endpoint")
	ingestCmd.Flags().Int("top", 50, "how many top-scored companies to keep (0 keeps all)")
	ingestCmd.Flags().Bool("remote-only", false, "keep only remote-friendly or international companies")
	ingestCmd.Flags().Bool("no-filter-status", false, "do not drop inactive companies")
	ingestCmd.Flags().Bool("export-priority", false, "also write the priority list of company slugs")
	ingestCmd.Flags().Bool("enrich-ats", false, "detect the ATS vendor from company websites before scoring")
	ingestCmd.Flags().String("history", "", "sqlite database remembering earlier runs. Default is unset.")
	ingestCmd.Flags().StringP("exclude-file", "e", "", "special file with companies to exclude. Default is unset.")
	ingestCmd.Flags().String("output", "yc_ai_assistant_companies.json", "where to write the ranked companies")
	ingestCmd.Flags().String("priority-output", "priority_companies_for_vibejob.json", "where to write the priority list")
}

// ingest runs fetch, filters, optional enrichment, scoring and the writes.
// enricher may be nil.
func ingest(ctx context.Context, config *Config, fetcher companyFetcher, enricher companyEnricher, logger *zap.Logger, out io.Writer) error {
	if config == nil || config.Ingest == nil {
		return errors.New("ingest configuration is required")
	}
	cfg := config.Ingest

	logger.Info("fetching the directory")

	companies, err := fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetching companies: %w", err)
	}
	fetched := len(companies)

	logger.Info("got companies", zap.Int("count", fetched))

	steps := filtering.CompanySteps(!cfg.NoFilterStatus, cfg.RemoteOnly, config.ExcludeFile, logger)
	logger.Debug("filters", zap.Strings("status", filtering.FormatStatuses(filtering.Describe(steps))))

	companies, _, err = filtering.Run(ctx, logger, steps, companies)
	if err != nil {
		return err
	}

	if len(companies) == 0 {
		logger.Info("exiting",
			zap.String("reason", "no companies left after filters"),
			zap.String("hint", "try without --remote-only"),
		)
		return nil
	}

	if enricher != nil {
		enricher.Enrich(ctx, companies)
	}

	ranked := scoring.NewRubric(config.Scoring).Rank(companies, cfg.Top)
	records := scoring.Records(ranked)

	for _, s := range ranked {
		logger.Debug("scored", zap.String("company", s.Company.Name), zap.Int("score", s.Score), zap.Strings("tags", s.Tags))
	}

	if config.History != nil && config.History.Path != "" {
		if err := recordHistory(ctx, config.History.Path, fetched, records, logger); err != nil {
			return err
		}
	}

	if err := utils.WriteJSON(cfg.Output, records); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Output, err)
	}

	fmt.Fprintf(out, "Saved top %d companies to %s\n", len(records), cfg.Output)
	fmt.Fprintf(out, "Sample scores: %v\n", scores(ranked, sampleScores))

	if cfg.ExportPriority {
		names := make([]string, 0, len(records))
		for _, r := range records {
			names = append(names, r.Name)
		}
		priority := scoring.PriorityList(names)

		if err := utils.WriteJSON(cfg.PriorityOutput, priority); err != nil {
			return fmt.Errorf("writing %s: %w", cfg.PriorityOutput, err)
		}

		fmt.Fprintf(out, "Exported %d to %s\n", len(priority), cfg.PriorityOutput)
	}

	return nil
}

// recordHistory stores the run and flags records first seen in it.
func recordHistory(ctx context.Context, path string, fetched int, records []*directory.Record, logger *zap.Logger) error {
	store, err := history.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.StartRun(ctx, fetched)
	if err != nil {
		return err
	}

	fresh := 0
	for _, r := range records {
		slug := scoring.Slugify(r.Name)
		if slug == "" {
			continue
		}

		isNew, err := store.Record(ctx, runID, slug, r.Name, r.Score)
		if err != nil {
			return err
		}
		r.New = isNew
		if isNew {
			fresh++
		}
	}

	if err := store.FinishRun(ctx, runID, len(records)); err != nil {
		return err
	}

	runs, err := store.Runs(ctx)
	if err != nil {
		return err
	}

	logger.Info("recorded run history",
		zap.String("run_id", runID),
		zap.Int("new", fresh),
		zap.Int("runs", runs),
		zap.String("path", path),
	)
	return nil
}

func scores(ranked []scoring.Scored, n int) []int {
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]int, 0, n)
	for _, s := range ranked[:n] {
		out = append(out, s.Score)
	}
	return out
}
