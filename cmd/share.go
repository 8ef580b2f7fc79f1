package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/shortlist/internal/directory"
	"github.com/spigell/shortlist/internal/share"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

type ShareConfig struct {
	Top          int    `mapstructure:"top"`
	LinkedInOnly bool   `mapstructure:"linkedin-only"`
	Input        string `mapstructure:"input"`
	MarkShared   bool   `mapstructure:"mark-shared"`
	Yes          bool   `mapstructure:"yes"`
}

// confirmFunc asks the user a yes/no question.
type confirmFunc func(label string) (bool, error)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print the shortlist and a block ready to paste into a post",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return bindFlags(cmd.Flags(), map[string]string{
			"share.top":           "top",
			"share.linkedin-only": "linkedin-only",
			"share.input":         "input",
			"share.mark-shared":   "mark-shared",
			"share.yes":           "yes",
			"exclude-file":        "exclude-file",
		})
	},
	Run: func(cmd *cobra.Command, _ []string) {
		logger, config := setup("share")

		if err := shareRecords(config, share.NewRenderer(), logger, cmd.OutOrStdout(), promptConfirm); err != nil {
			logger.Fatal("sharing the shortlist", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(shareCmd)

	shareCmd.Flags().Int("top", 10, "how many companies to include (0 includes all)")
	shareCmd.Flags().Bool("linkedin-only", false, "print only the copy block")
	shareCmd.Flags().String("input", "yc_ai_assistant_companies.json", "ranked companies written by ingest")
	shareCmd.Flags().Bool("mark-shared", false, "append the shared companies to the exclude file")
	shareCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before marking companies as shared")
	shareCmd.Flags().StringP("exclude-file", "e", "", "special file with companies to exclude. Default is unset.")
}

func shareRecords(config *Config, renderer *share.Renderer, logger *zap.Logger, out io.Writer, confirm confirmFunc) error {
	if config == nil || config.Share == nil {
		return errors.New("share configuration is required")
	}
	cfg := config.Share

	records, err := directory.LoadRecords(cfg.Input)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, "Run first: "+app+" ingest --remote-only")
		logger.Info("exiting", zap.String("reason", "ingest output not found"), zap.String("path", cfg.Input))
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading ranked companies: %w", err)
	}

	top := share.Take(records, cfg.Top)

	if !cfg.LinkedInOnly {
		if err := renderer.Shortlist(out, top); err != nil {
			return err
		}
	}

	if err := renderer.CopyBlock(out, top); err != nil {
		return err
	}

	if !cfg.MarkShared {
		return nil
	}

	return markShared(config.ExcludeFile, top, cfg.Yes, logger, confirm)
}

// markShared appends records to the exclude file so later ingests skip them.
func markShared(path string, records []*directory.Record, yes bool, logger *zap.Logger, confirm confirmFunc) error {
	if path == "" {
		return errors.New("--mark-shared needs an exclude file (--exclude-file or exclude-file in the config)")
	}
	if len(records) == 0 {
		logger.Info("nothing to mark as shared")
		return nil
	}

	if !yes {
		ok, err := confirm(fmt.Sprintf("Append %d companies to %s?", len(records), path))
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return nil
		}
	}

	excluded, err := directory.GetExcludedCompaniesFromFile(path)
	if errors.Is(err, os.ErrNotExist) {
		excluded = &directory.ExcludedCompanies{}
	} else if err != nil {
		return fmt.Errorf("reading exclude file: %w", err)
	}

	added := excluded.Append(directory.ToExcluded(records, time.Now()))

	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("writing exclude file: %w", err)
	}

	logger.Info("appended to exclude file",
		zap.String("filename", path),
		zap.Int("added", added),
		zap.Int("total", len(excluded.Items)),
	)

	return nil
}

func promptConfirm(label string) (bool, error) {
	prompt := promptui.Select{
		Label: color.New(color.FgYellow).Sprint(label),
		Items: []string{PromptYes, PromptNo},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return false, err
	}

	return answer == PromptYes, nil
}
