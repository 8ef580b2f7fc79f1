package filtering

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/shortlist/internal/directory"
	"github.com/spigell/shortlist/internal/utils"
)

const (
	StatusFilterName       = "status"
	RemoteFilterName       = "remote_or_international"
	ExcludeFileFilterName  = "exclude_file"
	skipRequestedByFlagMsg = "skip requested via flag"
)

type statusFilter struct {
	toggle
}

// NewStatus creates a filter that keeps only active companies.
func NewStatus() Filter[*directory.Company] {
	return &statusFilter{}
}

func (f *statusFilter) Name() string { return StatusFilterName }

func (f *statusFilter) Validate() error { return nil }

func (f *statusFilter) Apply(_ context.Context, items []*directory.Company) ([]*directory.Company, Step, error) {
	kept, step := keep(items, (*directory.Company).IsActive)
	return kept, step, nil
}

func (f *statusFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{"status": directory.StatusActive}}
}

type remoteFilter struct {
	toggle
}

// NewRemoteOrInternational creates a filter that keeps remote-friendly or international companies.
func NewRemoteOrInternational() Filter[*directory.Company] {
	return &remoteFilter{}
}

func (f *remoteFilter) Name() string { return RemoteFilterName }

func (f *remoteFilter) Validate() error { return nil }

func (f *remoteFilter) Apply(_ context.Context, items []*directory.Company) ([]*directory.Company, Step, error) {
	kept, step := keep(items, func(c *directory.Company) bool {
		return c.IsRemoteFriendly() || c.IsInternational()
	})
	return kept, step, nil
}

type excludeFileFilter struct {
	toggle
	path   string
	logger *zap.Logger
}

// NewExcludeFile creates a filter that removes companies listed in the exclude file.
func NewExcludeFile(path string, logger *zap.Logger) Filter[*directory.Company] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &excludeFileFilter{path: strings.TrimSpace(path), logger: logger}
}

func (f *excludeFileFilter) Name() string { return ExcludeFileFilterName }

func (f *excludeFileFilter) Validate() error {
	if f.path == "" {
		return nil
	}
	if info, err := os.Stat(f.path); err == nil && info.IsDir() {
		return fmt.Errorf("exclude file %q is a directory", f.path)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, items []*directory.Company) ([]*directory.Company, Step, error) {
	if f.path == "" {
		return items, Step{Initial: len(items), Left: len(items)}, nil
	}

	excluded, err := directory.GetExcludedCompaniesFromFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		f.logger.Debug("exclude file does not exist yet", zap.String("path", f.path))
		return items, Step{Initial: len(items), Left: len(items)}, nil
	}
	if err != nil {
		return items, Step{}, fmt.Errorf("getting excluded companies from file: %w", err)
	}

	names := excluded.Names()
	var removed []string
	kept, step := keep(items, func(c *directory.Company) bool {
		if names[utils.NormalizeName(c.Name)] {
			removed = append(removed, c.Name)
			return false
		}
		return true
	})

	if len(removed) > 0 {
		f.logger.Info("excluding companies based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_companies", removed),
			zap.Int("companies_left", len(kept)),
		)
	}

	return kept, step, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

// CompanySteps builds the ingest filter chain. Disabled steps stay in the list.
func CompanySteps(filterStatus, remoteOnly bool, excludeFile string, logger *zap.Logger) []Filter[*directory.Company] {
	steps := []Filter[*directory.Company]{
		NewStatus(),
		NewRemoteOrInternational(),
		NewExcludeFile(excludeFile, logger),
	}

	if !filterStatus {
		DisableByName(steps, StatusFilterName, skipRequestedByFlagMsg)
	}
	if !remoteOnly {
		DisableByName(steps, RemoteFilterName, "remote-only flag is not set")
	}

	return steps
}

// FormatStatuses renders statuses for debug logging.
func FormatStatuses(statuses []Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		line := s.Name + "=" + strconv.FormatBool(s.Enabled)
		if s.Reason != "" {
			line += " (" + s.Reason + ")"
		}
		out = append(out, line)
	}
	return out
}
