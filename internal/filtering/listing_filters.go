package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/shortlist/internal/ai"
	"github.com/spigell/shortlist/internal/listing"
	"github.com/spigell/shortlist/internal/profile"
)

const (
	LocationFilterName = "location"
	FitFilterName      = "profile_fit"
	AIFitFilterName    = "ai_fit"
)

type locationFilter struct {
	toggle
}

// NewLocation creates a filter that keeps listings located remotely or in Panama.
func NewLocation() Filter[*listing.Listing] {
	return &locationFilter{}
}

func (f *locationFilter) Name() string { return LocationFilterName }

func (f *locationFilter) Validate() error { return nil }

func (f *locationFilter) Apply(_ context.Context, items []*listing.Listing) ([]*listing.Listing, Step, error) {
	kept, step := keep(items, func(l *listing.Listing) bool {
		return listing.MatchesLocation(l.Locations)
	})
	return kept, step, nil
}

type fitFilter struct {
	toggle
	profile *profile.Profile
}

// NewProfileFit labels every listing against the profile and drops the "avoid" ones.
func NewProfileFit(p *profile.Profile) Filter[*listing.Listing] {
	return &fitFilter{profile: p}
}

func (f *fitFilter) Name() string { return FitFilterName }

func (f *fitFilter) Validate() error { return nil }

func (f *fitFilter) Apply(_ context.Context, items []*listing.Listing) ([]*listing.Listing, Step, error) {
	for _, item := range items {
		item.Fit = f.profile.Classify(item.CompanyName, item.Focus)
	}

	kept, step := keep(items, func(l *listing.Listing) bool { return l.Fit != profile.Avoid })
	return kept, step, nil
}

func (f *fitFilter) Status() Status {
	details := map[string]string{}
	if f.profile != nil {
		details["good_fit_keywords"] = fmt.Sprint(len(f.profile.GoodFit))
		details["avoid_keywords"] = fmt.Sprint(len(f.profile.Avoid))
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type aiFitFilter struct {
	toggle
	matcher ai.Matcher
	profile *profile.Profile
	logger  *zap.Logger
}

// NewAIFit creates a step that asks the matcher about listings still labelled "maybe".
// A positive answer upgrades the listing to good_fit, a negative one drops it.
func NewAIFit(matcher ai.Matcher, p *profile.Profile, logger *zap.Logger) Filter[*listing.Listing] {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &aiFitFilter{matcher: matcher, profile: p, logger: logger}
	if matcher == nil {
		f.Disable("ai matcher is not configured")
	}
	return f
}

func (f *aiFitFilter) Name() string { return AIFitFilterName }

func (f *aiFitFilter) Validate() error {
	if f.matcher == nil {
		return fmt.Errorf("ai matcher is required when ai filter is enabled")
	}
	return nil
}

func (f *aiFitFilter) Apply(ctx context.Context, items []*listing.Listing) ([]*listing.Listing, Step, error) {
	approved := make([]*listing.Listing, 0, len(items))

	for _, item := range items {
		if item.Fit != profile.Maybe {
			approved = append(approved, item)
			continue
		}

		assessment, err := f.matcher.Evaluate(ctx, f.profile, item)
		if err != nil {
			if ctx.Err() != nil {
				return items, Step{}, ctx.Err()
			}
			f.logger.Warn("AI evaluation failed",
				zap.String("company", item.CompanyName),
				zap.Error(err),
			)
			approved = append(approved, item)
			continue
		}

		if !assessment.Fit {
			f.logger.Info("listing rejected by AI provider",
				zap.String("company", item.CompanyName),
				zap.Float64("ai_score", assessment.Score),
				zap.String("reason", assessment.Reason),
			)
			item.Fit = profile.Avoid
			continue
		}

		f.logger.Info("listing approved by AI",
			zap.String("company", item.CompanyName),
			zap.Float64("ai_score", assessment.Score),
		)
		item.Fit = profile.GoodFit
		approved = append(approved, item)
	}

	return approved, Step{Initial: len(items), Dropped: len(items) - len(approved), Left: len(approved)}, nil
}

func (f *aiFitFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

// ListingSteps builds the text-list filter chain.
func ListingSteps(p *profile.Profile, matcher ai.Matcher, logger *zap.Logger) []Filter[*listing.Listing] {
	return []Filter[*listing.Listing]{
		NewLocation(),
		NewProfileFit(p),
		NewAIFit(matcher, p, logger),
	}
}
