package ai

import (
	"context"

	"github.com/spigell/shortlist/internal/listing"
	"github.com/spigell/shortlist/internal/profile"
)

type FitAssessment struct {
	Fit    bool
	Score  float64
	Reason string
	Raw    string
}

type Matcher interface {
	Evaluate(ctx context.Context, p *profile.Profile, l *listing.Listing) (*FitAssessment, error)
}
