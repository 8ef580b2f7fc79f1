package filtering

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/shortlist/internal/ai"
	"github.com/spigell/shortlist/internal/directory"
	"github.com/spigell/shortlist/internal/listing"
	"github.com/spigell/shortlist/internal/profile"
)

func companyNames(items []*directory.Company) string {
	names := make([]string, 0, len(items))
	for _, c := range items {
		names = append(names, c.Name)
	}
	return strings.Join(names, ",")
}

func TestRunLogsEnabledSteps(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	companies := []*directory.Company{
		{Name: "A", Status: "Active", Regions: []string{"Remote"}},
		{Name: "B", Status: "Inactive", Regions: []string{"Remote"}},
		{Name: "C", Status: "Active", Regions: []string{"United States of America"}},
	}

	steps := CompanySteps(true, true, "", zap.New(core))
	kept, results, err := Run(context.Background(), zap.New(core), steps, companies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := companyNames(kept); got != "A" {
		t.Fatalf("expected only A to survive, got %q", got)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 step results, got %d", len(results))
	}

	status, ok := Find(results, StatusFilterName)
	if !ok || status.Initial != 3 || status.Dropped != 1 || status.Left != 2 {
		t.Fatalf("unexpected status step: %+v", status)
	}

	remote, _ := Find(results, RemoteFilterName)
	if remote.Left != 1 {
		t.Fatalf("unexpected remote step: %+v", remote)
	}

	if n := observed.FilterMessage("filter step").Len(); n != 3 {
		t.Fatalf("expected 3 filter step logs, got %d", n)
	}
}

func TestCompanyStepsDisabledByFlags(t *testing.T) {
	companies := []*directory.Company{
		{Name: "A", Status: "Inactive", Regions: []string{"United States of America"}},
		{Name: "B"},
	}

	steps := CompanySteps(false, false, "", nil)
	kept, results, err := Run(context.Background(), nil, steps, companies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 2 {
		t.Fatalf("expected all companies to be kept, got %q", companyNames(kept))
	}

	if len(results) != 1 || results[0].Name != ExcludeFileFilterName {
		t.Fatalf("expected only exclude_file to run, got %+v", results)
	}

	statuses := FormatStatuses(Describe(steps))
	if statuses[0] != "status=false (skip requested via flag)" {
		t.Fatalf("unexpected status description: %v", statuses)
	}
}

func TestExcludeFileFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")

	f := NewExcludeFile(path, nil)
	companies := []*directory.Company{{Name: "Acme"}, {Name: "Globex"}}

	kept, step, err := f.Apply(context.Background(), companies)
	if err != nil {
		t.Fatalf("missing exclude file should not fail: %v", err)
	}
	if step.Dropped != 0 || len(kept) != 2 {
		t.Fatalf("expected nothing dropped, got %+v", step)
	}

	excluded := directory.ToExcluded([]*directory.Record{{Name: " ACME "}}, time.Now())
	if err := excluded.ToFile(path); err != nil {
		t.Fatalf("write exclude file: %v", err)
	}

	kept, step, err = f.Apply(context.Background(), companies)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if companyNames(kept) != "Globex" || step.Dropped != 1 {
		t.Fatalf("expected Acme to be excluded, got %q %+v", companyNames(kept), step)
	}

	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write broken file: %v", err)
	}
	if _, _, err := f.Apply(context.Background(), companies); err == nil {
		t.Fatalf("expected error for broken exclude file")
	}
}

type stubMatcher struct {
	answers map[string]*ai.FitAssessment
	calls   []string
}

func (s *stubMatcher) Evaluate(_ context.Context, _ *profile.Profile, l *listing.Listing) (*ai.FitAssessment, error) {
	s.calls = append(s.calls, l.CompanyName)
	if a, ok := s.answers[l.CompanyName]; ok {
		return a, nil
	}
	return nil, errors.New("no answer")
}

func TestListingSteps(t *testing.T) {
	p := &profile.Profile{GoodFit: []string{"llm"}, Avoid: []string{"crypto"}}
	items := []*listing.Listing{
		{CompanyName: "LLM Co", Locations: "Remote"},
		{CompanyName: "Crypto LLM", Locations: "Remote"},
		{CompanyName: "Office Co", Locations: "New York"},
		{CompanyName: "Maybe Yes", Locations: "Panama"},
		{CompanyName: "Maybe No", Locations: "remote"},
		{CompanyName: "Maybe Error", Locations: "Remote (US)"},
	}

	matcher := &stubMatcher{answers: map[string]*ai.FitAssessment{
		"Maybe Yes": {Fit: true, Score: 0.9},
		"Maybe No":  {Fit: false, Score: 0.1},
	}}

	kept, results, err := Run(context.Background(), nil, ListingSteps(p, matcher, nil), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := map[string]profile.Fit{}
	for _, l := range kept {
		got[l.CompanyName] = l.Fit
	}

	expect := map[string]profile.Fit{
		"LLM Co":      profile.GoodFit,
		"Maybe Yes":   profile.GoodFit,
		"Maybe Error": profile.Maybe,
	}
	if len(got) != len(expect) {
		t.Fatalf("expected %v, got %v", expect, got)
	}
	for name, fit := range expect {
		if got[name] != fit {
			t.Fatalf("%s: expected %s, got %s", name, fit, got[name])
		}
	}

	if strings.Join(matcher.calls, ",") != "Maybe Yes,Maybe No,Maybe Error" {
		t.Fatalf("matcher must only see maybe listings, got %v", matcher.calls)
	}

	location, _ := Find(results, LocationFilterName)
	if location.Left != 5 {
		t.Fatalf("expected 5 listings after location step, got %+v", location)
	}
}

func TestAIFitDisabledWithoutMatcher(t *testing.T) {
	steps := ListingSteps(&profile.Profile{}, nil, nil)

	_, results, err := Run(context.Background(), nil, steps, []*listing.Listing{{CompanyName: "A", Locations: "Remote"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := Find(results, AIFitFilterName); ok {
		t.Fatalf("expected ai_fit to be skipped")
	}
}
