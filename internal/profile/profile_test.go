package profile

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	input := `# my profile
GOOD_FIT_KEYWORDS=AI, LLM ,dev tools,,
avoid_keywords=crypto,gambling
not a key value line
OTHER=ignored
`

	p, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Join(p.GoodFit, "|") != "ai|llm|dev tools" {
		t.Fatalf("unexpected good fit keywords: %q", p.GoodFit)
	}

	if strings.Join(p.Avoid, "|") != "crypto|gambling" {
		t.Fatalf("unexpected avoid keywords: %q", p.Avoid)
	}
}

func TestParseSkipsForeignKeys(t *testing.T) {
	t.Parallel()

	input := `# x
TARGET ROLES (2025)=AI PM, founder
GOOD_FIT_KEYWORDS=ai, $dev, c# , llm #tools
AVOID_KEYWORDS=crypto
`

	p, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Join(p.GoodFit, "|") != "ai|$dev|c#|llm #tools" {
		t.Fatalf("unexpected good fit keywords: %q", p.GoodFit)
	}

	if strings.Join(p.Avoid, "|") != "crypto" {
		t.Fatalf("unexpected avoid keywords: %q", p.Avoid)
	}
}

func TestParseLastLineWins(t *testing.T) {
	t.Parallel()

	for i := 0; i < 20; i++ {
		p, err := Parse(strings.NewReader("good_fit_keywords=aaa\nGOOD_FIT_KEYWORDS=bbb\navoid_keywords=x\nAvoid_Keywords=y\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Join(p.GoodFit, "|") != "bbb" || strings.Join(p.Avoid, "|") != "y" {
			t.Fatalf("expected the later lines to win, got %+v", p)
		}
	}
}

func TestLoadMissingFileGivesEmptyProfile(t *testing.T) {
	t.Parallel()

	p, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !p.IsEmpty() {
		t.Fatalf("expected empty profile, got %+v", p)
	}

	if fit := p.Classify("Acme", "widgets"); fit != Maybe {
		t.Fatalf("expected maybe, got %s", fit)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	p := &Profile{
		GoodFit: []string{"llm", "agent"},
		Avoid:   []string{"crypto"},
	}

	tests := []struct {
		name   string
		focus  string
		expect Fit
	}{
		{name: "LLM Labs", focus: "evaluation", expect: GoodFit},
		{name: "Acme", focus: "Agent platform", expect: GoodFit},
		{name: "Acme", focus: "crypto agent wallet", expect: Avoid},
		{name: "CryptoLLM", focus: "", expect: Avoid},
		{name: "Widgets", focus: "hardware", expect: Maybe},
		{name: "Widgets", focus: "", expect: Maybe},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.focus, func(t *testing.T) {
			t.Parallel()
			if got := p.Classify(tt.name, tt.focus); got != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, got)
			}
		})
	}
}
