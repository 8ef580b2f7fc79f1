// Package profile loads the personal keyword profile and labels companies by fit.
package profile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Fit is the label a company gets after keyword matching against a profile.
type Fit string

const (
	GoodFit Fit = "good_fit"
	Maybe   Fit = "maybe"
	Avoid   Fit = "avoid"
)

const (
	goodFitKey = "GOOD_FIT_KEYWORDS"
	avoidKey   = "AVOID_KEYWORDS"
)

// Profile holds lowercased keyword lists.
type Profile struct {
	GoodFit []string `json:"good_fit"`
	Avoid   []string `json:"avoid"`
}

// Load reads a profile from path. A missing file yields an empty profile.
func Load(path string) (*Profile, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=comma,separated,list lines in order. Keys are
// case-insensitive and a later line overrides an earlier one. Comments,
// unknown keys and lines without '=' are ignored. Values are taken verbatim.
func Parse(r io.Reader) (*Profile, error) {
	p := &Profile{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		switch strings.ToUpper(strings.TrimSpace(key)) {
		case goodFitKey:
			p.GoodFit = splitKeywords(value)
		case avoidKey:
			p.Avoid = splitKeywords(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	return p, nil
}

// Classify labels a company by its name and focus. Avoid keywords win over good-fit ones.
func (p *Profile) Classify(name, focus string) Fit {
	if p == nil {
		return Maybe
	}

	text := strings.ToLower(name + " " + focus)
	if containsAny(text, p.Avoid) {
		return Avoid
	}
	if containsAny(text, p.GoodFit) {
		return GoodFit
	}

	return Maybe
}

// IsEmpty reports whether the profile has no keywords at all.
func (p *Profile) IsEmpty() bool {
	return p == nil || (len(p.GoodFit) == 0 && len(p.Avoid) == 0)
}

func splitKeywords(value string) []string {
	var out []string
	for _, kw := range strings.Split(value, ",") {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
