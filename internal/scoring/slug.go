package scoring

import (
	"regexp"
	"strings"
)

// PrioritySource tags entries of the exported priority list.
const PrioritySource = "yc"

var (
	nonSlugRe    = regexp.MustCompile(`[^a-z0-9\-\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// PriorityEntry is one company in the exported priority list.
type PriorityEntry struct {
	CompanyName string `json:"company_name"`
	Source      string `json:"source"`
}

// Slugify lowercases name, turns everything except letters, digits and
// hyphens into separators and joins the words with single hyphens.
// When nothing is left the lowercased name is returned.
func Slugify(name string) string {
	if name == "" {
		return ""
	}

	s := strings.TrimSpace(strings.ToLower(name))
	s = nonSlugRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), "-")
	s = strings.Trim(s, "-")

	if s == "" {
		return strings.ToLower(name)
	}
	return s
}

// PriorityList slugifies names, skipping those that produce an empty slug.
func PriorityList(names []string) []PriorityEntry {
	out := make([]PriorityEntry, 0, len(names))
	for _, name := range names {
		slug := Slugify(name)
		if slug == "" {
			continue
		}
		out = append(out, PriorityEntry{CompanyName: slug, Source: PrioritySource})
	}
	return out
}
