// Package listing parses pasted numbered company lists and renders the filtered shortlist.
package listing

import (
	"strings"

	"github.com/spigell/shortlist/internal/profile"
)

// Listing is one company parsed from the pasted list.
type Listing struct {
	CompanyName string      `json:"company_name"`
	CareerURL   string      `json:"career_url"`
	Locations   string      `json:"locations"`
	Focus       string      `json:"focus"`
	Fit         profile.Fit `json:"fit"`
}

// MatchesLocation reports whether the locations text mentions remote work or Panama.
func MatchesLocation(locations string) bool {
	loc := strings.ToLower(strings.TrimSpace(locations))
	if loc == "" {
		return false
	}

	return strings.Contains(loc, "remote") || strings.Contains(loc, "panama")
}
