package directory

import (
	"strings"
)

// Company is one entry returned by the directory API.
type Company struct {
	Name            string   `json:"name"`
	Website         string   `json:"website"`
	AllLocations    string   `json:"all_locations"`
	OneLiner        string   `json:"one_liner"`
	Batch           string   `json:"batch"`
	Status          string   `json:"status"`
	IsHiring        bool     `json:"isHiring"`
	TeamSize        int      `json:"team_size"`
	Regions         []string `json:"regions"`
	Tags            []string `json:"tags"`
	LongDescription string   `json:"long_description"`
	ATS             string   `json:"ats"`
}

const StatusActive = "Active"

var (
	remoteRegions = map[string]bool{
		"Remote":        true,
		"Fully Remote":  true,
		"Partly Remote": true,
	}
	usOnlyRegions = map[string]bool{
		"United States of America": true,
		"America / Canada":         true,
	}
	latamRegionKeywords = []string{"latin america", "latam", "south america", "central america"}
)

// IsActive reports whether the company status is "Active".
func (c *Company) IsActive() bool {
	return c.Status == StatusActive
}

// IsRemoteFriendly reports whether any region is one of the remote markers.
func (c *Company) IsRemoteFriendly() bool {
	for _, r := range c.Regions {
		if remoteRegions[r] {
			return true
		}
	}
	return false
}

// IsInternational reports whether any region lies outside the US-only set.
func (c *Company) IsInternational() bool {
	for _, r := range c.Regions {
		if !usOnlyRegions[r] {
			return true
		}
	}
	return false
}

// IsLATAMFriendly reports whether any region mentions Latin America.
func (c *Company) IsLATAMFriendly() bool {
	for _, r := range c.Regions {
		lower := strings.ToLower(r)
		for _, kw := range latamRegionKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// SearchText is the lowercased text used for keyword scoring.
func (c *Company) SearchText() string {
	return strings.ToLower(strings.Join(c.Tags, " ") + " " + c.OneLiner + " " + c.LongDescription)
}
