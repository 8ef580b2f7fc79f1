package listing

import (
	"regexp"
	"sort"
	"strings"

	"github.com/spigell/shortlist/internal/utils"
)

// LinksMarker separates the pasted list from the pasted career links.
const LinksMarker = "--- LINKS ---"

var (
	linksMarkerRe  = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(LinksMarker))
	withFocusRe    = regexp.MustCompile(`^\s*\d+[.)]\s*(.+?)\s*-\s*(.+?)\s*\(\s*([^)]+)\s*\)`)
	withoutFocusRe = regexp.MustCompile(`^\s*\d+[.)]\s*(.+?)\s*\(\s*([^)]+)\s*\)`)
	linkRe         = regexp.MustCompile(`(?i)^\s*\d+[.)]\s*(.+?)\s*-\s*(https?://\S+)`)
	incSuffixRe    = regexp.MustCompile(`,?\s+inc\.?$`)
)

// Paste is the pasted text split into its two sections.
type Paste struct {
	Listings string
	Links    string
	HasLinks bool
}

// SplitSections splits content at the first case-insensitive links marker.
// A divider ("---") left in the list section drops everything above it.
func SplitSections(content string) Paste {
	p := Paste{Listings: content}

	if loc := linksMarkerRe.FindStringIndex(content); loc != nil {
		p.Listings = content[:loc[0]]
		p.Links = content[loc[1]:]
		p.HasLinks = true
	}

	if _, after, found := strings.Cut(p.Listings, "---"); found {
		p.Listings = after
	}

	return p
}

// ParseListings extracts listings from numbered lines. Lines that match
// neither "N) Name - Focus (Location)" nor "N) Name (Location)" are dropped.
func ParseListings(text string) []*Listing {
	var rows []*Listing

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "PASTE") || strings.HasPrefix(line, "(") || strings.HasPrefix(line, "-") {
			continue
		}

		if m := withFocusRe.FindStringSubmatch(line); m != nil {
			rows = append(rows, &Listing{
				CompanyName: strings.TrimSpace(m[1]),
				Focus:       strings.TrimSpace(m[2]),
				Locations:   strings.TrimSpace(m[3]),
			})
			continue
		}

		if m := withoutFocusRe.FindStringSubmatch(line); m != nil {
			rows = append(rows, &Listing{
				CompanyName: strings.TrimSpace(m[1]),
				Locations:   strings.TrimSpace(m[2]),
			})
		}
	}

	return rows
}

// ParseLinks maps normalized company names to career URLs from "N) Name - URL" lines.
func ParseLinks(text string) map[string]string {
	links := make(map[string]string)

	for _, line := range strings.Split(text, "\n") {
		m := linkRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		links[utils.NormalizeName(m[1])] = strings.TrimSpace(m[2])
	}

	return links
}

// AttachLinks fills CareerURL for listings whose name matches a link entry
// exactly or after stripping a trailing "Inc" suffix. It returns the number of matches.
func AttachLinks(items []*Listing, links map[string]string) int {
	if len(links) == 0 {
		return 0
	}

	stripped := make(map[string]string, len(links))
	keys := make([]string, 0, len(links))
	for k := range links {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sk := stripInc(k)
		if _, ok := stripped[sk]; !ok || sk == k {
			stripped[sk] = links[k]
		}
	}

	matched := 0
	for _, item := range items {
		key := utils.NormalizeName(item.CompanyName)

		url, ok := links[key]
		if !ok {
			url, ok = stripped[stripInc(key)]
		}
		if ok {
			item.CareerURL = url
			matched++
		}
	}

	return matched
}

func stripInc(name string) string {
	return strings.TrimSpace(incSuffixRe.ReplaceAllString(name, ""))
}
