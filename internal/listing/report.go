package listing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spigell/shortlist/internal/profile"
)

// CSVHeader lists the CSV columns in output order.
var CSVHeader = []string{"company_name", "career_url", "locations", "focus", "fit"}

// Summary carries the counts shown at the top of the report.
type Summary struct {
	Total           int
	LocationMatched int
	ProfileName     string
	HasLinks        bool
}

// RenderReport renders the plain-text shortlist.
func RenderReport(s Summary, items []*Listing) string {
	profileName := s.ProfileName
	if profileName == "" {
		profileName = "profile"
	}

	lines := []string{
		"YOUR SHORT LIST - remote/Panama + realistic for your profile",
		strings.Repeat("=", 60),
		fmt.Sprintf("From %d companies -> %d remote/Panama -> %d for you", s.Total, s.LocationMatched, len(items)),
		"",
		"HOW THE ANALYSIS WORKS:",
		"  1) Location: kept only if locations mention 'remote' or 'Panama'.",
		fmt.Sprintf("  2) Fit: your profile (%s) has good-fit and avoid keywords.", profileName),
		"     GOOD FIT = company/focus matches your target roles (AI, LLM, dev tools, etc.).",
		"     maybe = neutral. avoid = not shown (saves you time).",
		"",
		strings.Repeat("-", 60),
		"",
	}

	for _, item := range items {
		label := "maybe"
		if item.Fit == profile.GoodFit {
			label = "GOOD FIT"
		}

		lines = append(lines, fmt.Sprintf("  [%s] %s", label, item.CompanyName))
		lines = append(lines, "      "+item.Locations)
		if item.Focus != "" {
			lines = append(lines, "      "+item.Focus)
		}
		if item.CareerURL != "" {
			lines = append(lines, "      APPLY: "+item.CareerURL)
		} else {
			lines = append(lines, `      APPLY: Search LinkedIn or Google "`+item.CompanyName+` careers"`)
		}
		lines = append(lines, "")
	}

	if !s.HasLinks && len(items) > 0 {
		lines = append(lines, fmt.Sprintf("Tip: Paste the comment with career page links below %q in the paste file and run again to get direct APPLY links.", LinksMarker))
	}

	return strings.Join(lines, "\n")
}

// WriteCSV writes listings with a header row.
func WriteCSV(w io.Writer, items []*Listing) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for _, item := range items {
		row := []string{item.CompanyName, item.CareerURL, item.Locations, item.Focus, string(item.Fit)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
