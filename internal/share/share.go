// Package share renders ingest records as a personal shortlist and as a
// block ready to paste into a social post.
package share

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/spigell/shortlist/internal/directory"
)

const (
	ShortlistHeading = "YOUR SHORTLIST (from YC AI Assistant, LATAM remote / worldwide)"
	CopyIntro        = "This week's YC AI Assistant companies I'm watching (LATAM remote / worldwide, hiring):"
	Hashtags         = "#AI #YC #RemoteJobs #AIProduct #BuildingInPublic"
	CopyBegin        = "--- COPY BELOW FOR LINKEDIN ---"
	CopyEnd          = "--- END COPY ---"
)

// Renderer writes both output blocks. Heading colors section titles and
// may be nil.
type Renderer struct {
	Heading *color.Color
}

func NewRenderer() *Renderer {
	return &Renderer{Heading: color.New(color.FgCyan, color.Bold)}
}

// Take returns the first n records, or all of them when n <= 0.
func Take(records []*directory.Record, n int) []*directory.Record {
	if n <= 0 || n >= len(records) {
		return records
	}
	return records[:n]
}

// Shortlist writes the console shortlist with scores and hiring flags.
func (r *Renderer) Shortlist(w io.Writer, records []*directory.Record) error {
	var b strings.Builder

	b.WriteString(r.heading(ShortlistHeading) + "\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")

	for i, rec := range records {
		hiring := ""
		if rec.IsHiring {
			hiring = " hiring"
		}
		marker := ""
		if rec.New {
			marker = " [new]"
		}

		fmt.Fprintf(&b, "  %d. %s (%d pts%s)%s\n", i+1, rec.Name, rec.Score, hiring, marker)
		fmt.Fprintf(&b, "     %s\n", rec.OneLiner)
		fmt.Fprintf(&b, "     %s\n", rec.Website)
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("-", 50) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// CopyBlock writes the paste-ready block. It carries no scores or flags.
func (r *Renderer) CopyBlock(w io.Writer, records []*directory.Record) error {
	var b strings.Builder

	b.WriteString("\n" + r.heading(CopyBegin) + "\n\n")
	b.WriteString(CopyIntro + "\n\n")

	for i, rec := range records {
		fmt.Fprintf(&b, "%d. %s – %s\n", i+1, rec.Name, rec.OneLiner)
		if rec.Website != "" {
			fmt.Fprintf(&b, "   %s\n", rec.Website)
		}
		b.WriteString("\n")
	}

	b.WriteString(Hashtags + "\n")
	b.WriteString("\n" + r.heading(CopyEnd) + "\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) heading(s string) string {
	if r == nil || r.Heading == nil {
		return s
	}
	return r.Heading.Sprint(s)
}
