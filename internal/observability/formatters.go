// Package observability provides formatted output utilities for the text mode of the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/smartmatch/internal/matching"
	"github.com/jonathan/smartmatch/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxNoteLength bounds the match notes shown per recommendation
	maxNoteLength = 45
)

// Printer handles formatted output for text mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintProfile outputs the candidate profile a recommendation was computed for.
func (p *Printer) PrintProfile(profile matching.Profile) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Domain:          %s\n", profile.Domain))
	sb.WriteString(fmt.Sprintf("CGPA:            %.2f\n", profile.GPA))
	sb.WriteString(fmt.Sprintf("Experience:      %.1f years\n", profile.ExperienceYears))
	sb.WriteString(fmt.Sprintf("Certifications:  %.0f", profile.CertificationCount))
	p.printBox("CANDIDATE PROFILE", sb.String())
}

// PrintRecommendations outputs the ranked recommendations with their score
// breakdown. An empty result prints the response message instead.
func (p *Printer) PrintRecommendations(resp *types.RecommendationResponse) {
	if resp == nil {
		return
	}

	if len(resp.Recommendations) == 0 {
		msg := resp.Message
		if msg == "" {
			msg = types.MessageNoMatches
		}
		p.printBox("RECOMMENDATIONS", msg)
		return
	}

	var sb strings.Builder
	for i, r := range resp.Recommendations {
		sb.WriteString(fmt.Sprintf("%d. %s @ %s\n", i+1, r.Title, r.CompanyName))
		sb.WriteString(fmt.Sprintf("   Total: %.2f\n", r.TotalScore))
		sb.WriteString(fmt.Sprintf("   domain %.2f  cgpa %.2f  exp %.2f  cert %.2f\n",
			r.DomainScore, r.CGPAScore, r.ExperienceScore, r.CertificationsScore))
		if r.ApplicationDeadline != nil {
			sb.WriteString(fmt.Sprintf("   Deadline: %s\n", *r.ApplicationDeadline))
		}
		if r.MatchNotes != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", truncate(r.MatchNotes, maxNoteLength)))
		}
		if i < len(resp.Recommendations)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("RECOMMENDATIONS (%d)", resp.Count), strings.TrimSuffix(sb.String(), "\n"))
}
