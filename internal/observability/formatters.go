// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/javier/voice-cv/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// transcriptPreviewLen caps the transcript excerpt in verbose output
	transcriptPreviewLen = 200
)

// Printer handles formatted output for verbose mode
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

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintGateStatus outputs the payment gate state for the local token.
func (p *Printer) PrintGateStatus(record types.PaymentRecord) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("State:      %s\n", strings.ToUpper(string(record.State()))))
	sb.WriteString(fmt.Sprintf("Paid:       %t\n", record.Paid))
	sb.WriteString(fmt.Sprintf("Used:       %t\n", record.Used))
	sb.WriteString(fmt.Sprintf("Can record: %t", record.CanRecord))

	p.printBox("PAYMENT STATUS", sb.String())
}

// PrintTranscript outputs the captured transcript with a truncated preview.
func (p *Printer) PrintTranscript(transcript string) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Length: %d characters\n\n", len(transcript)))

	preview := transcript
	if len(preview) > transcriptPreviewLen {
		preview = preview[:transcriptPreviewLen-3] + "..."
	}
	sb.WriteString(preview)

	p.printBox("CAPTURED TRANSCRIPT", sb.String())
}

// PrintResume outputs a human-readable summary of the structured résumé.
func (p *Printer) PrintResume(resume *types.Resume) {
	if resume == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:   %s\n", resume.PersonalInfo.FullName))
	sb.WriteString(fmt.Sprintf("Email:  %s\n", resume.PersonalInfo.Email))
	sb.WriteString(fmt.Sprintf("Phone:  %s\n", resume.PersonalInfo.Phone))
	sb.WriteString("\n")

	if len(resume.Experience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(resume.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			exp := resume.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s — %s (%s)\n", exp.Position, exp.Company, exp.Duration))
		}
		if len(resume.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resume.Experience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(resume.Education) > 0 {
		sb.WriteString("Education:\n")
		count := min(len(resume.Education), 3)
		for i := 0; i < count; i++ {
			edu := resume.Education[i]
			sb.WriteString(fmt.Sprintf("  • %s — %s\n", edu.Degree, edu.Institution))
		}
		if len(resume.Education) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resume.Education)-3))
		}
		sb.WriteString("\n")
	}

	if len(resume.Skills) > 0 {
		skills := strings.Join(resume.Skills, ", ")
		if len(skills) > 2*(boxWidth-4) {
			skills = skills[:2*(boxWidth-4)-3] + "..."
		}
		sb.WriteString(fmt.Sprintf("Skills (%d): %s", len(resume.Skills), skills))
	}

	p.printBox("STRUCTURED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintConversionSource outputs which structuring path produced the résumé.
func (p *Printer) PrintConversionSource(source string) {
	p.printBox("STRUCTURING", fmt.Sprintf("Source: %s", source))
}

// PrintOutputFiles outputs the rendered artifact paths.
func (p *Printer) PrintOutputFiles(paths ...string) {
	existing := make([]string, 0, len(paths))
	for _, path := range paths {
		if path != "" {
			existing = append(existing, path)
		}
	}
	if len(existing) == 0 {
		return
	}

	var sb strings.Builder
	for i, path := range existing {
		sb.WriteString(fmt.Sprintf("  • %s", path))
		if i < len(existing)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("OUTPUT FILES", sb.String())
}
