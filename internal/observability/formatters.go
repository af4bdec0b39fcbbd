// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/mapping"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
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

// PrintMapping outputs the detected column mapping with confidence scores.
func (p *Printer) PrintMapping(fieldMapping types.FieldMapping, confidence types.ConfidenceMap) {
	if len(fieldMapping) == 0 {
		return
	}

	fields := make([]types.Field, 0, len(fieldMapping))
	for field := range fieldMapping {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })

	var sb strings.Builder
	for _, field := range fields {
		display := string(field)
		if fc, ok := mapping.ConfigFor(field); ok {
			display = fc.Display
		}
		sb.WriteString(fmt.Sprintf("%-16s <- %q", display, fieldMapping[field]))
		if score, ok := confidence[field]; ok {
			sb.WriteString(fmt.Sprintf("  (%.0f%%)", score*100))
		}
		sb.WriteString("\n")
	}

	p.printBox("DETECTED COLUMNS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs validation errors and warnings grouped by kind.
func (p *Printer) PrintValidation(errors []types.ValidationError, warnings []types.ValidationWarning) {
	if len(errors) == 0 && len(warnings) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Errors: %d   Warnings: %d\n", len(errors), len(warnings)))

	if len(errors) > 0 {
		sb.WriteString("\n")
		count := min(len(errors), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := errors[i]
			sb.WriteString(fmt.Sprintf("  row %d [%s] %s\n", e.Row+1, e.Column, e.Message))
		}
		if len(errors) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more errors\n", len(errors)-maxItemsToShow))
		}
	}

	if len(warnings) > 0 {
		sb.WriteString("\n")
		count := min(len(warnings), maxItemsToShow)
		for i := 0; i < count; i++ {
			w := warnings[i]
			sb.WriteString(fmt.Sprintf("  row %d [%s] %s\n", w.Row+1, w.Column, w.Message))
		}
		if len(warnings) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more warnings\n", len(warnings)-maxItemsToShow))
		}
	}

	p.printBox("VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDuplicateGroups outputs detected duplicate groups with their
// recommended resolutions.
func (p *Printer) PrintDuplicateGroups(groups []types.DuplicateGroup) {
	if len(groups) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Groups found: %d\n", len(groups)))

	count := min(len(groups), maxItemsToShow)
	for i := 0; i < count; i++ {
		g := groups[i]
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("#%d  %d records, confidence %.2f\n", i+1, len(g.Members), g.Confidence))
		for _, m := range g.Members {
			origin := "new"
			if m.Existing {
				origin = "existing"
			}
			sb.WriteString(fmt.Sprintf("    - %s / %s (%s)\n", m.Application.Company, m.Application.Position, origin))
		}
		sb.WriteString(fmt.Sprintf("    Suggested: %s\n", g.Resolution))
	}
	if len(groups) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more groups\n", len(groups)-maxItemsToShow))
	}

	p.printBox("POSSIBLE DUPLICATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs the final import summary.
func (p *Printer) PrintSummary(summary types.ImportSummary) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total rows:       %d\n", summary.TotalRows))
	sb.WriteString(fmt.Sprintf("Imported:         %d\n", summary.SuccessfulRows))
	sb.WriteString(fmt.Sprintf("Skipped:          %d\n", summary.SkippedRows))
	sb.WriteString(fmt.Sprintf("Duplicates found: %d\n", summary.DuplicatesFound))

	if len(summary.Suggestions) > 0 {
		sb.WriteString("\n")
		for _, s := range summary.Suggestions {
			sb.WriteString(fmt.Sprintf("  • %s\n", s))
		}
	}

	p.printBox("IMPORT SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgress writes a single-line progress update.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(event types.ImportProgress) {
	fmt.Fprintf(p.out, "[%3d%%] %-12s %s\n", event.Progress, event.Stage, event.Message)
}
