// Package observability provides formatted console output for monitor reports.
package observability

import (
	"fmt"
	"io"
	"strings"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// ruleWidth is the width of the separator between CI sources
	ruleWidth = 98
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 50
)

// Printer handles formatted report output.
type Printer struct {
	out    io.Writer
	styles *Styles
}

// NewPrinter creates a Printer that writes plain text to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, styles: PlainStyles()}
}

// NewStyledPrinter creates a Printer that colors its output when color is set.
func NewStyledPrinter(out io.Writer, color bool) *Printer {
	if !color {
		return NewPrinter(out)
	}
	return &Printer{out: out, styles: ColorStyles()}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", padRight(p.styles.Header.Render(title), boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", padRight(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// Rule prints the separator line framing one CI source.
//
//nolint:errcheck
func (p *Printer) Rule() {
	fmt.Fprintln(p.out, p.styles.Muted.Render(strings.Repeat("-", ruleWidth)))
}

// Heading prints a section heading.
//
//nolint:errcheck
func (p *Printer) Heading(text string) {
	fmt.Fprintln(p.out, p.styles.Header.Render(text))
}

// Line prints an unstyled line.
//
//nolint:errcheck
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Blank prints an empty line.
//
//nolint:errcheck
func (p *Printer) Blank() {
	fmt.Fprintln(p.out)
}

// Success prints a line in the success style.
//
//nolint:errcheck
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, p.styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Warn prints a line in the warning style.
//
//nolint:errcheck
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.out, p.styles.Warn.Render(fmt.Sprintf(format, args...)))
}

// Error prints a line in the error style.
//
//nolint:errcheck
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.out, p.styles.Error.Render(fmt.Sprintf(format, args...)))
}

// Banner prints text framed by rows of asterisks.
//
//nolint:errcheck
func (p *Printer) Banner(text string) {
	stars := strings.Repeat("*", 33)
	fmt.Fprintln(p.out, stars)
	fmt.Fprintln(p.out, p.styles.Error.Render(text))
	fmt.Fprintln(p.out, stars)
}

// PrintJobHeader prints the numbered header of one job in a transcript.
//
//nolint:errcheck
func (p *Printer) PrintJobHeader(index int, jobID, link string) {
	fmt.Fprintf(p.out, "%s\n", p.styles.Header.Render(fmt.Sprintf("%d . Job ID:  %s", index, jobID)))
	fmt.Fprintf(p.out, "Job link: %s\n", link)
}

// PrintList prints a titled list of items, eliding past the display limit.
//
//nolint:errcheck
func (p *Printer) PrintList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(p.out, title)
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintln(p.out, items[i])
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintln(p.out, p.styles.Muted.Render(fmt.Sprintf("... and %d more", len(items)-maxItemsToShow)))
	}
}

// PrintTotals outputs the batch counters of one CI source.
func (p *Printer) PrintTotals(source string, deploys, e2e, considered int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d/%d deploys succeeded\n", deploys, considered))
	sb.WriteString(fmt.Sprintf("%d/%d e2e tests succeeded", e2e, considered))
	p.printBox(strings.ToUpper(source), sb.String())
}

// PrintTable outputs rows under headers with columns padded to fit.
//
//nolint:errcheck
func (p *Printer) PrintTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], len(row[i]))
		}
	}

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = padRight(h, widths[i])
	}
	fmt.Fprintln(p.out, p.styles.Header.Render(strings.TrimRight(strings.Join(cells, "  "), " ")))

	for _, row := range rows {
		cells = cells[:0]
		for i := range widths {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			cells = append(cells, padRight(value, widths[i]))
		}
		fmt.Fprintln(p.out, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}
