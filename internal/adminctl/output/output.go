package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sorenmh/homeservices-admin/internal/listview"
)

// Format represents an output format
type Format string

const (
	// FormatTable is the table output format
	FormatTable Format = "table"
	// FormatJSON is the JSON output format
	FormatJSON Format = "json"
	// FormatYAML is the YAML output format
	FormatYAML Format = "yaml"
)

// ParseFormat checks s against the known formats
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// Printer writes command output. Data goes to Out, errors and warnings to Err.
type Printer struct {
	Out    io.Writer
	Err    io.Writer
	Format Format
}

// New creates a Printer
func New(out, errOut io.Writer, format Format) *Printer {
	return &Printer{Out: out, Err: errOut, Format: format}
}

// Structured reports whether output is json or yaml
func (p *Printer) Structured() bool {
	return p.Format == FormatJSON || p.Format == FormatYAML
}

// Table prints data in table format
func (p *Printer) Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(p.Out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	w.Flush()
}

// Fields prints label/value pairs aligned, for detail views
func (p *Printer) Fields(pairs [][2]string) {
	w := tabwriter.NewWriter(p.Out, 0, 0, 2, ' ', 0)
	for _, kv := range pairs {
		fmt.Fprintf(w, "  %s:\t%s\n", kv[0], kv[1])
	}
	w.Flush()
}

// JSON prints data in JSON format
func (p *Printer) JSON(data any) error {
	encoder := json.NewEncoder(p.Out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// YAML prints data in YAML format
func (p *Printer) YAML(data any) error {
	encoder := yaml.NewEncoder(p.Out)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(data)
}

// Print prints data in the configured format
func (p *Printer) Print(data any, tableFunc func()) error {
	switch p.Format {
	case FormatJSON:
		return p.JSON(data)
	case FormatYAML:
		return p.YAML(data)
	case FormatTable, "":
		tableFunc()
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", p.Format)
	}
}

// Pagination prints the footer under a list, e.g.
//
//	Page 5 of 10 (97 total)  1 … 4 [5] 6 … 10
func (p *Printer) Pagination(pg listview.Pagination, total int) {
	if pg.Hidden() {
		return
	}
	links := make([]string, 0, len(pg.Pages))
	for _, l := range pg.Pages {
		switch {
		case l.Ellipsis:
			links = append(links, "…")
		case l.Current:
			links = append(links, "["+strconv.Itoa(l.Number)+"]")
		default:
			links = append(links, strconv.Itoa(l.Number))
		}
	}
	fmt.Fprintf(p.Out, "\nPage %d of %d (%d total)  %s\n", pg.Page, pg.TotalPages, total, strings.Join(links, " "))
}

// Success prints a success message
func (p *Printer) Success(message string) {
	fmt.Fprintf(p.Out, "✓ %s\n", message)
}

// Failure prints a failed action's message
func (p *Printer) Failure(message string) {
	p.Error(message)
}

// Error prints an error message
func (p *Printer) Error(message string) {
	fmt.Fprintf(p.Err, "Error: %s\n", message)
}

// Info prints an info message
func (p *Printer) Info(message string) {
	fmt.Fprintln(p.Out, message)
}

// Warn prints a warning message
func (p *Printer) Warn(message string) {
	fmt.Fprintf(p.Err, "Warning: %s\n", message)
}

// FormatTime formats a time for display
func FormatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// FormatTimeAgo formats a time as "X ago"
func FormatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		return plural(int(duration.Minutes()), "minute") + " ago"
	case duration < 24*time.Hour:
		return plural(int(duration.Hours()), "hour") + " ago"
	default:
		return plural(int(duration.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Money formats an amount in rupees
func Money(v float64) string {
	return "₹" + strconv.FormatFloat(v, 'f', 2, 64)
}

// Percent formats a nullable percentage
func Percent(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "%"
}

// Truncate shortens s to n characters for table cells
func Truncate(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// OrDash returns "-" for empty cells
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
