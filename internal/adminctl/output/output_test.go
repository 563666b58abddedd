package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorenmh/homeservices-admin/internal/listview"
)

func newTestPrinter(format Format) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return New(&out, &errOut, format), &out, &errOut
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "json", "YAML"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestPrint(t *testing.T) {
	data := map[string]any{"name": "Plumbing"}

	p, out, _ := newTestPrinter(FormatJSON)
	require.NoError(t, p.Print(data, nil))
	assert.JSONEq(t, `{"name":"Plumbing"}`, out.String())

	p, out, _ = newTestPrinter(FormatYAML)
	require.NoError(t, p.Print(data, nil))
	assert.Equal(t, "name: Plumbing\n", out.String())

	p, out, _ = newTestPrinter(FormatTable)
	require.NoError(t, p.Print(data, func() {
		p.Table([]string{"NAME", "STATUS"}, [][]string{{"Plumbing", "active"}})
	}))
	assert.Equal(t, "NAME      STATUS\nPlumbing  active\n", out.String())
}

func TestPagination(t *testing.T) {
	p, out, _ := newTestPrinter(FormatTable)
	p.Pagination(listview.Paginate(40, 10, 97), 97)
	assert.Equal(t, "\nPage 5 of 10 (97 total)  1 … 4 [5] 6 … 10\n", out.String())

	p, out, _ = newTestPrinter(FormatTable)
	p.Pagination(listview.Paginate(0, 10, 0), 0)
	assert.Empty(t, out.String())
}

func TestMessages(t *testing.T) {
	p, out, errOut := newTestPrinter(FormatTable)
	p.Success("Category created successfully")
	p.Failure("Failed to create category")
	p.Warn("journal disabled")

	assert.Equal(t, "✓ Category created successfully\n", out.String())
	assert.Equal(t, "Error: Failed to create category\nWarning: journal disabled\n", errOut.String())
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "-", FormatTime(nil))
	assert.Equal(t, "just now", FormatTimeAgo(time.Now()))
	assert.Equal(t, "1 hour ago", FormatTimeAgo(time.Now().Add(-90*time.Minute)))
	assert.Equal(t, "3 days ago", FormatTimeAgo(time.Now().Add(-73*time.Hour)))

	assert.Equal(t, "₹590.00", Money(590))
	assert.Equal(t, "-", Percent(nil))
	d := 12.5
	assert.Equal(t, "12.5%", Percent(&d))

	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "a long…", Truncate("a   long\nmessage", 7))
	assert.Equal(t, "-", OrDash("  "))
}
