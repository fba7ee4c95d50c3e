// Package export writes completed search results to a file.
//
// Three formats are supported: plain text (one path per line), JSON, and
// Markdown. Files are written atomically so a reader never sees a partial
// result list.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harrison/filefind/internal/filelock"
	"github.com/harrison/filefind/internal/search"
)

// Format identifies an export output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat parses a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatMarkdown:
		return Format(s), nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want text, json or markdown)", s)
	}
}

// Report is the payload of one export: what was searched, where, and what
// was found.
type Report struct {
	Target      string       `json:"target"`
	Roots       []string     `json:"roots"`
	Matches     []string     `json:"matches"`
	Stats       search.Stats `json:"stats"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// Write renders the report in the given format and writes it to path
// atomically.
func Write(path string, format Format, report Report) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatText:
		data = renderText(report)
	case FormatJSON:
		data, err = renderJSON(report)
	case FormatMarkdown:
		data = renderMarkdown(report)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}

	if err != nil {
		return err
	}

	return filelock.AtomicWrite(path, data)
}

func renderText(report Report) []byte {
	var buf bytes.Buffer

	for _, match := range report.Matches {
		buf.WriteString(match)
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

func renderJSON(report Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	return append(data, '\n'), nil
}

func renderMarkdown(report Report) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Search results for `%s`\n\n", report.Target)
	fmt.Fprintf(&buf, "- Generated: %s\n", report.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&buf, "- Roots: %d\n", len(report.Roots))

	for _, root := range report.Roots {
		fmt.Fprintf(&buf, "  - `%s`\n", root)
	}

	fmt.Fprintf(&buf, "- Directories expanded: %d\n", report.Stats.DirsExpanded)
	fmt.Fprintf(&buf, "- Listing errors: %d\n", report.Stats.ListErrors)
	fmt.Fprintf(&buf, "- Duration: %s\n\n", report.Stats.Duration)

	fmt.Fprintf(&buf, "## Matches (%d)\n\n", len(report.Matches))

	if len(report.Matches) == 0 {
		buf.WriteString("No matches found.\n")

		return buf.Bytes()
	}

	for _, match := range report.Matches {
		fmt.Fprintf(&buf, "- `%s`\n", match)
	}

	return buf.Bytes()
}
