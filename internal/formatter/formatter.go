// package formatter renders projected tables as CSV, Markdown, aligned text, JSON or YAML
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/desertthunder/lyrx/internal/records"
	"github.com/desertthunder/lyrx/internal/shared"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// NullText is how the sentinel null is printed in text tables.
const NullText = "NA"

// maxCellWidth bounds text table cells; longer values are truncated with an ellipsis.
const maxCellWidth = 60

var formats = sets.New(FormatCSV, FormatMarkdown, FormatText, FormatJSON, FormatYAML)

// ParseFormat validates a format name. "markdown", "text" and "yml" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "markdown":
		f = FormatMarkdown
	case "text":
		f = FormatText
	case "yml":
		f = FormatYAML
	}

	if !formats.Has(f) {
		return "", fmt.Errorf("%w: format %q must be one of %v", shared.ErrInvalidFlag, s, sets.List(formats))
	}
	return f, nil
}

// Extension returns the file extension for f.
func (f Format) Extension() string { return "." + string(f) }

// Export renders a table in the given format. The title is used by Markdown only.
func Export(t records.Table, f Format, title string) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(t)
	case FormatMarkdown:
		return ExportToMarkdown(t, title, "")
	case FormatText:
		return ExportToText(t)
	case FormatJSON:
		return ExportToJSON(t, true)
	case FormatYAML:
		return ExportToYAML(t)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// ExportToCSV writes the column names followed by one line per row. Nulls become empty cells.
func ExportToCSV(t records.Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.Columns()); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range t.Rows {
		if err := writer.Write(cells(row, "")); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a titled pipe table with an optional cover image
func ExportToMarkdown(t records.Table, title, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	if title != "" {
		buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	}
	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}
	buf.WriteString(fmt.Sprintf("**Rows**: %d\n\n", t.Len()))

	cols := t.Columns()
	buf.WriteString("| " + strings.Join(escapeAll(cols), " | ") + " |\n")
	buf.WriteString("|" + strings.Repeat(" --- |", len(cols)) + "\n")
	for _, row := range t.Rows {
		buf.WriteString("| " + strings.Join(escapeAll(cells(row, "")), " | ") + " |\n")
	}

	return buf.Bytes(), nil
}

// ExportToText renders an aligned plain-text table. Column widths account for wide runes.
func ExportToText(t records.Table) ([]byte, error) {
	cols := t.Columns()
	grid := make([][]string, 0, t.Len()+1)
	grid = append(grid, cols)
	for _, row := range t.Rows {
		line := cells(row, NullText)
		for i, c := range line {
			line[i] = runewidth.Truncate(strings.ReplaceAll(c, "\n", " "), maxCellWidth, "…")
		}
		grid = append(grid, line)
	}

	widths := make([]int, len(cols))
	for _, line := range grid {
		for i, c := range line {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	var buf bytes.Buffer
	for n, line := range grid {
		writeAligned(&buf, line, widths)
		if n == 0 {
			sep := make([]string, len(widths))
			for i, w := range widths {
				sep[i] = strings.Repeat("-", w)
			}
			writeAligned(&buf, sep, widths)
		}
	}

	return buf.Bytes(), nil
}

// ExportRecordText renders a single record as "field  value" lines.
func ExportRecordText(r records.Record) []byte {
	width := 0
	for _, f := range r.Fields() {
		width = max(width, runewidth.StringWidth(f))
	}

	var buf bytes.Buffer
	for i, f := range r.Fields() {
		buf.WriteString(runewidth.FillRight(f, width))
		buf.WriteString("  ")
		buf.WriteString(records.Format(r.Values()[i], NullText))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// ExportToJSON encodes the table as an array of objects in column order.
func ExportToJSON(t records.Table, pretty bool) ([]byte, error) {
	return shared.MarshalJSON(t, pretty)
}

// ExportToYAML encodes the table as a sequence of mappings in column order.
//
// JSON numbers are emitted as YAML ints or floats rather than strings.
func ExportToYAML(t records.Table) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range t.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, f := range row.Fields() {
			val, err := yamlValue(row.Values()[i])
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f, err)
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f}, val)
		}
		root.Content = append(root.Content, m)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func yamlValue(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(t.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: t.String()}, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(t); err != nil {
			return nil, err
		}
		return n, nil
	}
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidArgument)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// WriteExport renders t and writes it to path, defaulting to {name}{ext} in the working directory.
func WriteExport(t records.Table, f Format, path, name string) (string, error) {
	if path == "" {
		path = name + f.Extension()
	}

	data, err := Export(t, f, name)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport writes {dir}/README.md and, when imageURL is set, {dir}/cover.jpg.
//
// A failed cover download is logged to stderr and the export continues without it.
func WriteMarkdownExport(t records.Table, outputDir, title, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = slug(title)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(t, title, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

func cells(r records.Record, null string) []string {
	out := make([]string, r.Len())
	for i, v := range r.Values() {
		out[i] = records.Format(v, null)
	}
	return out
}

func escapeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		s = strings.ReplaceAll(s, "|", `\|`)
		out[i] = strings.ReplaceAll(s, "\n", "<br>")
	}
	return out
}

func writeAligned(buf *bytes.Buffer, line []string, widths []int) {
	for i, c := range line {
		if i > 0 {
			buf.WriteString("  ")
		}
		if i == len(line)-1 {
			buf.WriteString(c)
			continue
		}
		buf.WriteString(runewidth.FillRight(c, widths[i]))
	}
	buf.WriteByte('\n')
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "export"
	}
	return out
}
