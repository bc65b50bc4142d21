package services

import (
	"encoding/json"
	"fmt"
	"strconv"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/desertthunder/lyrx/internal/records"
	"github.com/desertthunder/lyrx/internal/shared"
)

const (
	DefaultBaseURL   = "https://api.genius.com"
	DefaultUserAgent = "lyrx/0.3.0"
	DefaultPerPage   = 20
	MaxPerPage       = 50
)

// Text formats accepted by endpoints that return rich text.
const (
	FormatDOM   = "dom"
	FormatPlain = "plain"
	FormatHTML  = "html"
)

var textFormats = sets.New(FormatDOM, FormatPlain, FormatHTML)

// Document is the decoded "response" member of an API reply.
type Document map[string]any

// Object returns the nested object at key, or nil.
func (d Document) Object(key string) Document {
	if m, ok := d[key].(map[string]any); ok {
		return Document(m)
	}
	return nil
}

// List returns the array at key, or nil.
func (d Document) List(key string) []any {
	if l, ok := d[key].([]any); ok {
		return l
	}
	return nil
}

// Result pairs a document with its flattened record.
type Result struct {
	Document Document
	Record   records.Record
}

// MarshalJSON encodes the flattened record.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Record)
}

// Table wraps the record in a single-row table.
func (r Result) Table(schema records.Schema) records.Table {
	return records.Single(schema, r.Record)
}

func validateTextFormat(format string) error {
	if format == "" || textFormats.Has(format) {
		return nil
	}
	return fmt.Errorf("%w: text_format %q must be one of %v", shared.ErrInvalidArgument, format, sets.List(textFormats))
}

func requireID(name string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s", shared.ErrMissingParameter, name)
	}
	return nil
}

func clampPerPage(n int) int {
	switch {
	case n <= 0:
		return DefaultPerPage
	case n > MaxPerPage:
		return MaxPerPage
	default:
		return n
	}
}

// asInt64 converts a decoded JSON number (or numeric string) to int64.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case float64:
		return int64(n), n == float64(int64(n))
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

// nextPage reads the next_page cursor; nil means no further page.
func nextPage(doc Document) *int {
	n, ok := asInt64(doc["next_page"])
	if !ok {
		return nil
	}
	page := int(n)
	return &page
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
