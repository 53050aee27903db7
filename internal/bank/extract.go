package bank

import (
	"fmt"
	"strings"
	"time"
)

// DateFormatError reports a date cell that does not parse under the bank's
// configured layout.
type DateFormatError struct {
	Value  string
	Layout string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("date %q does not match layout %q", e.Value, e.Layout)
}

// Extractor pulls logical fields out of raw CSV rows for one bank.
type Extractor struct {
	def Definition
}

// NewExtractor validates the definition and returns an Extractor for it.
func NewExtractor(def Definition) (*Extractor, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{def: def}, nil
}

// Definition returns the bank definition this extractor was built from.
func (e *Extractor) Definition() Definition {
	return e.def
}

// Extract returns the value of a logical field in row. Multi-column fields
// join their non-empty cells in index order with a single space. Columns
// beyond the end of the row read as empty.
func (e *Extractor) Extract(row []string, field Field) string {
	cols := e.def.Columns[field]
	if len(cols) == 1 {
		return cell(row, cols[0])
	}
	parts := make([]string, 0, len(cols))
	for _, idx := range cols {
		if v := cell(row, idx); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// Date extracts and parses the date field using the bank's layout.
func (e *Extractor) Date(row []string) (time.Time, error) {
	raw := e.Extract(row, FieldDate)
	t, err := time.Parse(e.def.DateLayout, raw)
	if err != nil {
		return time.Time{}, &DateFormatError{Value: raw, Layout: e.def.DateLayout}
	}
	return t, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
