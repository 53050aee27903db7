package bank

import (
	"fmt"
	"sort"
	"strings"
)

// Field names a logical column in a bank CSV export.
type Field string

const (
	FieldAccountNumber Field = "acc_num"
	FieldDate          Field = "date"
	FieldCheckNumber   Field = "check_num"
	FieldDescription   Field = "desc"
	FieldAmount        Field = "amount"
)

// requiredFields lists every field a Definition must map.
var requiredFields = []Field{
	FieldAccountNumber,
	FieldDate,
	FieldCheckNumber,
	FieldDescription,
	FieldAmount,
}

// Definition describes one bank's CSV dialect and column layout.
// A field may span several source columns (RBC splits the description in two).
type Definition struct {
	Name       string
	Encoding   string // IANA charset name, empty = UTF-8
	Delimiter  rune
	Quote      rune
	DateLayout string // Go reference-time layout
	Columns    map[Field][]int
}

// MissingColumnError reports a bank definition that omits a required field.
type MissingColumnError struct {
	Field Field
	Bank  string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q is not defined for bank %q", e.Field, e.Bank)
}

// Validate checks that every required field has at least one column index and
// that the dialect is one encoding/csv can read. It runs once at resolution
// time, never per row.
func (d Definition) Validate() error {
	for _, f := range requiredFields {
		if len(d.Columns[f]) == 0 {
			return &MissingColumnError{Field: f, Bank: d.Name}
		}
	}
	if d.Quote != 0 && d.Quote != '"' {
		return fmt.Errorf("bank %q: unsupported quote character %q", d.Name, d.Quote)
	}
	if d.DateLayout == "" {
		return fmt.Errorf("bank %q: missing date layout", d.Name)
	}
	return nil
}

// Registry holds named bank definitions.
type Registry struct {
	banks map[string]Definition
}

// NewRegistry creates an empty bank registry.
func NewRegistry() *Registry {
	return &Registry{banks: make(map[string]Definition)}
}

// Register adds a definition. Panics on duplicate name.
func (r *Registry) Register(d Definition) {
	key := strings.ToLower(d.Name)
	if _, ok := r.banks[key]; ok {
		panic("duplicate bank definition: " + key)
	}
	r.banks[key] = d
}

// Get returns the definition for name, case-insensitively.
func (r *Registry) Get(name string) (Definition, bool) {
	d, ok := r.banks[strings.ToLower(name)]
	return d, ok
}

// Names returns the registered bank names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.banks))
	for _, d := range r.banks {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in banks.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(RBC())
	return r
}

// RBC returns the definition for Royal Bank of Canada checking exports.
func RBC() Definition {
	return Definition{
		Name:       "RBC",
		Encoding:   "ISO-8859-1",
		Delimiter:  ',',
		Quote:      '"',
		DateLayout: "1/2/2006",
		Columns: map[Field][]int{
			FieldAccountNumber: {1},
			FieldDate:          {2},
			FieldCheckNumber:   {3},
			FieldDescription:   {4, 5},
			FieldAmount:        {6},
		},
	}
}
