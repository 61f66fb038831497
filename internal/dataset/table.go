package dataset

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidInput indicates the value passed as a table is not a usable table.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyData indicates a table with zero rows or zero columns.
	ErrEmptyData = errors.New("empty data")
)

// Kind is the classification assigned to a column.
type Kind int

const (
	// KindUnknown on a declared column type means "infer from values".
	KindUnknown Kind = iota
	KindNumeric
	KindDatetime
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindDatetime:
		return "datetime"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// ParseKind maps a kind name back to a Kind. Unrecognized names yield KindUnknown.
func ParseKind(s string) Kind {
	switch s {
	case "numeric":
		return KindNumeric
	case "datetime":
		return KindDatetime
	case "categorical":
		return KindCategorical
	default:
		return KindUnknown
	}
}

// Column is a named sequence of nullable values.
type Column struct {
	Name string
	// Type is the declared kind; KindUnknown means Classify inspects Values.
	Type   Kind
	Values []any
}

// NewColumn builds a column with an inferred type.
func NewColumn(name string, values ...any) *Column {
	return &Column{Name: name, Values: values}
}

// Len returns the total number of values, nulls included.
func (c *Column) Len() int { return len(c.Values) }

// NonNull returns the column's values with nulls removed, in order.
func (c *Column) NonNull() []any {
	out := make([]any, 0, len(c.Values))
	for _, v := range c.Values {
		if !IsNull(v) {
			out = append(out, v)
		}
	}
	return out
}

// Table is an ordered collection of named columns. Callers must not mutate a
// table while a summarizer holds it.
type Table struct {
	Name    string
	Columns []*Column
}

// NewTable builds a table from columns in order.
func NewTable(name string, cols ...*Column) *Table {
	return &Table{Name: name, Columns: cols}
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.Columns) }

// NumRows returns the length of the longest column.
func (t *Table) NumRows() int {
	n := 0
	for _, c := range t.Columns {
		if c != nil && c.Len() > n {
			n = c.Len()
		}
	}
	return n
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ColumnNames returns column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Validate checks the table shape. Ragged tables are accepted.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: expected a table, got nil", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for i, c := range t.Columns {
		if c == nil {
			return fmt.Errorf("%w: column %d is nil", ErrInvalidInput, i)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: duplicate column name %q", ErrInvalidInput, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	if t.NumCols() == 0 || t.NumRows() == 0 {
		return fmt.Errorf("%w: the table is empty (%d rows, %d columns)", ErrEmptyData, t.NumRows(), t.NumCols())
	}
	return nil
}

// IsNull reports whether v is a missing value: nil, a NaN float or a zero time.
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	case time.Time:
		return x.IsZero()
	}
	return false
}

// AsFloat converts Go integer and float kinds to float64. Booleans are not numeric.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

// Classify returns the column's kind. A declared type wins; otherwise all
// non-null values numeric means Numeric, all time.Time means Datetime, and
// anything else (text, bool, mixed, all-null) is Categorical.
func Classify(c *Column) Kind {
	if c.Type != KindUnknown {
		return c.Type
	}
	numeric, datetime, seen := true, true, false
	for _, v := range c.Values {
		if IsNull(v) {
			continue
		}
		seen = true
		if _, ok := AsFloat(v); !ok {
			numeric = false
		}
		if _, ok := v.(time.Time); !ok {
			datetime = false
		}
		if !numeric && !datetime {
			break
		}
	}
	switch {
	case !seen:
		return KindCategorical
	case numeric:
		return KindNumeric
	case datetime:
		return KindDatetime
	default:
		return KindCategorical
	}
}

// Floats returns the non-null numeric values of c.
func Floats(c *Column) []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.NonNull() {
		if f, ok := AsFloat(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// Times returns the non-null time values of c.
func Times(c *Column) []time.Time {
	out := make([]time.Time, 0, len(c.Values))
	for _, v := range c.NonNull() {
		if t, ok := v.(time.Time); ok {
			out = append(out, t)
		}
	}
	return out
}
