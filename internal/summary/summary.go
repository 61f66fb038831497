// Package summary holds the derived per-column statistics table shared by the
// summarizer and the exporters.
package summary

import (
	"math"
	"reflect"
	"time"

	"github.com/KaramelBytes/summarizer-cli/internal/dataset"
)

// Stat names a summary field.
type Stat string

const (
	DataType         Stat = "Data Type"
	Min              Stat = "Min"
	Max              Stat = "Max"
	Mean             Stat = "Mean"
	Median           Stat = "Median"
	Mode             Stat = "Mode"
	ZeroPercent      Stat = "Zero %"
	Variance         Stat = "Variance"
	StdDev           Stat = "Std Dev"
	IQR              Stat = "IQR"
	CoeffOfVariation Stat = "Coeff. of Variation"
	UniqueValues     Stat = "Unique Values"
	DateRange        Stat = "Date Range"
)

// BaseStats are present as fields on every column summary, in display order.
var BaseStats = []Stat{
	DataType, Min, Max, Mean, Median, Mode, ZeroPercent,
	Variance, StdDev, IQR, CoeffOfVariation, UniqueValues,
}

// Value is a computed statistic or the NotApplicable marker. A computed NaN
// is applicable; so is the mode's "none" result (a nil value).
type Value struct {
	v          any
	applicable bool
}

// NotApplicable marks a statistic that does not apply to a column's kind.
var NotApplicable = Value{}

// Of wraps a computed value.
func Of(v any) Value { return Value{v: v, applicable: true} }

// None is the applicable "no value" result, e.g. the mode of an empty column.
func None() Value { return Value{applicable: true} }

// NaT is the applicable "not a time" result, e.g. the date range of a
// datetime column with no values. It renders like a missing timestamp.
func NaT() Value { return Of(time.Time{}) }

func (v Value) Applicable() bool { return v.applicable }
func (v Value) IsNone() bool     { return v.applicable && v.v == nil }
func (v Value) Raw() any         { return v.v }

// Float returns numeric values as float64.
func (v Value) Float() (float64, bool) {
	if !v.applicable {
		return 0, false
	}
	return dataset.AsFloat(v.v)
}

func (v Value) Time() (time.Time, bool) {
	t, ok := v.v.(time.Time)
	return t, ok && v.applicable
}

func (v Value) Duration() (time.Duration, bool) {
	d, ok := v.v.(time.Duration)
	return d, ok && v.applicable
}

func (v Value) Kind() (dataset.Kind, bool) {
	k, ok := v.v.(dataset.Kind)
	return k, ok && v.applicable
}

// Equal compares two values, treating NaN as equal to NaN.
func (v Value) Equal(o Value) bool {
	if v.applicable != o.applicable {
		return false
	}
	if a, ok := v.v.(float64); ok {
		if b, ok := o.v.(float64); ok {
			return a == b || (math.IsNaN(a) && math.IsNaN(b))
		}
		return false
	}
	if a, ok := v.v.(time.Time); ok {
		b, ok := o.v.(time.Time)
		return ok && a.Equal(b)
	}
	return reflect.DeepEqual(v.v, o.v)
}

// ColumnSummary maps statistic names to values for one source column.
type ColumnSummary struct {
	Column string
	Kind   dataset.Kind
	// Err is set when the column failed and failures are collected instead of aborting.
	Err    error
	values map[Stat]Value
}

// NewColumnSummary starts a summary for a column with every base stat NotApplicable.
func NewColumnSummary(column string, kind dataset.Kind) ColumnSummary {
	values := make(map[Stat]Value, len(BaseStats)+1)
	for _, s := range BaseStats {
		values[s] = NotApplicable
	}
	return ColumnSummary{Column: column, Kind: kind, values: values}
}

// Set records a statistic.
func (c *ColumnSummary) Set(s Stat, v Value) {
	if c.values == nil {
		c.values = make(map[Stat]Value)
	}
	c.values[s] = v
}

// Get returns the statistic or NotApplicable.
func (c ColumnSummary) Get(s Stat) Value { return c.values[s] }

// Has reports whether s is a field of this summary. Date Range is a field only for datetime columns.
func (c ColumnSummary) Has(s Stat) bool {
	_, ok := c.values[s]
	return ok
}

func (c ColumnSummary) Equal(o ColumnSummary) bool {
	if c.Column != o.Column || c.Kind != o.Kind || (c.Err == nil) != (o.Err == nil) {
		return false
	}
	if len(c.values) != len(o.values) {
		return false
	}
	for k, v := range c.values {
		ov, ok := o.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Summary is the ordered summary table: one row per source column.
type Summary struct {
	Table   string
	Columns []ColumnSummary
}

// Lookup finds a column summary by source column name.
func (s *Summary) Lookup(column string) (ColumnSummary, bool) {
	for _, c := range s.Columns {
		if c.Column == column {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

// Get returns one cell of the summary table.
func (s *Summary) Get(column string, stat Stat) Value {
	c, ok := s.Lookup(column)
	if !ok {
		return NotApplicable
	}
	return c.Get(stat)
}

// Fields returns the header: the base stats, plus Date Range when any column carries it.
func (s *Summary) Fields() []Stat {
	fields := append([]Stat(nil), BaseStats...)
	for _, c := range s.Columns {
		if _, ok := c.values[DateRange]; ok {
			return append(fields, DateRange)
		}
	}
	return fields
}

// Errors returns the collected per-column failures, if any.
func (s *Summary) Errors() []error {
	var errs []error
	for _, c := range s.Columns {
		if c.Err != nil {
			errs = append(errs, c.Err)
		}
	}
	return errs
}

// Equal compares two summaries cell by cell.
func (s *Summary) Equal(o *Summary) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Table != o.Table || len(s.Columns) != len(o.Columns) {
		return false
	}
	for i := range s.Columns {
		if !s.Columns[i].Equal(o.Columns[i]) {
			return false
		}
	}
	return true
}
