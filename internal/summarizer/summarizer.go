// Package summarizer computes per-column descriptive statistics for a table
// and exports the resulting summary table.
package summarizer

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/KaramelBytes/summarizer-cli/internal/dataset"
	"github.com/KaramelBytes/summarizer-cli/internal/logging"
	"github.com/KaramelBytes/summarizer-cli/internal/stats"
	"github.com/KaramelBytes/summarizer-cli/internal/summary"
)

// Summarizer computes statistics over a table it does not own. The table
// must not be mutated while the summarizer is in use; results are undefined
// otherwise. Concurrent reads are safe under that condition.
type Summarizer struct {
	table         *dataset.Table
	kinds         map[string]dataset.Kind
	out           io.Writer
	log           *logging.Logger
	collectErrors bool
	now           func() time.Time
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithOutput sets where export confirmations are printed. Default: stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Summarizer) { s.out = w }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Summarizer) { s.log = l.With("summarizer") }
}

// WithCollectErrors makes GenerateSummary record per-column failures in
// ColumnSummary.Err instead of aborting on the first one.
func WithCollectErrors(collect bool) Option {
	return func(s *Summarizer) { s.collectErrors = collect }
}

// WithClock overrides the timestamp source used for export metadata.
func WithClock(now func() time.Time) Option {
	return func(s *Summarizer) { s.now = now }
}

// New validates t and classifies each column once.
func New(t *dataset.Table, opts ...Option) (*Summarizer, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	s := &Summarizer{
		table: t,
		kinds: make(map[string]dataset.Kind, t.NumCols()),
		out:   os.Stdout,
		log:   logging.Default().With("summarizer"),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, c := range t.Columns {
		s.kinds[c.Name] = dataset.Classify(c)
	}
	return s, nil
}

// Table returns the summarized table.
func (s *Summarizer) Table() *dataset.Table { return s.table }

func (s *Summarizer) requireColumnExists(name string) (*dataset.Column, error) {
	c, ok := s.table.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: column '%s' does not exist in the table", ErrUnknownColumn, name)
	}
	return c, nil
}

func (s *Summarizer) requireNumeric(name string) (*dataset.Column, error) {
	c, err := s.requireColumnExists(name)
	if err != nil {
		return nil, err
	}
	if k := s.kinds[name]; k != dataset.KindNumeric {
		return nil, fmt.Errorf("%w: column '%s' is not numeric (%s)", ErrTypeMismatch, name, k)
	}
	return c, nil
}

func (s *Summarizer) requireNonEmpty(c *dataset.Column) error {
	if c.Len() == 0 {
		return fmt.Errorf("%w: column '%s' is empty", ErrEmptyColumn, c.Name)
	}
	return nil
}

// DataType returns the column's classification.
func (s *Summarizer) DataType(name string) (dataset.Kind, error) {
	if _, err := s.requireColumnExists(name); err != nil {
		return dataset.KindUnknown, err
	}
	return s.kinds[name], nil
}

// Min returns the smallest non-null value of a numeric or datetime column,
// NotApplicable for categorical columns.
func (s *Summarizer) Min(name string) (summary.Value, error) {
	return s.extreme(name, stats.Min, func(a, b time.Time) bool { return a.Before(b) })
}

// Max returns the largest non-null value of a numeric or datetime column,
// NotApplicable for categorical columns.
func (s *Summarizer) Max(name string) (summary.Value, error) {
	return s.extreme(name, stats.Max, func(a, b time.Time) bool { return a.After(b) })
}

func (s *Summarizer) extreme(name string, num func([]float64) float64, better func(a, b time.Time) bool) (summary.Value, error) {
	c, err := s.requireColumnExists(name)
	if err != nil {
		return summary.NotApplicable, err
	}
	switch s.kinds[name] {
	case dataset.KindNumeric:
		return summary.Of(num(dataset.Floats(c))), nil
	case dataset.KindDatetime:
		var best time.Time
		for i, t := range dataset.Times(c) {
			if i == 0 || better(t, best) {
				best = t
			}
		}
		return summary.Of(best), nil
	}
	return summary.NotApplicable, nil
}

// Mean returns the arithmetic mean of the non-null values.
func (s *Summarizer) Mean(name string) (float64, error) {
	c, err := s.requireNumeric(name)
	if err != nil {
		return 0, err
	}
	if err := s.requireNonEmpty(c); err != nil {
		return 0, err
	}
	m, ok := stats.Mean(dataset.Floats(c))
	if !ok {
		return 0, fmt.Errorf("%w: column '%s' has no non-null values", ErrEmptyColumn, name)
	}
	return m, nil
}

// Median returns the 50th percentile.
func (s *Summarizer) Median(name string) (float64, error) {
	c, err := s.requireNumeric(name)
	if err != nil {
		return 0, err
	}
	return stats.Median(dataset.Floats(c)), nil
}

// Mode returns the most frequent non-null value of any column, or the none
// marker when the column has no values.
func (s *Summarizer) Mode(name string) (summary.Value, error) {
	c, err := s.requireColumnExists(name)
	if err != nil {
		return summary.NotApplicable, err
	}
	m, ok := stats.Mode(c.Values)
	if !ok {
		return summary.None(), nil
	}
	return summary.Of(m), nil
}

// ZeroPercent returns the share of values exactly equal to zero over all values, nulls included.
func (s *Summarizer) ZeroPercent(name string) (float64, error) {
	c, err := s.requireNumeric(name)
	if err != nil {
		return 0, err
	}
	if err := s.requireNonEmpty(c); err != nil {
		return 0, fmt.Errorf("cannot calculate zero percentage: %w", err)
	}
	pct, _ := stats.ZeroPercent(dataset.Floats(c), c.Len())
	return pct, nil
}

// Variance returns the sample variance.
func (s *Summarizer) Variance(name string) (float64, error) {
	c, err := s.requireNumeric(name)
	if err != nil {
		return 0, err
	}
	return stats.Variance(dataset.Floats(c)), nil
}

// StdDev returns the sample standard deviation.
func (s *Summarizer) StdDev(name string) (float64, error) {
	c, err := s.requireNumeric(name)
	if err != nil {
		return 0, err
	}
	return stats.StdDev(dataset.Floats(c)), nil
}

// IQR returns the interquartile range Q3 - Q1.
func (s *Summarizer) IQR(name string) (float64, error) {
	c, err := s.requireNumeric(name)
	if err != nil {
		return 0, err
	}
	return stats.IQR(dataset.Floats(c)), nil
}

// CoefficientOfVariation returns StdDev / Mean.
func (s *Summarizer) CoefficientOfVariation(name string) (float64, error) {
	mean, err := s.Mean(name)
	if err != nil {
		return 0, err
	}
	if mean == 0 {
		return 0, fmt.Errorf("%w: cannot calculate coefficient of variation: mean of column '%s' is 0", ErrDivisionByZero, name)
	}
	sd, err := s.StdDev(name)
	if err != nil {
		return 0, err
	}
	return sd / mean, nil
}

// UniqueValues counts distinct non-null values.
func (s *Summarizer) UniqueValues(name string) (int, error) {
	c, err := s.requireColumnExists(name)
	if err != nil {
		return 0, err
	}
	return stats.Unique(c.Values), nil
}

// DateRange returns Max - Min for a datetime column. A column with no
// non-null values has no range and yields ErrEmptyColumn; GenerateSummary
// records such a range as NaT instead.
func (s *Summarizer) DateRange(name string) (time.Duration, error) {
	c, err := s.requireColumnExists(name)
	if err != nil {
		return 0, err
	}
	if k := s.kinds[name]; k != dataset.KindDatetime {
		return 0, fmt.Errorf("%w: column '%s' is not datetime (%s)", ErrTypeMismatch, name, k)
	}
	if len(dataset.Times(c)) == 0 {
		return 0, fmt.Errorf("%w: column '%s' has no non-null values", ErrEmptyColumn, name)
	}
	lo, _ := s.Min(name)
	hi, _ := s.Max(name)
	minT, _ := lo.Time()
	maxT, _ := hi.Time()
	return maxT.Sub(minT), nil
}
