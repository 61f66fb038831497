package summarizer

import (
	"fmt"

	"github.com/KaramelBytes/summarizer-cli/internal/dataset"
	"github.com/KaramelBytes/summarizer-cli/internal/export"
	"github.com/KaramelBytes/summarizer-cli/internal/summary"
	"github.com/google/uuid"
)

// Summary aliases the shared summary table type.
type Summary = summary.Summary

// GenerateSummary computes a column summary for every column in table order.
// By default the first failing column aborts the call with a *ColumnError.
func (s *Summarizer) GenerateSummary() (*Summary, error) {
	if s.table.NumCols() == 0 || s.table.NumRows() == 0 {
		return nil, fmt.Errorf("%w: the table has no rows or columns", ErrEmptyData)
	}
	out := &Summary{Table: s.table.Name, Columns: make([]summary.ColumnSummary, 0, s.table.NumCols())}
	for _, c := range s.table.Columns {
		cs, err := s.summarizeColumn(c)
		if err != nil {
			if !s.collectErrors {
				return nil, err
			}
			s.log.Warnf("column %q: %v", c.Name, err)
			cs.Err = err
		}
		out.Columns = append(out.Columns, cs)
	}
	s.log.Debugf("summarized %d columns of %q", len(out.Columns), s.table.Name)
	return out, nil
}

// summarizeColumn builds one column summary. On failure the returned summary
// carries only the data type.
func (s *Summarizer) summarizeColumn(c *dataset.Column) (summary.ColumnSummary, error) {
	name := c.Name
	kind := s.kinds[name]
	cs := summary.NewColumnSummary(name, kind)
	cs.Set(summary.DataType, summary.Of(kind))

	fail := func(stat summary.Stat, err error) (summary.ColumnSummary, error) {
		failed := summary.NewColumnSummary(name, kind)
		failed.Set(summary.DataType, summary.Of(kind))
		return failed, &ColumnError{Column: name, Stat: stat, Err: err}
	}
	setValue := func(stat summary.Stat, get func(string) (summary.Value, error)) error {
		v, err := get(name)
		if err != nil {
			return err
		}
		cs.Set(stat, v)
		return nil
	}
	setFloat := func(stat summary.Stat, get func(string) (float64, error)) error {
		f, err := get(name)
		if err != nil {
			return err
		}
		cs.Set(stat, summary.Of(f))
		return nil
	}

	if kind == dataset.KindNumeric || kind == dataset.KindDatetime {
		if err := setValue(summary.Min, s.Min); err != nil {
			return fail(summary.Min, err)
		}
		if err := setValue(summary.Max, s.Max); err != nil {
			return fail(summary.Max, err)
		}
	}
	if kind == dataset.KindNumeric {
		numeric := []struct {
			stat summary.Stat
			get  func(string) (float64, error)
		}{
			{summary.Mean, s.Mean},
			{summary.Median, s.Median},
			{summary.ZeroPercent, s.ZeroPercent},
			{summary.Variance, s.Variance},
			{summary.StdDev, s.StdDev},
			{summary.IQR, s.IQR},
			{summary.CoeffOfVariation, s.CoefficientOfVariation},
		}
		for _, n := range numeric {
			if err := setFloat(n.stat, n.get); err != nil {
				return fail(n.stat, err)
			}
		}
	}
	if err := setValue(summary.Mode, s.Mode); err != nil {
		return fail(summary.Mode, err)
	}
	unique, err := s.UniqueValues(name)
	if err != nil {
		return fail(summary.UniqueValues, err)
	}
	cs.Set(summary.UniqueValues, summary.Of(unique))

	if kind == dataset.KindDatetime {
		if len(dataset.Times(c)) == 0 {
			cs.Set(summary.DateRange, summary.NaT())
			return cs, nil
		}
		d, err := s.DateRange(name)
		if err != nil {
			return fail(summary.DateRange, err)
		}
		cs.Set(summary.DateRange, summary.Of(d))
	}
	return cs, nil
}

// ExportSummary generates the summary and writes it as {fileName}.{ext}.
// It prints a confirmation line and returns the written path.
func (s *Summarizer) ExportSummary(format, fileName string, opts export.Options) (string, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return "", err
	}
	sum, err := s.GenerateSummary()
	if err != nil {
		return "", err
	}
	meta := export.Meta{
		ReportID:    uuid.NewString(),
		Source:      s.table.Name,
		GeneratedAt: s.now(),
	}
	path, err := export.WriteFile(f, fileName, sum, meta, opts)
	if err != nil {
		return "", err
	}
	s.log.Infof("report %s written to %s", meta.ReportID, path)
	fmt.Fprintf(s.out, "✓ Summary saved as %s\n", path)
	return path, nil
}
