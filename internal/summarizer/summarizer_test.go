package summarizer

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/summarizer-cli/internal/dataset"
	"github.com/KaramelBytes/summarizer-cli/internal/export"
	"github.com/KaramelBytes/summarizer-cli/internal/logging"
	"github.com/KaramelBytes/summarizer-cli/internal/summary"
)

func day(d int) time.Time { return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC) }

func scenarioTable() *dataset.Table {
	return dataset.NewTable("scenario",
		dataset.NewColumn("A", 1, 2, 3, 0, 5),
		dataset.NewColumn("B", 1, 1, 1, 1, 1),
		dataset.NewColumn("C", "a", "b", "a", "a", "c"),
		dataset.NewColumn("D", day(1), day(2), day(3), day(4), day(5)),
	)
}

func newQuiet(t *testing.T, tbl *dataset.Table, opts ...Option) *Summarizer {
	t.Helper()
	opts = append([]Option{WithOutput(&bytes.Buffer{}), WithLogger(logging.New(logging.LevelError, &bytes.Buffer{}))}, opts...)
	s, err := New(tbl, opts...)
	require.NoError(t, err)
	return s
}

func TestNewRejectsBadTables(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = New(dataset.NewTable("empty"))
	assert.ErrorIs(t, err, ErrEmptyData)

	_, err = New(dataset.NewTable("no rows", dataset.NewColumn("A")))
	assert.ErrorIs(t, err, ErrEmptyData)

	_, err = New(dataset.NewTable("dup", dataset.NewColumn("A", 1), dataset.NewColumn("A", 2)))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestScenario(t *testing.T) {
	s := newQuiet(t, scenarioTable())

	sum, err := s.GenerateSummary()
	require.NoError(t, err)
	require.Len(t, sum.Columns, 4)
	assert.Equal(t, []string{"A", "B", "C", "D"}, []string{
		sum.Columns[0].Column, sum.Columns[1].Column, sum.Columns[2].Column, sum.Columns[3].Column,
	})

	minA, _ := sum.Get("A", summary.Min).Float()
	maxA, _ := sum.Get("A", summary.Max).Float()
	meanA, _ := sum.Get("A", summary.Mean).Float()
	assert.Equal(t, 0.0, minA)
	assert.Equal(t, 5.0, maxA)
	assert.InDelta(t, 2.2, meanA, 1e-12)

	meanB, _ := sum.Get("B", summary.Mean).Float()
	varB, _ := sum.Get("B", summary.Variance).Float()
	assert.Equal(t, 1.0, meanB)
	assert.Equal(t, 0.0, varB)

	assert.Equal(t, 3, sum.Get("C", summary.UniqueValues).Raw())
	assert.False(t, sum.Get("C", summary.Mean).Applicable())
	assert.False(t, sum.Get("C", summary.Min).Applicable())
	assert.Equal(t, "a", sum.Get("C", summary.Mode).Raw())

	kind, ok := sum.Get("D", summary.DataType).Kind()
	require.True(t, ok)
	assert.Equal(t, dataset.KindDatetime, kind)
	minD, _ := sum.Get("D", summary.Min).Time()
	maxD, _ := sum.Get("D", summary.Max).Time()
	assert.True(t, minD.Equal(day(1)))
	assert.True(t, maxD.Equal(day(5)))
	rng, ok := sum.Get("D", summary.DateRange).Duration()
	require.True(t, ok)
	assert.Equal(t, 4*24*time.Hour, rng)

	assert.False(t, sum.Columns[0].Has(summary.DateRange))
	assert.True(t, sum.Columns[3].Has(summary.DateRange))
	assert.Equal(t, summary.DateRange, sum.Fields()[len(sum.Fields())-1])
}

func TestAccessors(t *testing.T) {
	s := newQuiet(t, scenarioTable())

	k, err := s.DataType("C")
	require.NoError(t, err)
	assert.Equal(t, dataset.KindCategorical, k)

	median, err := s.Median("A")
	require.NoError(t, err)
	assert.Equal(t, 2.0, median)

	zp, err := s.ZeroPercent("A")
	require.NoError(t, err)
	assert.Equal(t, 20.0, zp)

	iqr, err := s.IQR("A")
	require.NoError(t, err)
	assert.Equal(t, 2.0, iqr)

	sd, err := s.StdDev("A")
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(3.7), sd, 1e-12)

	cv, err := s.CoefficientOfVariation("A")
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(3.7)/2.2, cv, 1e-12)

	cvB, err := s.CoefficientOfVariation("B")
	require.NoError(t, err)
	assert.Equal(t, 0.0, cvB)

	mode, err := s.Mode("A")
	require.NoError(t, err)
	assert.Equal(t, 0, mode.Raw(), "ties resolve to the smallest value")

	u, err := s.UniqueValues("B")
	require.NoError(t, err)
	assert.Equal(t, 1, u)
}

func TestGuards(t *testing.T) {
	s := newQuiet(t, scenarioTable())

	_, err := s.Mean("missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)
	_, err = s.DataType("missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)
	_, err = s.Mode("missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = s.Mean("C")
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = s.Variance("D")
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = s.DateRange("A")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	minC, err := s.Min("C")
	require.NoError(t, err)
	assert.False(t, minC.Applicable())
}

func TestMinLessOrEqualMax(t *testing.T) {
	tbl := scenarioTable()
	tbl.Columns = append(tbl.Columns, dataset.NewColumn("F", -3.5, nil, 7.25, math.NaN(), 0.0))
	s := newQuiet(t, tbl)
	for _, name := range []string{"A", "B", "F"} {
		lo, err := s.Min(name)
		require.NoError(t, err)
		hi, err := s.Max(name)
		require.NoError(t, err)
		a, _ := lo.Float()
		b, _ := hi.Float()
		assert.LessOrEqual(t, a, b, name)
	}
	lo, _ := s.Min("D")
	hi, _ := s.Max("D")
	a, _ := lo.Time()
	b, _ := hi.Time()
	assert.False(t, b.Before(a))

	rng, err := s.DateRange("D")
	require.NoError(t, err)
	assert.Equal(t, b.Sub(a), rng)
}

func TestGenerateSummaryIdempotent(t *testing.T) {
	tbl := scenarioTable()
	tbl.Columns = append(tbl.Columns, dataset.NewColumn("G", 1.5, nil, 2.5, 2.5, 1.0))
	s := newQuiet(t, tbl)

	first, err := s.GenerateSummary()
	require.NoError(t, err)
	second, err := s.GenerateSummary()
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestDivisionByZeroAbortsByDefault(t *testing.T) {
	tbl := scenarioTable()
	tbl.Columns = append(tbl.Columns, dataset.NewColumn("Z", 0, 0, 0, 0, 0))
	s := newQuiet(t, tbl)

	_, err := s.CoefficientOfVariation("Z")
	assert.ErrorIs(t, err, ErrDivisionByZero)

	sum, err := s.GenerateSummary()
	require.Error(t, err)
	assert.Nil(t, sum)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	var colErr *ColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, "Z", colErr.Column)
	assert.Equal(t, summary.CoeffOfVariation, colErr.Stat)
	assert.Contains(t, err.Error(), `column "Z"`)
}

func TestCollectErrorsKeepsOtherColumns(t *testing.T) {
	tbl := scenarioTable()
	tbl.Columns = append(tbl.Columns, dataset.NewColumn("Z", 0, 0, 0, 0, 0))
	s := newQuiet(t, tbl, WithCollectErrors(true))

	sum, err := s.GenerateSummary()
	require.NoError(t, err)
	require.Len(t, sum.Columns, 5)
	require.Len(t, sum.Errors(), 1)
	assert.ErrorIs(t, sum.Errors()[0], ErrDivisionByZero)

	z, ok := sum.Lookup("Z")
	require.True(t, ok)
	require.Error(t, z.Err)
	assert.True(t, z.Get(summary.DataType).Applicable())
	assert.False(t, z.Get(summary.Mean).Applicable())

	a, _ := sum.Lookup("A")
	assert.NoError(t, a.Err)
	assert.True(t, a.Get(summary.Mean).Applicable())
}

func TestEmptyColumnInRaggedTable(t *testing.T) {
	tbl := dataset.NewTable("ragged",
		dataset.NewColumn("A", 1, 2, 3),
		dataset.NewColumn("blank"),
		&dataset.Column{Name: "declared", Type: dataset.KindNumeric},
	)
	s := newQuiet(t, tbl)

	_, err := s.ZeroPercent("declared")
	assert.ErrorIs(t, err, ErrEmptyColumn)
	_, err = s.Mean("declared")
	assert.ErrorIs(t, err, ErrEmptyColumn)
	med, err := s.Median("declared")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(med))

	mode, err := s.Mode("blank")
	require.NoError(t, err)
	assert.True(t, mode.IsNone())
	u, err := s.UniqueValues("blank")
	require.NoError(t, err)
	assert.Equal(t, 0, u)

	_, err = s.GenerateSummary()
	assert.ErrorIs(t, err, ErrEmptyColumn)
	var colErr *ColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, "declared", colErr.Column)
}

func TestEmptyDatetimeColumnDateRangeIsNaT(t *testing.T) {
	tbl := dataset.NewTable("events",
		dataset.NewColumn("A", 1, 2, 3),
		&dataset.Column{Name: "when", Type: dataset.KindDatetime, Values: []any{nil, nil, nil}},
	)
	s := newQuiet(t, tbl)

	lo, err := s.Min("when")
	require.NoError(t, err)
	loT, ok := lo.Time()
	require.True(t, ok)
	assert.True(t, loT.IsZero())

	_, err = s.DateRange("when")
	assert.ErrorIs(t, err, ErrEmptyColumn)

	sum, err := s.GenerateSummary()
	require.NoError(t, err)
	when, ok := sum.Lookup("when")
	require.True(t, ok)
	rng := when.Get(summary.DateRange)
	assert.True(t, rng.Applicable())
	assert.True(t, rng.Equal(summary.NaT()))

	var buf bytes.Buffer
	require.NoError(t, export.Render(&buf, export.FormatMarkdown, sum, export.Meta{}, export.Options{}))
	assert.Contains(t, buf.String(), "| when | datetime | NaT | NaT | None | None | None | None | None | None | None | None | 0 | NaT |")
}

func TestExportSummary(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s := newQuiet(t, scenarioTable(), WithOutput(&out), WithClock(func() time.Time { return fixed }))

	base := filepath.Join(dir, "scenario_summary")
	for format, ext := range map[string]string{"markdown": ".md", "html": ".html", "spreadsheet": ".xlsx"} {
		path, err := s.ExportSummary(format, base, export.Options{})
		require.NoError(t, err, format)
		assert.Equal(t, base+ext, path)
		_, err = os.Stat(path)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "✓ Summary saved as "+path)
	}

	md, err := os.ReadFile(base + ".md")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(md), "| | Data Type |"))
	assert.Contains(t, string(md), "| D | datetime | 2020-01-01 | 2020-01-05 |")

	path, err := s.ExportSummary("md", filepath.Join(dir, "alias"), export.Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "alias.md"), path)
}

func TestExportSummaryUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	s := newQuiet(t, scenarioTable(), WithOutput(&out))

	_, err := s.ExportSummary("pdf", filepath.Join(dir, "x"), export.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "markdown")
	assert.Empty(t, out.String())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
