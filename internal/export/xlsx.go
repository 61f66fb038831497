package export

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/summarizer-cli/internal/dataset"
	"github.com/KaramelBytes/summarizer-cli/internal/summary"
)

type spreadsheetRenderer struct{}

func (spreadsheetRenderer) Format() Format    { return FormatSpreadsheet }
func (spreadsheetRenderer) Extension() string { return ".xlsx" }

// Render writes a single-sheet workbook. Numbers, times and durations are
// stored as native cells; NaN and not-applicable cells as text.
func (spreadsheetRenderer) Render(w io.Writer, s *summary.Summary, meta Meta, opts Options) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	so := opts.Spreadsheet
	sheet := so.SheetName
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("sheet name %q: %w", sheet, err)
		}
	}

	head := header(s)
	headRow := make([]any, len(head))
	for i, h := range head {
		headRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headRow); err != nil {
		return err
	}

	fields := s.Fields()
	for r, c := range s.Columns {
		row := make([]any, 0, len(fields)+1)
		row = append(row, c.Column)
		for _, field := range fields {
			row = append(row, cellValue(c.Get(field), opts))
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(head))
	if err != nil {
		return err
	}
	if !so.PlainHeader {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", lastCol+"1", style); err != nil {
			return err
		}
	}
	if so.FreezeHeader {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			XSplit:      1,
			YSplit:      1,
			TopLeftCell: "B2",
			ActivePane:  "bottomRight",
		}); err != nil {
			return err
		}
	}
	if so.ColumnWidth > 0 {
		if err := f.SetColWidth(sheet, "A", lastCol, so.ColumnWidth); err != nil {
			return err
		}
	}

	props := &excelize.DocProperties{
		Title:      "Summary of " + meta.Source,
		Subject:    meta.Source,
		Identifier: meta.ReportID,
		Creator:    "summarizer",
	}
	if !meta.GeneratedAt.IsZero() {
		props.Created = meta.GeneratedAt.UTC().Format(time.RFC3339)
	}
	if err := f.SetDocProps(props); err != nil {
		return err
	}
	return f.Write(w)
}

func cellValue(v summary.Value, opts Options) any {
	if !v.Applicable() || v.IsNone() {
		return noneRep
	}
	switch x := v.Raw().(type) {
	case dataset.Kind:
		return x.String()
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return formatFloat(x, opts)
		}
		return x
	case time.Time:
		if x.IsZero() {
			return "NaT"
		}
		return x
	case time.Duration:
		return x
	case int, int64, string:
		return x
	}
	return formatAny(v.Raw(), opts)
}
