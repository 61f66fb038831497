package dataset

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(source string) bool {
	return sourceExt(source) == ".xlsx"
}

// Load reads the selected sheet; the first row is the header unless opt.Names is set.
func (xlsxLoader) Load(ctx context.Context, source string, opt LoadOptions) (*Table, error) {
	b, err := readAllSource(ctx, source, opt)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := selectSheet(f.GetSheetList(), opt.SheetName, opt.SheetIndex, sourceBase(source))
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	opt.Logger.With("xlsx").Debugf("%s: sheet %q has %d rows", sourceBase(source), sheet, len(rows))

	header := opt.Names
	if len(header) == 0 {
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: sheet %q has no header row", ErrEmptyData, sheet)
		}
		header, rows = rows[0], rows[1:]
	}
	if opt.MaxRows > 0 && len(rows) > opt.MaxRows {
		opt.Logger.With("xlsx").Warnf("%s: processed only %d/%d rows due to max rows", sourceBase(source), opt.MaxRows, len(rows))
		rows = rows[:opt.MaxRows]
	}
	return tableFromRows(TableName(source), header, rows, opt)
}

// selectSheet resolves a sheet by case-insensitive name or 1-based index.
func selectSheet(sheets []string, name string, index int, file string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w: workbook %q has no sheets", ErrEmptyData, file)
	}
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, name) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			name, file, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		index = 1
	}
	if index > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range: workbook '%s' has %d sheets", index, file, len(sheets))
	}
	return sheets[index-1], nil
}
