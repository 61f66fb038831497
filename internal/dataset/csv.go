package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

type csvLoader struct{}

func (csvLoader) CanLoad(source string) bool {
	if isURL(source) {
		return true
	}
	switch sourceExt(source) {
	case ".csv", ".tsv", ".txt", ".data":
		return true
	}
	return false
}

func (csvLoader) Load(ctx context.Context, source string, opt LoadOptions) (*Table, error) {
	rc, err := openSource(ctx, source, opt)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(source)
	}
	return ReadCSV(rc, TableName(source), delim, opt)
}

// ReadCSV reads delimited text into a typed Table.
func ReadCSV(r io.Reader, name string, delim rune, opt LoadOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header := opt.Names
	if len(header) == 0 {
		h, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: %s has no header row", ErrEmptyData, name)
			}
			return nil, fmt.Errorf("read header: %w", err)
		}
		header = append([]string(nil), h...)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		if len(rec) == 1 && rec[0] == "" {
			continue
		}
		if opt.MaxRows > 0 && len(rows) >= opt.MaxRows {
			opt.Logger.With("csv").Warnf("%s: processed only %d rows due to max rows", name, opt.MaxRows)
			break
		}
		rows = append(rows, rec)
	}
	opt.Logger.With("csv").Debugf("%s: read %d rows x %d columns", name, len(rows), len(header))
	return tableFromRows(name, header, rows, opt)
}

func sniffDelimiter(source string) rune {
	if sourceExt(source) == ".tsv" {
		return '\t'
	}
	return ','
}
