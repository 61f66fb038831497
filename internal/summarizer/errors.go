package summarizer

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/summarizer-cli/internal/dataset"
	"github.com/KaramelBytes/summarizer-cli/internal/export"
	"github.com/KaramelBytes/summarizer-cli/internal/summary"
)

var (
	// ErrInvalidInput indicates the constructor did not receive a usable table.
	ErrInvalidInput = dataset.ErrInvalidInput
	// ErrEmptyData indicates a table with zero rows or zero columns.
	ErrEmptyData = dataset.ErrEmptyData
	// ErrUnsupportedFormat indicates an export format outside the supported set.
	ErrUnsupportedFormat = export.ErrUnsupportedFormat

	ErrUnknownColumn  = errors.New("unknown column")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrEmptyColumn    = errors.New("empty column")
	ErrDivisionByZero = errors.New("division by zero")
)

// ColumnError reports which column and statistic failed while building a summary.
type ColumnError struct {
	Column string
	Stat   summary.Stat
	Err    error
}

func (e *ColumnError) Error() string {
	if e.Stat != "" {
		return fmt.Sprintf("column %q: %s: %v", e.Column, e.Stat, e.Err)
	}
	return fmt.Sprintf("column %q: %v", e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }
