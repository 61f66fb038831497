package dataset

import (
	"bytes"
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

type parquetLoader struct{}

func (parquetLoader) CanLoad(source string) bool {
	return sourceExt(source) == ".parquet"
}

func (parquetLoader) Load(ctx context.Context, source string, opt LoadOptions) (*Table, error) {
	b, err := readAllSource(ctx, source, opt)
	if err != nil {
		return nil, err
	}
	pf, err := file.NewParquetReader(bytes.NewReader(b), file.WithReadProps(parquet.NewReaderProperties(memory.DefaultAllocator)))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}
	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	defer tbl.Release()
	opt.Logger.With("parquet").Debugf("%s: %d rows, %d columns", sourceBase(source), tbl.NumRows(), tbl.NumCols())
	return FromArrow(TableName(source), tbl, opt.MaxRows)
}

// FromArrow copies an arrow table into a Table. maxRows <= 0 reads everything.
func FromArrow(name string, tbl arrow.Table, maxRows int) (*Table, error) {
	cols := make([]*Column, 0, tbl.NumCols())
	for i := 0; i < int(tbl.NumCols()); i++ {
		ac := tbl.Column(i)
		col := &Column{Name: ac.Name()}
	chunks:
		for _, chunk := range ac.Data().Chunks() {
			for pos := 0; pos < chunk.Len(); pos++ {
				if maxRows > 0 && len(col.Values) >= maxRows {
					break chunks
				}
				v, err := arrowValue(chunk, pos)
				if err != nil {
					return nil, fmt.Errorf("column %q: %w", ac.Name(), err)
				}
				col.Values = append(col.Values, v)
			}
		}
		if col.Type = arrowKind(ac.DataType()); col.Type == KindUnknown {
			col.Type = Classify(col)
		}
		cols = append(cols, col)
	}
	return NewTable(name, cols...), nil
}

// arrowKind maps a typed arrow column to its kind, so all-null columns keep
// their schema type. Other types are inferred from values.
func arrowKind(dt arrow.DataType) Kind {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT32, arrow.FLOAT64:
		return KindNumeric
	case arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP:
		return KindDatetime
	case arrow.STRING, arrow.LARGE_STRING, arrow.BINARY:
		return KindCategorical
	}
	return KindUnknown
}

// arrowValue converts one arrow cell to a Go value. Unsupported types are
// rendered as text, which classifies the column as categorical.
func arrowValue(col arrow.Array, pos int) (any, error) {
	if col.IsNull(pos) {
		return nil, nil
	}
	switch a := col.(type) {
	case *array.Int8:
		return int64(a.Value(pos)), nil
	case *array.Int16:
		return int64(a.Value(pos)), nil
	case *array.Int32:
		return int64(a.Value(pos)), nil
	case *array.Int64:
		return a.Value(pos), nil
	case *array.Uint8:
		return uint64(a.Value(pos)), nil
	case *array.Uint16:
		return uint64(a.Value(pos)), nil
	case *array.Uint32:
		return uint64(a.Value(pos)), nil
	case *array.Uint64:
		return a.Value(pos), nil
	case *array.Float32:
		return float64(a.Value(pos)), nil
	case *array.Float64:
		return a.Value(pos), nil
	case *array.Boolean:
		return a.Value(pos), nil
	case *array.String:
		return a.Value(pos), nil
	case *array.LargeString:
		return a.Value(pos), nil
	case *array.Binary:
		return string(a.Value(pos)), nil
	case *array.Date32:
		return a.Value(pos).ToTime(), nil
	case *array.Date64:
		return a.Value(pos).ToTime(), nil
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(pos).ToTime(unit), nil
	default:
		return col.ValueStr(pos), nil
	}
}
