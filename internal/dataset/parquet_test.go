package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildArrowTable(t *testing.T) arrow.Table {
	t.Helper()
	mem := memory.NewGoAllocator()
	tsType := &arrow.TimestampType{Unit: arrow.Millisecond, TimeZone: "UTC"}
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "reading", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "sensor", Type: arrow.BinaryTypes.String},
		{Name: "at", Type: tsType},
	}, nil)

	fb := array.NewFloat64Builder(mem)
	defer fb.Release()
	fb.AppendValues([]float64{1.5, 0, 2.5}, []bool{true, false, true})

	sb := array.NewStringBuilder(mem)
	defer sb.Release()
	sb.AppendValues([]string{"s1", "s2", "s1"}, nil)

	tb := array.NewTimestampBuilder(mem, tsType)
	defer tb.Release()
	for d := 1; d <= 3; d++ {
		tb.Append(arrow.Timestamp(day(d).UnixMilli()))
	}

	arrs := []arrow.Array{fb.NewArray(), sb.NewArray(), tb.NewArray()}
	cols := make([]arrow.Column, len(arrs))
	for i, a := range arrs {
		chunked := arrow.NewChunked(a.DataType(), []arrow.Array{a})
		cols[i] = *arrow.NewColumn(schema.Field(i), chunked)
		chunked.Release()
		a.Release()
	}
	return array.NewTable(schema, cols, 3)
}

func TestFromArrow(t *testing.T) {
	tbl := buildArrowTable(t)
	defer tbl.Release()

	out, err := FromArrow("readings", tbl, 0)
	require.NoError(t, err)
	reading, _ := out.Column("reading")
	assert.Equal(t, []any{1.5, nil, 2.5}, reading.Values)
	assert.Equal(t, KindNumeric, reading.Type)

	at, _ := out.Column("at")
	assert.Equal(t, KindDatetime, at.Type)
	assert.True(t, at.Values[2].(time.Time).Equal(day(3)))

	limited, err := FromArrow("readings", tbl, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, limited.NumRows())
}

func TestFromArrowAllNullColumnsKeepSchemaKind(t *testing.T) {
	mem := memory.NewGoAllocator()
	tsType := &arrow.TimestampType{Unit: arrow.Second}
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "count", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "seen", Type: tsType, Nullable: true},
		{Name: "flag", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
	}, nil)

	ib := array.NewInt64Builder(mem)
	defer ib.Release()
	tb := array.NewTimestampBuilder(mem, tsType)
	defer tb.Release()
	bb := array.NewBooleanBuilder(mem)
	defer bb.Release()
	for i := 0; i < 2; i++ {
		ib.AppendNull()
		tb.AppendNull()
		bb.AppendNull()
	}

	arrs := []arrow.Array{ib.NewArray(), tb.NewArray(), bb.NewArray()}
	cols := make([]arrow.Column, len(arrs))
	for i, a := range arrs {
		chunked := arrow.NewChunked(a.DataType(), []arrow.Array{a})
		cols[i] = *arrow.NewColumn(schema.Field(i), chunked)
		chunked.Release()
		a.Release()
	}
	tbl := array.NewTable(schema, cols, 2)
	defer tbl.Release()

	out, err := FromArrow("empty", tbl, 0)
	require.NoError(t, err)
	count, _ := out.Column("count")
	assert.Equal(t, KindNumeric, count.Type)
	assert.Equal(t, []any{nil, nil}, count.Values)
	seen, _ := out.Column("seen")
	assert.Equal(t, KindDatetime, seen.Type)
	flag, _ := out.Column("flag")
	assert.Equal(t, KindCategorical, flag.Type)
}

func TestLoadParquet(t *testing.T) {
	tbl := buildArrowTable(t)
	defer tbl.Release()

	p := filepath.Join(t.TempDir(), "readings.parquet")
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, pqarrow.WriteTable(tbl, f, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))
	require.NoError(t, f.Close())

	out, err := Load(context.Background(), p, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "readings", out.Name)
	assert.Equal(t, []string{"reading", "sensor", "at"}, out.ColumnNames())
	sensor, _ := out.Column("sensor")
	assert.Equal(t, KindCategorical, sensor.Type)
	at, _ := out.Column("at")
	assert.Equal(t, KindDatetime, at.Type)
}
