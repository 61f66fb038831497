package dataset

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type sqlLoader struct{}

func (sqlLoader) CanLoad(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// Load runs opt.Query against a PostgreSQL DSN and returns the result set as a table.
func (sqlLoader) Load(ctx context.Context, source string, opt LoadOptions) (*Table, error) {
	if strings.TrimSpace(opt.Query) == "" {
		return nil, fmt.Errorf("database source requires a query")
	}
	db, err := sqlx.ConnectContext(ctx, "postgres", source)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryxContext(ctx, opt.Query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("column types: %w", err)
	}
	dbTypes := make([]string, len(types))
	for i, ct := range types {
		dbTypes[i] = ct.DatabaseTypeName()
	}

	var records [][]any
	for rows.Next() {
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			opt.Logger.With("sql").Warnf("processed only %d rows due to max rows", opt.MaxRows)
			break
		}
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(records)+1, err)
		}
		records = append(records, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	opt.Logger.With("sql").Debugf("query returned %d rows x %d columns", len(records), len(names))
	return TableFromRecords("query", names, dbTypes, records, opt), nil
}

// TableFromRecords builds a table from scanned database rows. dbTypes holds
// the driver's type names; NUMERIC-like byte values are parsed as numbers.
func TableFromRecords(name string, names, dbTypes []string, records [][]any, opt LoadOptions) *Table {
	cols := make([]*Column, len(names))
	for j, n := range names {
		dbType := ""
		if j < len(dbTypes) {
			dbType = strings.ToUpper(dbTypes[j])
		}
		col := &Column{Name: n, Values: make([]any, len(records))}
		for i, rec := range records {
			if j < len(rec) {
				col.Values[i] = sqlValue(rec[j], dbType, opt)
			}
		}
		col.Type = Classify(col)
		cols[j] = col
	}
	return NewTable(name, cols...)
}

func sqlValue(v any, dbType string, opt LoadOptions) any {
	switch x := v.(type) {
	case []byte:
		s := string(x)
		switch dbType {
		case "NUMERIC", "DECIMAL", "MONEY":
			if f, ok := parseNumeric(strings.TrimPrefix(s, "$"), opt); ok {
				return f
			}
		}
		return s
	case time.Time:
		return x
	default:
		return v
	}
}
