package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"retailetl/pkg/records"
)

// KindForDatabaseType maps a driver type name (as reported by
// sql.ColumnType.DatabaseTypeName or a pgtype name) to a records.Kind.
// Length and precision suffixes are ignored: "DECIMAL(10,2)" is DECIMAL.
func KindForDatabaseType(name string) records.Kind {
	n := strings.ToUpper(strings.TrimSpace(name))
	if i := strings.IndexByte(n, '('); i >= 0 {
		n = strings.TrimSpace(n[:i])
	}
	n = strings.TrimPrefix(n, "UNSIGNED ")

	switch n {
	case "INT", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "MEDIUMINT",
		"INT2", "INT4", "INT8", "SERIAL", "BIGSERIAL":
		return records.KindInt
	case "DECIMAL", "NUMERIC", "FLOAT", "REAL", "DOUBLE", "DOUBLE PRECISION",
		"MONEY", "SMALLMONEY", "FLOAT4", "FLOAT8":
		return records.KindFloat
	case "BIT", "BOOL", "BOOLEAN":
		return records.KindBool
	case "DATE", "DATETIME", "DATETIME2", "SMALLDATETIME", "DATETIMEOFFSET",
		"TIMESTAMP", "TIMESTAMPTZ":
		return records.KindTime
	default:
		return records.KindText
	}
}

// ScanRows drains rows into a records.Table named name. Every value is
// normalized with records.NormalizeValue against the column's kind. rows is
// not closed; the caller owns it.
func ScanRows(rows *sql.Rows, name string) (*records.Table, error) {
	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("column types: %w", err)
	}

	names := make([]string, len(cols))
	kinds := make([]records.Kind, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
		kinds[i] = KindForDatabaseType(c.DatabaseTypeName())
	}
	t := records.NewTable(name, names, kinds)

	dest := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", t.Len()+1, err)
		}
		r := make(records.Record, len(cols))
		for i, c := range names {
			r[c] = records.NormalizeValue(dest[i], kinds[i])
			dest[i] = nil
		}
		t.Rows = append(t.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return t, nil
}
