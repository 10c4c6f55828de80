// Package ddl contains SQLite-specific helpers for generating DDL.
package ddl

import "retailetl/pkg/records"

// MapType maps a logical column kind into a SQLite column type.
//
// SQLite supports dynamic typing, so this mapping prefers canonical affinities:
//   - integer and boolean -> INTEGER (0/1 for booleans)
//   - float               -> REAL
//   - time                -> DATETIME, which the driver reads back as time.Time
//   - others              -> TEXT
func MapType(kind records.Kind) string {
	switch kind {
	case records.KindInt, records.KindBool:
		return "INTEGER"
	case records.KindFloat:
		return "REAL"
	case records.KindTime:
		return "DATETIME"
	default:
		return "TEXT"
	}
}
