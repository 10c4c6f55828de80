// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import "retailetl/pkg/records"

// MapType maps a logical column kind into a Postgres SQL type.
//
//	int   -> BIGINT
//	float -> NUMERIC(18,2)
//	bool  -> BOOLEAN
//	time  -> TIMESTAMP
//	text  -> TEXT
func MapType(kind records.Kind) string {
	switch kind {
	case records.KindInt:
		return "BIGINT"
	case records.KindFloat:
		return "NUMERIC(18,2)"
	case records.KindBool:
		return "BOOLEAN"
	case records.KindTime:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}
