// Package ddl contains MSSQL-specific helpers for generating DDL.
package ddl

import "retailetl/pkg/records"

// MapType maps a logical column kind into a SQL Server column type.
//
// Text columns use NVARCHAR(255): dimension attributes are short and a
// bounded type keeps them indexable.
func MapType(kind records.Kind) string {
	switch kind {
	case records.KindInt:
		return "BIGINT"
	case records.KindFloat:
		return "DECIMAL(18, 2)"
	case records.KindBool:
		return "BIT"
	case records.KindTime:
		return "DATETIME2"
	default:
		return "NVARCHAR(255)"
	}
}
