// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each backend, which register their
// factories and DDL bootstrappers with the storage package:
//
//   - "mssql"    (retailetl/internal/storage/mssql)
//   - "postgres" (retailetl/internal/storage/postgres)
//   - "sqlite"   (retailetl/internal/storage/sqlite)
//   - "mysql"    (retailetl/internal/storage/mysql)
//
// Typical usage (in cmd/etl/main.go):
//
//	import _ "retailetl/internal/storage/all"
//
//	src, err := storage.New(ctx, storage.Config{Kind: "mssql", Host: "localhost,1433", ...})
package all

import (
	_ "retailetl/internal/storage/mssql"
	_ "retailetl/internal/storage/mysql"
	_ "retailetl/internal/storage/postgres"
	_ "retailetl/internal/storage/sqlite"
)
