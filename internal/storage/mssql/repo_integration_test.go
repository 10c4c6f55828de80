//go:build integration

package mssql

import (
	"context"
	"os"
	"testing"
	"time"
)

// getTestDSN reads TEST_MSSQL_DSN; tests skip when it is empty.
func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_MSSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MSSQL_DSN not set; skipping MSSQL integration tests")
	}
	return dsn
}

// TestCopyFromQueryIntegration creates a scratch table, bulk-copies rows
// into it and reads them back through Query.
func TestCopyFromQueryIntegration(t *testing.T) {
	dsn := getTestDSN(t)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	repo, closeFn, err := NewRepository(ctx, Config{DSN: dsn})
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	defer closeFn()

	_ = repo.Exec(ctx, "IF OBJECT_ID('dbo.repo_copyfrom_test', 'U') IS NOT NULL DROP TABLE dbo.repo_copyfrom_test;")
	if err := repo.Exec(ctx, `
		CREATE TABLE dbo.repo_copyfrom_test (
			id BIGINT NOT NULL,
			name NVARCHAR(100) NOT NULL,
			price DECIMAL(10, 2) NULL
		);`); err != nil {
		t.Fatalf("Exec(CREATE TABLE) error = %v", err)
	}
	defer func() { _ = repo.Exec(context.Background(), "DROP TABLE dbo.repo_copyfrom_test;") }()

	rows := [][]any{
		{int64(1), "alice", 19.99},
		{int64(2), "bob", nil},
	}
	n, err := repo.CopyFrom(ctx, "dbo.repo_copyfrom_test", []string{"id", "name", "price"}, rows)
	if err != nil {
		t.Fatalf("CopyFrom() error = %v", err)
	}
	if n != int64(len(rows)) {
		t.Fatalf("CopyFrom() inserted = %d, want %d", n, len(rows))
	}

	tbl, err := repo.Query(ctx, "t", "SELECT id, name, price FROM dbo.repo_copyfrom_test ORDER BY id")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if tbl.Len() != 2 || tbl.Rows[0]["price"] != 19.99 || tbl.Rows[1]["price"] != nil {
		t.Fatalf("rows = %#v", tbl.Rows)
	}
}
