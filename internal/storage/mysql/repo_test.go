package mysql

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"

	"retailetl/internal/storage"
)

func TestBuildInsert(t *testing.T) {
	t.Parallel()

	stmt, args, err := buildInsert("dw.fact_sales", []string{"purchase_id", "product_id"}, [][]any{
		{int64(1), int64(42)},
		{int64(2), int64(7)},
	})
	if err != nil {
		t.Fatalf("buildInsert: %v", err)
	}
	want := "INSERT INTO `dw`.`fact_sales` (`purchase_id`,`product_id`) VALUES (?,?),(?,?)"
	if stmt != want {
		t.Fatalf("stmt = %q, want %q", stmt, want)
	}
	if !reflect.DeepEqual(args, []any{int64(1), int64(42), int64(2), int64(7)}) {
		t.Fatalf("args = %#v", args)
	}

	if _, _, err := buildInsert("t", []string{"a", "b"}, [][]any{{1}}); err == nil {
		t.Fatalf("expected row length error")
	}
}

func TestBuildDSN(t *testing.T) {
	t.Parallel()

	dsn, err := BuildDSN(storage.Config{Host: "db.internal", Database: "interview_dw", User: "etl", Password: "pw"})
	if err != nil {
		t.Fatalf("BuildDSN: %v", err)
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("ParseDSN(%q): %v", dsn, err)
	}
	if cfg.Addr != "db.internal:3306" || cfg.DBName != "interview_dw" || cfg.User != "etl" || cfg.Passwd != "pw" || !cfg.ParseTime {
		t.Fatalf("parsed = %+v", cfg)
	}

	dsn, _ = BuildDSN(storage.Config{Host: "localhost,3307"})
	if !strings.Contains(dsn, "tcp(localhost:3307)") {
		t.Fatalf("dsn = %q, want comma port translated", dsn)
	}
	if _, err := BuildDSN(storage.Config{}); err == nil {
		t.Fatalf("expected error for empty host")
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	base := &mysql.MySQLError{Number: 1146, Message: "Table 'dw.x' doesn't exist"}
	err := describe(base)
	if !strings.HasPrefix(err.Error(), "mysql error 1146:") {
		t.Fatalf("err = %q", err)
	}
	var got *mysql.MySQLError
	if !errors.As(err, &got) {
		t.Fatalf("describe lost the driver error")
	}
	if describe(nil) != nil {
		t.Fatalf("describe(nil) != nil")
	}
}

func TestAdapterRegistration(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var gotCfg Config
	closed := 0
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{}, func() { closed++ }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "mysql", DSN: "etl:pw@tcp(localhost:3306)/dw"})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if gotCfg.DSN != "etl:pw@tcp(localhost:3306)/dw" {
		t.Fatalf("DSN = %q", gotCfg.DSN)
	}
	repo.Close()
	repo.Close()
	if closed != 1 {
		t.Fatalf("closed = %d, want 1", closed)
	}
}

// TestCopyFromQuery_Integration runs when TEST_MYSQL_DSN is set.
func TestCopyFromQuery_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("skipping integration test: set TEST_MYSQL_DSN to run")
	}
	ctx := context.Background()
	repo, closeFn, err := NewRepository(ctx, Config{DSN: dsn})
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	defer closeFn()

	_ = repo.Exec(ctx, "DROP TABLE IF EXISTS etl_copy_test")
	if err := repo.Exec(ctx, "CREATE TABLE etl_copy_test (id BIGINT, price DECIMAL(10,2))"); err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = repo.Exec(ctx, "DROP TABLE IF EXISTS etl_copy_test") }()

	n, err := repo.CopyFrom(ctx, "etl_copy_test", []string{"id", "price"}, [][]any{{int64(1), 2.5}, {int64(2), nil}})
	if err != nil || n != 2 {
		t.Fatalf("CopyFrom = (%d, %v)", n, err)
	}
	tbl, err := repo.Query(ctx, "t", "SELECT id, price FROM etl_copy_test ORDER BY id")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if tbl.Rows[0]["price"] != 2.5 || tbl.Rows[1]["price"] != nil {
		t.Fatalf("rows = %#v", tbl.Rows)
	}
}
