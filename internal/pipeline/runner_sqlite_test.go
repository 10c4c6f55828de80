package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"retailetl/internal/load"
	"retailetl/internal/storage"
	"retailetl/internal/storage/sqlite"
)

var sourceSchema = []string{
	`CREATE TABLE client (
		client_id INTEGER, company_name TEXT, contact_name TEXT, email TEXT, phone TEXT,
		address TEXT, city TEXT, state TEXT, zip_code TEXT, country TEXT,
		registration_date TEXT, status TEXT, credit_limit REAL, last_update TEXT)`,
	`INSERT INTO client VALUES
		(1, 'ACME Corp', 'Jane Roe', 'JANE@ACME.COM', '+1 (555) 867-5309', '1 Main', 'Springfield', 'IL', '62701', 'USA', '05/01/2024', 'Active', 1000.0, '2024-06-01 00:00:00'),
		(1, 'ACME Duplicate', 'Jane Roe', 'jane@acme.com', '555', '1 Main', 'Springfield', 'IL', '62701', 'USA', '05/01/2024', 'Active', 1000.0, '2024-06-01 00:00:00'),
		(2, 'Globex', NULL, 'ops@globex.com', '555.123.4567', NULL, 'Austin', 'TX', '73301', 'USA', '2024-02-10', 'On Hold', NULL, '2024-06-01 00:00:00')`,

	`CREATE TABLE customer (
		customer_id INTEGER, client_id INTEGER, first_name TEXT, last_name TEXT, email TEXT, phone TEXT,
		birth_date TEXT, address TEXT, city TEXT, state TEXT, zip_code TEXT, country TEXT,
		registration_date TEXT, last_login TEXT, last_update TEXT)`,
	`INSERT INTO customer VALUES
		(1, 1, 'Ann', 'Lee', 'ann@x.com', '(555) 000-1111', 'INVALID DATE', NULL, 'Austin', 'TX', NULL, 'USA', '2024-01-01', NULL, '2024-06-01 00:00:00'),
		(2, 2, 'Bo', 'Chen', 'bo@x.com', NULL, '1990-07-04', NULL, 'Dallas', 'TX', NULL, 'USA', '2024-01-02', NULL, '2024-06-01 00:00:00')`,

	`CREATE TABLE products (
		product_id INTEGER, product_name TEXT, category TEXT, sub_category TEXT, supplier TEXT,
		cost_price REAL, selling_price REAL, stock_quantity INTEGER, min_stock_level INTEGER,
		is_active INTEGER, is_apparel INTEGER, created_at TEXT, last_update TEXT)`,
	`INSERT INTO products VALUES
		(42, 'Wireless Mouse XL', 'Electronics', 'Mice', 'Logi', 9.5, 19.99, 100, 10, 1, 0, '2023-01-01', '2024-06-01 00:00:00'),
		(2, 'USB-C Hub', 'Electronics', 'Hubs', 'Anker', 12.0, 29.99, 50, 5, 1, 0, '2023-01-01', '2024-06-01 00:00:00')`,

	`CREATE TABLE purchases (
		purchase_id INTEGER, client_id INTEGER, customer_id INTEGER, product_id TEXT,
		purchase_date TEXT, quantity INTEGER, unit_price REAL, total_amount REAL,
		payment_method TEXT, payment_status TEXT, shipping_address TEXT,
		shipping_date TEXT, delivery_date TEXT, notes TEXT, last_update TEXT)`,
	`INSERT INTO purchases VALUES
		(1, 1, 1, 'Wireless Mouse XL', '2024-03-05', 2, 19.99, 39.98, 'Credit Card', 'Completed', NULL, NULL, NULL, NULL, '2024-06-01 00:00:00'),
		(2, 1, 1, 'Nonexistent Gadget', '2024-03-05', 1, 5.0, 5.0, 'Credit Card', 'Completed', NULL, NULL, NULL, NULL, '2024-06-01 00:00:00'),
		(3, 2, 2, '2', 'INVALID DATE', -1, -29.99, 29.99, 'PayPal', 'Partially Refunded', NULL, NULL, NULL, NULL, '2024-06-01 00:00:00')`,

	`CREATE TABLE returns (
		return_id INTEGER, purchase_id INTEGER, client_id INTEGER, customer_id INTEGER, product_id TEXT,
		return_date TEXT, quantity INTEGER, reason TEXT, status TEXT, refund_amount REAL,
		notes TEXT, last_update TEXT)`,
	`INSERT INTO returns VALUES
		(1, 1, 1, 1, '42', '2024-03-10', 1, 'Defective', 'Approved', -19.99, NULL, '2024-06-01 00:00:00'),
		(2, 3, 2, 2, 'usb-c  hub', '2024-03-12', 1, 'Changed mind', 'Pending Review', 29.99, NULL, '2024-06-01 00:00:00')`,
}

func sqliteOpener(t *testing.T, path string) Opener {
	t.Helper()
	return StorageOpener(storage.Config{Kind: sqlite.Kind, Database: path})
}

func seedSource(t *testing.T, path string) {
	t.Helper()
	ctx := context.Background()
	repo, err := sqliteOpener(t, path)(ctx)
	if err != nil {
		t.Fatalf("open source: %v", err)
	}
	defer repo.Close()
	for _, stmt := range sourceSchema {
		if err := repo.Exec(ctx, stmt); err != nil {
			t.Fatalf("seed: %v\n%s", err, stmt)
		}
	}
}

func TestRun_SQLiteEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	srcPath := filepath.Join(dir, "source.db")
	tgtPath := filepath.Join(dir, "warehouse.db")
	seedSource(t, srcPath)

	opts := Options{
		QualityReport: filepath.Join(dir, "quality.xlsx"),
		Load:          load.Options{Kind: sqlite.Kind, BatchSize: 2, AutoCreate: true},
	}
	r := New(opts, sqliteOpener(t, srcPath), sqliteOpener(t, tgtPath), nil, nil)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := map[string]int64{
		"dim_clients":   2,
		"dim_customers": 2,
		"dim_products":  2,
		"fact_sales":    2,
		"fact_returns":  2,
	}
	for name, n := range want {
		if got := r.Summary().Loaded[name]; got != n {
			t.Errorf("loaded %s = %d, want %d", name, got, n)
		}
	}

	ctx := context.Background()
	tgt, err := sqliteOpener(t, tgtPath)(ctx)
	if err != nil {
		t.Fatalf("open target: %v", err)
	}
	defer tgt.Close()

	clients, err := tgt.Query(ctx, "dim_clients", `SELECT client_id, company_name, phone, status, contact_name FROM dim_clients ORDER BY client_id`)
	if err != nil {
		t.Fatalf("query dim_clients: %v", err)
	}
	c1, c2 := clients.Rows[0], clients.Rows[1]
	if c1["company_name"] != "acme corp" || c1["phone"] != "15558675309" || c1["status"] != "active" {
		t.Errorf("client 1 = %v", c1)
	}
	if c2["status"] != "on_hold" || c2["contact_name"] != "unknown" {
		t.Errorf("client 2 = %v", c2)
	}

	customers, err := tgt.Query(ctx, "dim_customers", `SELECT customer_id, birth_date FROM dim_customers ORDER BY customer_id`)
	if err != nil {
		t.Fatalf("query dim_customers: %v", err)
	}
	if customers.Rows[0]["birth_date"] != nil {
		t.Errorf("invalid birth_date loaded as %v, want NULL", customers.Rows[0]["birth_date"])
	}
	if customers.Rows[1]["birth_date"] == nil {
		t.Errorf("valid birth_date lost")
	}

	sales, err := tgt.Query(ctx, "fact_sales", `SELECT purchase_id, product_id, quantity, unit_price, payment_status, purchase_date FROM fact_sales ORDER BY purchase_id`)
	if err != nil {
		t.Fatalf("query fact_sales: %v", err)
	}
	if sales.Len() != 2 {
		t.Fatalf("fact_sales rows = %d, want 2", sales.Len())
	}
	s1, s3 := sales.Rows[0], sales.Rows[1]
	if s1["purchase_id"] != int64(1) || s1["product_id"] != int64(42) {
		t.Errorf("purchase 1 = %v, want product 42", s1)
	}
	if s3["product_id"] != int64(2) || s3["quantity"] != int64(1) || s3["unit_price"] != 29.99 {
		t.Errorf("purchase 3 = %v", s3)
	}
	if s3["payment_status"] != "partially_refunded" || s3["purchase_date"] != nil {
		t.Errorf("purchase 3 = %v", s3)
	}

	returns, err := tgt.Query(ctx, "fact_returns", `SELECT return_id, product_id, refund_amount FROM fact_returns ORDER BY return_id`)
	if err != nil {
		t.Fatalf("query fact_returns: %v", err)
	}
	if returns.Rows[0]["refund_amount"] != 19.99 || returns.Rows[1]["product_id"] != int64(2) {
		t.Errorf("fact_returns = %v", returns.Rows)
	}

	if st := r.Summary().Transformed["clients"]; st.Duplicates != 1 {
		t.Errorf("clients duplicates = %d, want 1", st.Duplicates)
	}
}

func TestRun_SQLiteSecondRunAppends(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	srcPath := filepath.Join(dir, "source.db")
	tgtPath := filepath.Join(dir, "warehouse.db")
	seedSource(t, srcPath)

	opts := Options{Load: load.Options{Kind: sqlite.Kind, AutoCreate: true}}
	for i := 0; i < 2; i++ {
		if err := New(opts, sqliteOpener(t, srcPath), sqliteOpener(t, tgtPath), nil, nil).Run(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	ctx := context.Background()
	tgt, err := sqliteOpener(t, tgtPath)(ctx)
	if err != nil {
		t.Fatalf("open target: %v", err)
	}
	defer tgt.Close()

	got, err := tgt.Query(ctx, "fact_sales", `SELECT COUNT(*) AS n FROM fact_sales`)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n := got.Rows[0]["n"]; n != int64(4) {
		t.Fatalf("fact_sales after two runs = %v, want 4", n)
	}
}
