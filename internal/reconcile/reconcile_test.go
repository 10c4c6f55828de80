package reconcile

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"retailetl/internal/etlerr"
	"retailetl/pkg/records"
)

type fakeQuerier struct {
	table *records.Table
	err   error
	query string
}

func (f *fakeQuerier) Query(_ context.Context, _ string, query string, _ ...any) (*records.Table, error) {
	f.query = query
	return f.table, f.err
}

func catalog() *records.Table {
	t := records.NewTable("product_catalog", []string{"product_name", "product_id"}, []records.Kind{records.KindText, records.KindInt})
	t.Append("Wireless Mouse XL", int64(42))
	t.Append("USB-C  Hub", int64(7))
	t.Append(nil, int64(99))
	return t
}

func purchases(refs ...any) *records.Table {
	t := records.NewTable("purchases", []string{"purchase_id", "product_id"}, []records.Kind{records.KindInt, records.KindText})
	for i, ref := range refs {
		t.Append(int64(i+1), ref)
	}
	return t
}

func TestApply_ResolvesNamesAndDropsUnknown(t *testing.T) {
	t.Parallel()

	rec, err := FromTable(catalog())
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}

	tbl := purchases(
		"Wireless Mouse XL",    // 1 -> 42
		"Nonexistent Gadget",   // 2 dropped
		"  wireless mouse xl ", // 3 -> 42
		"17",                   // 4 numeric text
		int64(5),               // 5 passthrough
		nil,                    // 6 dropped
		"usb-c hub",            // 7 -> 7
	)
	st, err := rec.Apply(tbl)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := map[int64]int64{1: 42, 3: 42, 4: 17, 5: 5, 7: 7}
	got := map[int64]int64{}
	for _, row := range tbl.Rows {
		id, ok := row["product_id"].(int64)
		if !ok {
			t.Fatalf("product_id %#v is not int64", row["product_id"])
		}
		got[row["purchase_id"].(int64)] = id
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("resolved = %v, want %v", got, want)
	}

	if st != (Stats{Passthrough: 2, Resolved: 3, Dropped: 2}) {
		t.Fatalf("stats = %+v", st)
	}
	if tbl.Kind("product_id") != records.KindInt {
		t.Fatalf("kind = %v, want int", tbl.Kind("product_id"))
	}
}

func TestApply_NumericLookingNamePrefersCatalog(t *testing.T) {
	t.Parallel()

	rec := New(map[string]int64{"1984": 7})
	tbl := purchases("1984", "42", " 1984 ")

	st, err := rec.Apply(tbl)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := []any{int64(7), int64(42), int64(7)}
	if got := tbl.Column("product_id"); !reflect.DeepEqual(got, want) {
		t.Fatalf("product_id = %v, want %v", got, want)
	}
	if st != (Stats{Passthrough: 1, Resolved: 2}) {
		t.Fatalf("stats = %+v", st)
	}
}

func TestApply_MissingColumn(t *testing.T) {
	t.Parallel()

	tbl := records.NewTable("returns", []string{"return_id"}, nil)
	_, err := New(nil).Apply(tbl)
	if !errors.Is(err, etlerr.ErrTransform) {
		t.Fatalf("err = %v, want ErrTransform", err)
	}
}

func TestFromTable_LaterDuplicateWins(t *testing.T) {
	t.Parallel()

	tbl := catalog()
	tbl.Append("WIRELESS MOUSE XL", int64(43))
	rec, err := FromTable(tbl)
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	if id, _ := rec.Lookup("wireless mouse xl"); id != 43 {
		t.Fatalf("id = %d, want 43", id)
	}
	if rec.Len() != 2 {
		t.Fatalf("Len = %d, want 2", rec.Len())
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{table: catalog()}
	rec, err := Load(context.Background(), q)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if q.query != CatalogQuery {
		t.Fatalf("query = %q", q.query)
	}
	if id, ok := rec.Lookup("Wireless Mouse XL"); !ok || id != 42 {
		t.Fatalf("Lookup = (%d,%v)", id, ok)
	}

	_, err = Load(context.Background(), &fakeQuerier{err: errors.New("login failed")})
	if !errors.Is(err, etlerr.ErrExtraction) {
		t.Fatalf("err = %v, want ErrExtraction", err)
	}

	bad := records.NewTable("x", []string{"name"}, nil)
	_, err = Load(context.Background(), &fakeQuerier{table: bad})
	if !errors.Is(err, etlerr.ErrTransform) {
		t.Fatalf("err = %v, want ErrTransform", err)
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	if got := NormalizeName("  Wireless  Mouse   XL "); got != "wireless mouse xl" {
		t.Fatalf("NormalizeName = %q", got)
	}
}
