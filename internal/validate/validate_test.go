package validate

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"retailetl/pkg/records"

	"github.com/xuri/excelize/v2"
)

func facts() *records.Table {
	ts := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	t := records.NewTable("purchases",
		[]string{"purchase_id", "purchase_date", "shipping_date", "quantity", "unit_price", "notes"},
		[]records.Kind{records.KindInt, records.KindTime, records.KindTime, records.KindInt, records.KindFloat, records.KindText},
	)
	t.Append(int64(1), ts, ts, int64(2), 9.5, "gift")
	t.Append(int64(1), ts, ts, int64(2), 9.5, "gift") // exact duplicate
	t.Append(int64(2), nil, ts, int64(-1), -3.0, nil)
	t.Append(int64(3), ts, ts, int64(1), 9.5, "1")
	t.Append(int64(3), ts, ts, int64(1), 9.5, int64(1)) // same text, different type
	return t
}

func TestCheck(t *testing.T) {
	t.Parallel()

	got := Check(facts())
	want := Report{
		Table:          "purchases",
		Rows:           5,
		MissingValues:  map[string]int{"purchase_date": 1, "notes": 1},
		Duplicates:     1,
		NegativeValues: map[string]int{"quantity": 1, "unit_price": 1},
		InvalidDates:   map[string]int{"purchase_date": 1, "shipping_date": 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Check() = %+v\nwant %+v", got, want)
	}
}

func TestCheck_EmptyTable(t *testing.T) {
	t.Parallel()

	tbl := records.NewTable("returns", []string{"return_id", "return_date"}, []records.Kind{records.KindInt, records.KindTime})
	got := Check(tbl)
	if got.Rows != 0 || got.Duplicates != 0 || len(got.MissingValues) != 0 {
		t.Fatalf("got %+v", got)
	}
	if got.InvalidDates["return_date"] != 0 {
		t.Fatalf("time columns must be listed even when clean: %+v", got.InvalidDates)
	}
}

func TestEncodeRow_NoAmbiguity(t *testing.T) {
	t.Parallel()

	cols := []string{"a", "b"}
	x := encodeRow(nil, cols, records.Record{"a": "ab", "b": "c"})
	y := encodeRow(nil, cols, records.Record{"a": "a", "b": "bc"})
	if bytes.Equal(x, y) {
		t.Fatalf("distinct rows share an encoding: %q", x)
	}
}

func TestValidator_LogsAndDoesNotMutate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := New(slog.New(slog.NewTextHandler(&buf, nil)))

	tbl := facts()
	before := tbl.Values()
	reports := v.Validate([]*records.Table{tbl})

	if len(reports) != 1 || reports[0].Duplicates != 1 {
		t.Fatalf("reports = %+v", reports)
	}
	if !reflect.DeepEqual(tbl.Values(), before) {
		t.Fatalf("Validate mutated its input")
	}
	if !strings.Contains(buf.String(), "validate.table") || !strings.Contains(buf.String(), "table=purchases") {
		t.Fatalf("log = %q", buf.String())
	}
}

func TestWorkbook(t *testing.T) {
	t.Parallel()

	reports := []Report{Check(facts())}
	path := filepath.Join(t.TempDir(), "quality.xlsx")
	if err := SaveWorkbook(path, reports); err != nil {
		t.Fatalf("SaveWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{SheetSummary, SheetMissing, SheetNegative, SheetDates}) {
		t.Fatalf("sheets = %v", got)
	}

	summary, err := f.GetRows(SheetSummary)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(summary) != 2 || summary[1][0] != "purchases" || summary[1][1] != "5" || summary[1][2] != "1" {
		t.Fatalf("summary = %v", summary)
	}

	for col, want := range map[string]float64{"A": 18, "C": 22} {
		if w, err := f.GetColWidth(SheetSummary, col); err != nil || w != want {
			t.Fatalf("width %s = (%v, %v), want %v", col, w, err, want)
		}
	}

	neg, err := f.GetRows(SheetNegative)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	want := [][]string{{"Table", "Column", "Count"}, {"purchases", "quantity", "1"}, {"purchases", "unit_price", "1"}}
	if !reflect.DeepEqual(neg, want) {
		t.Fatalf("negatives = %v, want %v", neg, want)
	}

	buf, err := Workbook(nil)
	if err != nil {
		t.Fatalf("Workbook(nil): %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("Workbook(nil) is empty")
	}
}
