package transformer

import (
	"retailetl/internal/transformer/builtin"
	"retailetl/pkg/records"
)

// DateColumns are parsed into time.Time wherever they appear.
var DateColumns = []string{
	"registration_date",
	"birth_date",
	"purchase_date",
	"shipping_date",
	"delivery_date",
	"return_date",
	"last_login",
	"last_update",
}

// AmountColumns are coerced to numbers and made non-negative.
var AmountColumns = []string{"quantity", "unit_price", "refund_amount"}

const (
	phoneColumn   = "phone"
	productColumn = "product_id"
)

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// Clean normalizes t in place and returns it. Rules are chosen per column by
// name and declared kind, in this order:
//
//  1. numeric columns: nil -> 0
//  2. DateColumns: parsed, unparseable -> nil, kind becomes time
//  3. AmountColumns: numeric (unparseable -> nil), then absolute value
//  4. phone: digits only
//  5. product_id: int64 where the value is numeric, otherwise unchanged
//  6. remaining text columns: NFKC, lowercase, trimmed, empty -> "unknown"
//
// Clean never fails; columns it does not recognize are left alone.
func Clean(t *records.Table) *records.Table {
	var (
		zero    = map[string]any{}
		dates   []string
		amounts = map[string]records.Kind{}
		phones  []string
		text    []string
		product bool
	)

	for _, c := range t.Columns {
		k := t.Kind(c)
		switch k {
		case records.KindInt:
			zero[c] = int64(0)
		case records.KindFloat:
			zero[c] = float64(0)
		}

		switch {
		case contains(DateColumns, c):
			dates = append(dates, c)
		case contains(AmountColumns, c):
			if !k.IsNumeric() {
				k = records.KindFloat
			}
			amounts[c] = k
		case c == productColumn:
			product = true
		case k == records.KindText:
			if c == phoneColumn {
				phones = append(phones, c)
			}
			text = append(text, c)
		}
	}

	amountCols := make([]string, 0, len(amounts))
	for _, c := range t.Columns {
		if _, ok := amounts[c]; ok {
			amountCols = append(amountCols, c)
		}
	}

	chain := Chain{
		builtin.Fill{Values: zero},
		builtin.ParseDates{Fields: dates},
		builtin.Coerce{Types: amounts, Strict: true},
		builtin.Abs{Fields: amountCols},
		builtin.Digits{Fields: phones},
	}
	if product {
		chain = append(chain, builtin.Coerce{Types: map[string]records.Kind{productColumn: records.KindInt}})
	}
	chain = append(chain, builtin.Normalize{Fields: text, Fallback: builtin.Unknown})

	t.Rows = chain.Apply(t.Rows)

	for _, c := range dates {
		t.SetKind(c, records.KindTime)
	}
	for c, k := range amounts {
		t.SetKind(c, k)
	}
	if product && allInt(t.Rows, productColumn) {
		t.SetKind(productColumn, records.KindInt)
	}
	return t
}

func allInt(rows []records.Record, c string) bool {
	for _, r := range rows {
		switch r[c].(type) {
		case int64, nil:
		default:
			return false
		}
	}
	return true
}
