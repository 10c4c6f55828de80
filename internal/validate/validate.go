// Package validate computes data-quality findings over transformed tables.
// Findings are diagnostic only: nothing here mutates a table or fails a run.
package validate

import (
	"log/slog"
	"strconv"
	"time"

	"retailetl/pkg/records"

	"github.com/zeebo/xxh3"
)

// Report holds the findings for one table.
type Report struct {
	Table string
	Rows  int

	// MissingValues counts nil cells per column; zero counts are omitted.
	MissingValues map[string]int
	// Duplicates counts rows identical to an earlier row in every column.
	Duplicates int
	// NegativeValues counts values < 0 per numeric column; zero counts are omitted.
	NegativeValues map[string]int
	// InvalidDates counts nil cells per time column, zero counts included.
	InvalidDates map[string]int
}

// Validator checks tables and logs a line per table.
type Validator struct {
	logger *slog.Logger
}

// New returns a Validator logging to logger.
func New(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Validator{logger: logger}
}

// Validate checks every table in order.
func (v *Validator) Validate(tables []*records.Table) []Report {
	out := make([]Report, 0, len(tables))
	for _, t := range tables {
		r := Check(t)
		v.logger.Info("validate.table",
			"table", r.Table,
			"rows", r.Rows,
			"missing_values", r.MissingValues,
			"duplicates", r.Duplicates,
			"negative_values", r.NegativeValues,
			"invalid_dates", r.InvalidDates,
		)
		out = append(out, r)
	}
	return out
}

// Check computes the report for a single table.
func Check(t *records.Table) Report {
	r := Report{
		Table:          t.Name,
		Rows:           t.Len(),
		MissingValues:  map[string]int{},
		NegativeValues: map[string]int{},
		InvalidDates:   map[string]int{},
	}

	for _, c := range t.Columns {
		kind := t.Kind(c)
		if kind == records.KindTime {
			r.InvalidDates[c] = 0
		}
		for _, row := range t.Rows {
			v := row[c]
			if v == nil {
				r.MissingValues[c]++
				if kind == records.KindTime {
					r.InvalidDates[c]++
				}
				continue
			}
			if kind.IsNumeric() && negative(v) {
				r.NegativeValues[c]++
			}
		}
	}

	r.Duplicates = countDuplicates(t)
	return r
}

func negative(v any) bool {
	switch n := v.(type) {
	case int64:
		return n < 0
	case float64:
		return n < 0
	}
	return false
}

// countDuplicates hashes a canonical encoding of every row and confirms hash
// hits by comparing encodings.
func countDuplicates(t *records.Table) int {
	seen := make(map[uint64][]string, t.Len())
	dups := 0
	buf := make([]byte, 0, 256)
	for _, row := range t.Rows {
		buf = encodeRow(buf[:0], t.Columns, row)
		h := xxh3.Hash(buf)
		enc := string(buf)

		dup := false
		for _, prev := range seen[h] {
			if prev == enc {
				dup = true
				break
			}
		}
		if dup {
			dups++
			continue
		}
		seen[h] = append(seen[h], enc)
	}
	return dups
}

// encodeRow writes a type-tagged, length-prefixed encoding of row so that
// distinct rows never share an encoding.
func encodeRow(dst []byte, cols []string, row records.Record) []byte {
	for _, c := range cols {
		v := row[c]
		var tag byte
		var s string
		switch x := v.(type) {
		case nil:
			tag = 'n'
		case string:
			tag, s = 's', x
		case int64:
			tag, s = 'i', strconv.FormatInt(x, 10)
		case float64:
			tag, s = 'f', strconv.FormatFloat(x, 'g', -1, 64)
		case bool:
			tag, s = 'b', strconv.FormatBool(x)
		case time.Time:
			tag, s = 't', x.UTC().Format(time.RFC3339Nano)
		default:
			tag, s = '?', records.Format(x)
		}
		dst = append(dst, tag)
		dst = strconv.AppendInt(dst, int64(len(s)), 10)
		dst = append(dst, ':')
		dst = append(dst, s...)
	}
	return dst
}
