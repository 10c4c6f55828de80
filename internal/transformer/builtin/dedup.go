// Package builtin contains the reusable row rules the warehouse transformers
// are assembled from. Every rule implements
//
//	Apply([]records.Record) []records.Record
//
// and mutates records in place; rules that drop rows reslice their input.
//
// DeDup collapses duplicate records by a configured key and chooses a winner
// according to a policy:
//
//   - "keep-first": keep the earliest occurrence (default)
//   - "keep-last" : keep the latest occurrence
//
// Keys: a record's key is the concatenation of the configured fields rendered
// as strings (nil -> "\x00"). Values of different Go types that render the
// same (int64 7 and "7") collide, so run DeDup on consistently typed columns.
package builtin

import (
	"sort"
	"strings"

	"retailetl/pkg/records"
)

// DeDup implements an in-memory de-duplication policy.
type DeDup struct {
	// Keys are the field names that form the business key, e.g. ["purchase_id"].
	Keys []string

	// Policy selects the winner among duplicates: "keep-first" or "keep-last".
	Policy string
}

func (d DeDup) keyOf(r records.Record) (string, bool) {
	var b strings.Builder
	for i, k := range d.Keys {
		v, ok := r[k]
		if !ok {
			return "", false
		}
		if i > 0 {
			b.WriteByte('\x1f')
		}
		if v == nil {
			b.WriteByte('\x00')
			continue
		}
		b.WriteString(records.Format(v))
	}
	return b.String(), true
}

// Apply returns the winning record for each key in original input order.
// Records missing a key field pass through after the winners.
func (d DeDup) Apply(in []records.Record) []records.Record {
	if len(in) == 0 || len(d.Keys) == 0 {
		return in
	}

	keepLast := strings.EqualFold(strings.TrimSpace(d.Policy), "keep-last")

	winners := make(map[string]int, len(in))
	var passthrough []records.Record
	for i, r := range in {
		key, ok := d.keyOf(r)
		if !ok {
			passthrough = append(passthrough, r)
			continue
		}
		if _, exists := winners[key]; !exists || keepLast {
			winners[key] = i
		}
	}

	indexes := make([]int, 0, len(winners))
	for _, idx := range winners {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	out := make([]records.Record, 0, len(indexes)+len(passthrough))
	for _, idx := range indexes {
		out = append(out, in[idx])
	}
	return append(out, passthrough...)
}
