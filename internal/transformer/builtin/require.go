package builtin

import (
	"strings"

	"retailetl/pkg/records"
)

// Require drops records that lack a usable value in any of Fields: the key
// is absent, nil, or text that is blank after trimming. The reconciler runs
// it over product_id once unresolved references have been cleared.
type Require struct {
	Fields []string
}

// Missing returns the first required field rec lacks, or "" when rec is
// complete.
func (q Require) Missing(rec records.Record) string {
	for _, f := range q.Fields {
		switch v := rec[f].(type) {
		case nil:
			return f
		case string:
			if strings.TrimSpace(v) == "" {
				return f
			}
		}
	}
	return ""
}

// Apply filters in place and returns the kept records.
func (q Require) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, rec := range in {
		if q.Missing(rec) == "" {
			out = append(out, rec)
		}
	}
	return out
}
