package builtin

import (
	"strings"
	"time"

	"retailetl/pkg/records"
)

// DateLayouts are tried in order by ParseDates. Slash dates with a trailing
// year are day-first; dash dates with a trailing year are month-first.
var DateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 03:04 PM",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"02/01/2006",
	"02/01/2006 15:04",
	"01-02-2006",
	"01-02-2006 15:04",
}

// ParseDates turns date fields into time.Time. Values that match none of the
// layouts, including sentinels such as "INVALID DATE", become nil.
type ParseDates struct {
	Fields  []string
	Layouts []string // defaults to DateLayouts
}

func (p ParseDates) Apply(in []records.Record) []records.Record {
	layouts := p.Layouts
	if len(layouts) == 0 {
		layouts = DateLayouts
	}
	for _, r := range in {
		for _, f := range p.Fields {
			v, ok := r[f]
			if !ok {
				continue
			}
			r[f] = parseDate(v, layouts)
		}
	}
	return in
}

func parseDate(v any, layouts []string) any {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		for _, layout := range layouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts
			}
		}
	}
	return nil
}
