package builtin

import (
	"math"

	"retailetl/pkg/records"
)

// Coerce converts fields to the given numeric or boolean kinds.
//
// With Strict set, a value that cannot be interpreted becomes nil; otherwise
// it is left untouched. KindText and KindTime entries are ignored.
type Coerce struct {
	Types  map[string]records.Kind
	Strict bool
}

func (c Coerce) Apply(in []records.Record) []records.Record {
	if len(c.Types) == 0 {
		return in
	}
	for _, r := range in {
		for field, kind := range c.Types {
			v, ok := r[field]
			if !ok || v == nil {
				continue
			}
			out, ok := coerce(v, kind)
			switch {
			case ok:
				r[field] = out
			case c.Strict:
				r[field] = nil
			}
		}
	}
	return in
}

func coerce(v any, kind records.Kind) (any, bool) {
	switch kind {
	case records.KindInt:
		n, ok := records.AsInt64(v)
		return n, ok
	case records.KindFloat:
		f, ok := records.AsFloat64(v)
		return f, ok
	case records.KindBool:
		switch t := v.(type) {
		case bool:
			return t, true
		case int64:
			return t != 0, true
		case string:
			switch t {
			case "1", "true", "True", "TRUE", "yes", "y":
				return true, true
			case "0", "false", "False", "FALSE", "no", "n":
				return false, true
			}
		}
		return nil, false
	}
	return v, true
}

// Abs replaces numeric values with their absolute value.
type Abs struct {
	Fields []string
}

func (a Abs) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, f := range a.Fields {
			switch t := r[f].(type) {
			case int64:
				if t < 0 {
					r[f] = -t
				}
			case float64:
				r[f] = math.Abs(t)
			}
		}
	}
	return in
}

// Fill replaces nil values with a per-field default.
type Fill struct {
	Values map[string]any
}

func (f Fill) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for field, def := range f.Values {
			if v, ok := r[field]; ok && v == nil {
				r[field] = def
			}
		}
	}
	return in
}
