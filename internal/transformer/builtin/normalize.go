package builtin

import (
	"strings"

	"retailetl/pkg/records"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Unknown is the placeholder written into empty text fields.
const Unknown = "unknown"

// Normalize folds text fields to NFKC, lowercases and trims them. NFKC turns
// NBSP and full-width forms into their plain equivalents before trimming.
// nil and empty values become Fallback. Non-string values are rendered as
// text first.
type Normalize struct {
	Fields   []string
	Fallback string
}

func (n Normalize) Apply(in []records.Record) []records.Record {
	lower := cases.Lower(language.Und)
	for _, r := range in {
		for _, f := range n.Fields {
			v, ok := r[f]
			if !ok {
				continue
			}
			s := strings.TrimSpace(lower.String(norm.NFKC.String(records.Format(v))))
			if s == "" {
				s = n.Fallback
			}
			r[f] = s
		}
	}
	return in
}

// Token rewrites text fields as lowercase tokens with whitespace runs
// replaced by a single underscore ("Partially Refunded" -> "partially_refunded").
// nil stays nil.
type Token struct {
	Fields []string
}

func (t Token) Apply(in []records.Record) []records.Record {
	lower := cases.Lower(language.Und)
	for _, r := range in {
		for _, f := range t.Fields {
			s, ok := r[f].(string)
			if !ok {
				continue
			}
			r[f] = strings.Join(strings.Fields(lower.String(s)), "_")
		}
	}
	return in
}

// Digits strips every non-digit character from the fields. nil stays nil.
type Digits struct {
	Fields []string
}

func (d Digits) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, f := range d.Fields {
			v := r[f]
			if v == nil {
				continue
			}
			r[f] = strings.Map(func(c rune) rune {
				if c >= '0' && c <= '9' {
					return c
				}
				return -1
			}, records.Format(v))
		}
	}
	return in
}
