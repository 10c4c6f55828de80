// Package transformer turns raw source tables into cleaned entity tables.
//
// Clean applies the generic, column-driven rules shared by every entity.
// Set applies the per-entity rules on top: reconciliation of product
// references, primary-key deduplication and status tokens.
package transformer

import "retailetl/pkg/records"

// Transformer is a row rule; see package builtin.
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers.
type Chain []Transformer

func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
