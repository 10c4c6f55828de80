// Package reconcile resolves product references on purchase and return rows.
//
// Upstream writes product_id either as a numeric identifier or as the
// product's display name. A Reconciler maps names back to identifiers using
// the product catalog; rows whose reference cannot be resolved are dropped,
// matching inner-join semantics against the catalog.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"retailetl/internal/etlerr"
	"retailetl/internal/transformer/builtin"
	"retailetl/pkg/records"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Column is the reference column rewritten by Apply.
const Column = "product_id"

// CatalogQuery reads the name to id catalog from the source.
const CatalogQuery = "SELECT product_name, product_id FROM products"

// Querier is the read side of a storage.Repository.
type Querier interface {
	Query(ctx context.Context, name, query string, args ...any) (*records.Table, error)
}

// Stats counts how each row's reference was handled.
type Stats struct {
	Passthrough int // already numeric
	Resolved    int // name found in the catalog
	Dropped     int // nil or unknown name
}

// Reconciler holds a normalized name -> product_id catalog.
type Reconciler struct {
	catalog map[string]int64
}

// NormalizeName folds a product name for lookup: NFKC, lowercase, trimmed,
// inner whitespace runs collapsed to one space.
func NormalizeName(s string) string {
	s = cases.Lower(language.Und).String(norm.NFKC.String(s))
	return strings.Join(strings.Fields(s), " ")
}

// New returns a Reconciler over names (raw product names) mapped to ids.
func New(names map[string]int64) *Reconciler {
	r := &Reconciler{catalog: make(map[string]int64, len(names))}
	for name, id := range names {
		r.catalog[NormalizeName(name)] = id
	}
	return r
}

// FromTable builds a Reconciler from a product_name/product_id table. When two
// products share a normalized name the later row wins.
func FromTable(t *records.Table) (*Reconciler, error) {
	if !t.Has("product_name") || !t.Has(Column) {
		return nil, fmt.Errorf("catalog %s: want columns product_name, %s; got %v", t.Name, Column, t.Columns)
	}
	r := &Reconciler{catalog: make(map[string]int64, t.Len())}
	for _, row := range t.Rows {
		name, ok := row["product_name"].(string)
		if !ok {
			continue
		}
		id, ok := records.AsInt64(row[Column])
		if !ok {
			continue
		}
		r.catalog[NormalizeName(name)] = id
	}
	return r, nil
}

// Load reads the catalog through q.
func Load(ctx context.Context, q Querier) (*Reconciler, error) {
	t, err := q.Query(ctx, "product_catalog", CatalogQuery)
	if err != nil {
		return nil, etlerr.Wrap(etlerr.ErrExtraction, "product catalog", err)
	}
	r, err := FromTable(t)
	if err != nil {
		return nil, etlerr.Wrap(etlerr.ErrTransform, "product catalog", err)
	}
	return r, nil
}

// Len returns the number of catalog entries.
func (r *Reconciler) Len() int { return len(r.catalog) }

// Lookup resolves a single reference. Text is matched against the catalog
// first; text that misses but parses as an integer is taken as an id.
func (r *Reconciler) Lookup(v any) (int64, bool) {
	id, _, ok := r.lookup(v)
	return id, ok
}

func (r *Reconciler) lookup(v any) (id int64, byName, ok bool) {
	switch t := v.(type) {
	case nil:
		return 0, false, false
	case string:
		if id, ok := r.catalog[NormalizeName(t)]; ok {
			return id, true, true
		}
		id, ok := records.AsInt64(t)
		return id, false, ok
	default:
		id, ok := records.AsInt64(t)
		return id, false, ok
	}
}

// Apply rewrites t's product_id column to int64 ids in place and drops rows
// that cannot be resolved. The column kind becomes KindInt.
func (r *Reconciler) Apply(t *records.Table) (Stats, error) {
	var st Stats
	if !t.Has(Column) {
		return st, etlerr.Wrap(etlerr.ErrTransform, t.Name, fmt.Errorf("missing column %s", Column))
	}

	for _, row := range t.Rows {
		v := row[Column]
		id, byName, ok := r.lookup(v)
		switch {
		case !ok:
			row[Column] = nil
			st.Dropped++
		case byName:
			row[Column] = id
			st.Resolved++
		default:
			row[Column] = id
			st.Passthrough++
		}
	}

	t.Rows = builtin.Require{Fields: []string{Column}}.Apply(t.Rows)
	t.SetKind(Column, records.KindInt)
	return st, nil
}
