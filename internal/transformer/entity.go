package transformer

import (
	"fmt"
	"log/slog"

	"retailetl/internal/etlerr"
	"retailetl/internal/reconcile"
	"retailetl/internal/transformer/builtin"
	"retailetl/pkg/records"
)

// Entity describes how one source table becomes a cleaned entity table.
type Entity struct {
	Name      string   // logical name, e.g. "purchases"
	Source    string   // source table, e.g. "purchases"
	Key       string   // primary key; first occurrence wins
	Tokens    []string // status-like columns rewritten as lowercase_tokens
	Reconcile bool     // resolve product_id through the catalog first
}

// Entities lists the warehouse entities in extraction order.
func Entities() []Entity {
	return []Entity{
		{Name: "clients", Source: "client", Key: "client_id", Tokens: []string{"status"}},
		{Name: "customers", Source: "customer", Key: "customer_id"},
		{Name: "products", Source: "products", Key: "product_id"},
		{Name: "purchases", Source: "purchases", Key: "purchase_id", Tokens: []string{"payment_status"}, Reconcile: true},
		{Name: "returns", Source: "returns", Key: "return_id", Tokens: []string{"status"}, Reconcile: true},
	}
}

// Resolver rewrites product references in place; *reconcile.Reconciler
// satisfies it.
type Resolver interface {
	Apply(t *records.Table) (reconcile.Stats, error)
}

// Stats describes one entity transformation.
type Stats struct {
	Input      int
	Duplicates int
	Reconcile  reconcile.Stats
	Output     int
}

// Set applies entity rules. The resolver is required only for entities with
// Reconcile set.
type Set struct {
	logger   *slog.Logger
	resolver Resolver
}

// NewSet returns a Set logging to logger.
func NewSet(logger *slog.Logger, resolver Resolver) *Set {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Set{logger: logger, resolver: resolver}
}

// Transform applies e's rules to t in place:
// reconcile (when enabled), Clean, deduplicate by key, tokens.
// A table missing the key or a token column is an ErrTransform.
func (s *Set) Transform(e Entity, t *records.Table) (*records.Table, Stats, error) {
	st := Stats{Input: t.Len()}
	log := s.logger.With("entity", e.Name)
	log.Info("transform.start", "rows", st.Input)

	for _, c := range append([]string{e.Key}, e.Tokens...) {
		if !t.Has(c) {
			err := etlerr.Wrap(etlerr.ErrTransform, e.Name, fmt.Errorf("missing column %s", c))
			log.Error("transform.failed", "err", err)
			return nil, st, err
		}
	}

	if e.Reconcile {
		if s.resolver == nil {
			return nil, st, etlerr.Wrap(etlerr.ErrTransform, e.Name, fmt.Errorf("no product resolver configured"))
		}
		rs, err := s.resolver.Apply(t)
		if err != nil {
			log.Error("transform.failed", "err", err)
			return nil, st, err
		}
		st.Reconcile = rs
		log.Info("transform.reconciled",
			"passthrough", rs.Passthrough,
			"resolved", rs.Resolved,
			"dropped", rs.Dropped,
		)
	}

	// Clean fills nil numeric keys with 0, so keys are compared afterwards.
	Clean(t)

	before := t.Len()
	t.Rows = builtin.DeDup{Keys: []string{e.Key}, Policy: "keep-first"}.Apply(t.Rows)
	st.Duplicates = before - t.Len()

	if len(e.Tokens) > 0 {
		t.Rows = builtin.Token{Fields: e.Tokens}.Apply(t.Rows)
	}

	st.Output = t.Len()
	log.Info("transform.done", "rows", st.Output, "duplicates", st.Duplicates)
	return t, st, nil
}
