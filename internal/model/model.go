// Package model projects cleaned entity tables onto the warehouse star
// schema. Dimensions and facts reuse the natural keys of their entities; no
// surrogate keys are generated and nothing is aggregated.
package model

import (
	"fmt"

	"retailetl/internal/etlerr"
	"retailetl/pkg/records"
)

// Spec names a warehouse table, the entity it is projected from and its
// columns in load order.
type Spec struct {
	Name    string
	Entity  string
	Columns []string
}

// Dimensions returns the dimension specs in load order.
func Dimensions() []Spec {
	return []Spec{
		{
			Name:    "dim_clients",
			Entity:  "clients",
			Columns: []string{"client_id", "company_name", "contact_name", "email", "phone", "city", "state", "country", "status"},
		},
		{
			Name:    "dim_customers",
			Entity:  "customers",
			Columns: []string{"customer_id", "first_name", "last_name", "email", "phone", "city", "state", "country", "birth_date"},
		},
		{
			Name:    "dim_products",
			Entity:  "products",
			Columns: []string{"product_id", "product_name", "category", "sub_category", "supplier", "selling_price", "is_active"},
		},
	}
}

// Facts returns the fact specs in load order.
func Facts() []Spec {
	return []Spec{
		{
			Name:    "fact_sales",
			Entity:  "purchases",
			Columns: []string{"purchase_id", "client_id", "customer_id", "product_id", "purchase_date", "quantity", "unit_price", "total_amount", "payment_method", "payment_status"},
		},
		{
			Name:    "fact_returns",
			Entity:  "returns",
			Columns: []string{"return_id", "purchase_id", "client_id", "customer_id", "product_id", "return_date", "quantity", "refund_amount", "status"},
		},
	}
}

// Model is the projected star schema.
type Model struct {
	Dimensions []*records.Table
	Facts      []*records.Table
}

// Tables returns dimensions then facts, the order they must be loaded in.
func (m *Model) Tables() []*records.Table {
	out := make([]*records.Table, 0, len(m.Dimensions)+len(m.Facts))
	out = append(out, m.Dimensions...)
	return append(out, m.Facts...)
}

// Project builds one warehouse table from entities. A missing entity or
// column is an ErrTransform.
func Project(s Spec, entities map[string]*records.Table) (*records.Table, error) {
	src, ok := entities[s.Entity]
	if !ok || src == nil {
		return nil, etlerr.Wrap(etlerr.ErrTransform, s.Name, fmt.Errorf("entity %s not available", s.Entity))
	}
	t, err := src.Project(s.Name, s.Columns)
	if err != nil {
		return nil, etlerr.Wrap(etlerr.ErrTransform, s.Name, err)
	}
	return t, nil
}

// Build projects every dimension and fact from entities, keyed by entity
// name ("clients", "purchases", ...).
func Build(entities map[string]*records.Table) (*Model, error) {
	m := &Model{}
	for _, s := range Dimensions() {
		t, err := Project(s, entities)
		if err != nil {
			return nil, err
		}
		m.Dimensions = append(m.Dimensions, t)
	}
	for _, s := range Facts() {
		t, err := Project(s, entities)
		if err != nil {
			return nil, err
		}
		m.Facts = append(m.Facts, t)
	}
	return m, nil
}
