// Package postgres implements a Postgres repository using pgx v5. Reads
// decode through pgx's type map; writes use the COPY protocol.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"retailetl/internal/storage"
	"retailetl/pkg/records"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN string // connection string for pgxpool
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", describe(err))
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg}, closeFn, nil
}

// Query runs q and materializes the result. Column kinds come from the
// Postgres type names of the result's OIDs.
func (r *Repository) Query(ctx context.Context, name, q string, args ...any) (*records.Table, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, describe(err)
	}
	defer rows.Close()

	typeMap := pgtype.NewMap()
	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	kinds := make([]records.Kind, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		kinds[i] = kindForOID(typeMap, f.DataTypeOID)
	}
	t := records.NewTable(name, names, kinds)

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", t.Len()+1, err)
		}
		rec := make(records.Record, len(fields))
		for i, c := range names {
			rec[c] = records.NormalizeValue(toCell(vals[i]), kinds[i])
		}
		t.Rows = append(t.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, describe(err)
	}
	return t, nil
}

// CopyFrom appends rows to table using COPY.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.pool.CopyFrom(ctx, splitFQN(table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("copy into %s: %w", table, describe(err))
	}
	return n, nil
}

// Exec implements storage.Repository.Exec for Postgres.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	_, err := r.pool.Exec(ctx, sql)
	return describe(err)
}

// kindForOID resolves a type OID to its registered name and maps it.
func kindForOID(m *pgtype.Map, oid uint32) records.Kind {
	if t, ok := m.TypeForOID(oid); ok {
		return storage.KindForDatabaseType(t.Name)
	}
	return records.KindText
}

// toCell unwraps pgtype values that rows.Values returns as structs.
func toCell(v any) any {
	switch t := v.(type) {
	case pgtype.Numeric:
		if !t.Valid {
			return nil
		}
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	default:
		return v
	}
}

// describe surfaces the server's detail and SQLSTATE for PgError values.
func describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%s (%s): %w", pgErr.Detail, pgErr.SQLState(), err)
	}
	return err
}

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
// If no dot is present, returns {"table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			id = append(id, p)
		}
	}
	return id
}
