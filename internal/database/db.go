// Package database is the query layer over the legacy school schema:
// carreras (careers), materias (subjects) and planes (study plan entries).
//
// Statements are written once with '?' placeholders and rebound per dialect,
// so the same Queries run against MySQL, PostgreSQL (through pgx) and SQLite.
package database

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// DBTX is the interface for database operations.
// Satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect identifies the SQL flavour spoken by the connection.
type Dialect int

const (
	DialectMySQL Dialect = iota
	DialectPostgres
	DialectSQLite
)

func (d Dialect) String() string {
	switch d {
	case DialectMySQL:
		return "mysql"
	case DialectPostgres:
		return "postgres"
	case DialectSQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// Queries runs the parameterized statements against db.
type Queries struct {
	db      DBTX
	dialect Dialect
}

// New returns Queries bound to db.
func New(db DBTX, dialect Dialect) *Queries {
	return &Queries{db: db, dialect: dialect}
}

// WithTx returns a copy of q that runs on tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, dialect: q.dialect}
}

// Exec runs an arbitrary statement written with '?' placeholders.
func (q *Queries) Exec(ctx context.Context, query string, args ...any) error {
	_, err := q.db.ExecContext(ctx, q.rebind(query), args...)
	return err
}

// rebind rewrites '?' placeholders to '$n' for PostgreSQL.
// Statements in this package never contain a literal '?'.
func (q *Queries) rebind(query string) string {
	if q.dialect != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
