package database

import (
	"context"
	"fmt"
)

// Bootstrap DDL for an empty database. The production schema is owned by the
// legacy system; these statements only create the columns this tool reads
// and writes, for local SQLite files and tests.
var schemaStatements = map[Dialect][]string{
	DialectMySQL: {
		`CREATE TABLE IF NOT EXISTS carreras (clave VARCHAR(10) PRIMARY KEY, nombre VARCHAR(120) NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS materias (clave VARCHAR(10) PRIMARY KEY, descri VARCHAR(120) NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS planes (
			id INT AUTO_INCREMENT PRIMARY KEY,
			carrer VARCHAR(10) NOT NULL,
			materi VARCHAR(10) NOT NULL,
			semest CHAR(2) NOT NULL,
			fecalt DATE NULL,
			fecbaj DATE NULL
		)`,
	},
	DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS carreras (clave VARCHAR(10) PRIMARY KEY, nombre VARCHAR(120) NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS materias (clave VARCHAR(10) PRIMARY KEY, descri VARCHAR(120) NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS planes (
			id SERIAL PRIMARY KEY,
			carrer VARCHAR(10) NOT NULL,
			materi VARCHAR(10) NOT NULL,
			semest CHAR(2) NOT NULL,
			fecalt DATE NULL,
			fecbaj DATE NULL
		)`,
	},
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS carreras (clave TEXT PRIMARY KEY, nombre TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS materias (clave TEXT PRIMARY KEY, descri TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS planes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			carrer TEXT NOT NULL,
			materi TEXT NOT NULL,
			semest TEXT NOT NULL,
			fecalt DATE NULL,
			fecbaj DATE NULL
		)`,
	},
}

// Migrate creates the three tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	return s.InTx(ctx, func(q *Queries) error {
		for _, stmt := range schemaStatements[s.dialect] {
			if _, err := q.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}
