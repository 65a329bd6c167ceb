// Package dbtest provides a throwaway SQLite store for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/escolar/internal/database"
	_ "modernc.org/sqlite"
)

// NewStore returns a migrated SQLite store in t.TempDir(), closed on cleanup.
func NewStore(t testing.TB) *database.Store {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "escolar.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)

	store := database.NewStore(db, database.DialectSQLite)
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

// Exec runs a raw statement against the store outside the query layer.
func Exec(t testing.TB, store *database.Store, query string, args ...any) {
	t.Helper()

	err := store.InTx(context.Background(), func(q *database.Queries) error {
		return q.Exec(context.Background(), query, args...)
	})
	if err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

// SeedCareers inserts careers as code -> name.
func SeedCareers(t testing.TB, store *database.Store, careers map[string]string) {
	t.Helper()
	for code, name := range careers {
		Exec(t, store, `INSERT INTO carreras (clave, nombre) VALUES (?, ?)`, code, name)
	}
}

// SeedSubjects inserts subjects as code -> description.
func SeedSubjects(t testing.TB, store *database.Store, subjects map[string]string) {
	t.Helper()
	for code, descri := range subjects {
		Exec(t, store, `INSERT INTO materias (clave, descri) VALUES (?, ?)`, code, descri)
	}
}

// Plans returns all plan rows.
func Plans(t testing.TB, store *database.Store) []database.Plan {
	t.Helper()

	plans, err := store.Queries().ListPlans(context.Background())
	if err != nil {
		t.Fatalf("list plans: %v", err)
	}
	return plans
}
