package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		dialect Dialect
		in      string
		want    string
	}{
		{DialectMySQL, updatePlan, updatePlan},
		{DialectSQLite, insertPlan, insertPlan},
		{DialectPostgres, deletePlan, `DELETE FROM planes WHERE id = $1`},
		{DialectPostgres, updatePlan, `UPDATE planes SET semest = COALESCE($1, semest), fecalt = $2, fecbaj = $3 WHERE id = $4`},
		{DialectPostgres, listPlans, listPlans},
	}

	for _, tt := range tests {
		q := New(nil, tt.dialect)
		if got := q.rebind(tt.in); got != tt.want {
			t.Errorf("rebind(%s, %q) = %q, want %q", tt.dialect, tt.in, got, tt.want)
		}
	}
}

func TestInsertPlan_StoresISODateText(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "escolar.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	store := NewStore(db, DialectSQLite)
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	err = store.Queries().InsertPlan(ctx, InsertPlanParams{
		CareerCode:     "05",
		SubjectCode:    "101",
		Semester:       "03",
		EnrollmentDate: NewNullDate("2024-03-15"),
	})
	if err != nil {
		t.Fatalf("InsertPlan() error = %v", err)
	}

	var text, kind string
	var withdrawal sql.NullString
	row := db.QueryRowContext(ctx, `SELECT CAST(fecalt AS TEXT), typeof(fecalt), fecbaj FROM planes`)
	if err := row.Scan(&text, &kind, &withdrawal); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if text != "2024-03-15" || kind != "text" {
		t.Errorf("stored fecalt = %q (%s), want %q (text)", text, kind, "2024-03-15")
	}
	if withdrawal.Valid {
		t.Errorf("stored fecbaj = %q, want NULL", withdrawal.String)
	}
}
