package database

import (
	"context"
	"database/sql"
)

const listPlans = `SELECT id, carrer, materi, semest, fecalt, fecbaj FROM planes ORDER BY id`

// PlanColumns are the column names of planes in select order.
var PlanColumns = []string{"id", "carrer", "materi", "semest", "fecalt", "fecbaj"}

// ListPlans returns every plan row ordered by id.
func (q *Queries) ListPlans(ctx context.Context) ([]Plan, error) {
	rows, err := q.db.QueryContext(ctx, q.rebind(listPlans))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Plan
	for rows.Next() {
		var i Plan
		if err := rows.Scan(
			&i.ID,
			&i.CareerCode,
			&i.SubjectCode,
			&i.Semester,
			&i.EnrollmentDate,
			&i.WithdrawalDate,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getPlan = `SELECT id, carrer, materi, semest, fecalt, fecbaj FROM planes WHERE id = ?`

// GetPlan returns one plan row. It returns sql.ErrNoRows when id is unknown.
func (q *Queries) GetPlan(ctx context.Context, id int64) (Plan, error) {
	var i Plan
	err := q.db.QueryRowContext(ctx, q.rebind(getPlan), id).Scan(
		&i.ID,
		&i.CareerCode,
		&i.SubjectCode,
		&i.Semester,
		&i.EnrollmentDate,
		&i.WithdrawalDate,
	)
	return i, err
}

const insertPlan = `INSERT INTO planes (carrer, materi, semest, fecalt, fecbaj) VALUES (?, ?, ?, ?, ?)`

type InsertPlanParams struct {
	CareerCode     string
	SubjectCode    string
	Semester       string
	EnrollmentDate NullDate
	WithdrawalDate NullDate
}

// InsertPlan inserts one plan row.
func (q *Queries) InsertPlan(ctx context.Context, arg InsertPlanParams) error {
	_, err := q.db.ExecContext(ctx, q.rebind(insertPlan),
		arg.CareerCode,
		arg.SubjectCode,
		arg.Semester,
		arg.EnrollmentDate,
		arg.WithdrawalDate,
	)
	return err
}

const deletePlan = `DELETE FROM planes WHERE id = ?`

// DeletePlan deletes one plan row and returns the number of rows affected.
func (q *Queries) DeletePlan(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, q.rebind(deletePlan), id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// A NULL semester keeps the stored value; both dates are always overwritten.
const updatePlan = `UPDATE planes SET semest = COALESCE(?, semest), fecalt = ?, fecbaj = ? WHERE id = ?`

type UpdatePlanParams struct {
	ID             int64
	Semester       sql.NullString
	EnrollmentDate NullDate
	WithdrawalDate NullDate
}

// UpdatePlan updates one plan row and returns the number of rows affected.
func (q *Queries) UpdatePlan(ctx context.Context, arg UpdatePlanParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, q.rebind(updatePlan),
		arg.Semester,
		arg.EnrollmentDate,
		arg.WithdrawalDate,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
