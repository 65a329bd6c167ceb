package database

import (
	"context"
	"database/sql"
	"errors"
)

const careerExists = `SELECT 1 FROM carreras WHERE clave = ?`

// CareerExists reports whether a career with the given code exists.
func (q *Queries) CareerExists(ctx context.Context, code string) (bool, error) {
	var one int
	err := q.db.QueryRowContext(ctx, q.rebind(careerExists), code).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CareerColumns are the column names of carreras in select order.
var CareerColumns = []string{"clave", "nombre"}

const listCareers = `SELECT clave, nombre FROM carreras ORDER BY clave`

// ListCareers returns every career ordered by code.
func (q *Queries) ListCareers(ctx context.Context) ([]Career, error) {
	rows, err := q.db.QueryContext(ctx, q.rebind(listCareers))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Career
	for rows.Next() {
		var i Career
		if err := rows.Scan(&i.Code, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
