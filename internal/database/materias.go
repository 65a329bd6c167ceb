package database

import "context"

// SubjectColumns are the column names of materias in select order.
var SubjectColumns = []string{"clave", "descri"}

const listSubjects = `SELECT clave, descri FROM materias ORDER BY clave`

// ListSubjects returns every subject ordered by code.
func (q *Queries) ListSubjects(ctx context.Context) ([]Subject, error) {
	rows, err := q.db.QueryContext(ctx, q.rebind(listSubjects))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Subject
	for rows.Next() {
		var i Subject
		if err := rows.Scan(&i.Code, &i.Description); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SubjectCodeSet returns the set of codes in subjects.
func SubjectCodeSet(subjects []Subject) map[string]struct{} {
	set := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		set[s.Code] = struct{}{}
	}
	return set
}
