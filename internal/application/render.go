package application

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	db "github.com/JonMunkholm/escolar/internal/database"
)

// emptyResult is printed under the headers when a query returns nothing.
const emptyResult = "(no rows)"

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// RenderTable writes rows as a markdown-style table.
func RenderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.MarkdownBorder()).
		BorderTop(false).
		BorderBottom(false).
		StyleFunc(func(_, _ int) lipgloss.Style { return cellStyle }).
		Headers(headers...).
		Rows(rows...)

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, emptyResult)
		return err
	}
	return nil
}

func planRows(plans []db.Plan) [][]string {
	rows := make([][]string, len(plans))
	for i, p := range plans {
		rows[i] = []string{
			fmt.Sprint(p.ID),
			p.CareerCode,
			p.SubjectCode,
			p.Semester,
			p.EnrollmentDate.Display(),
			p.WithdrawalDate.Display(),
		}
	}
	return rows
}

func careerRows(careers []db.Career) [][]string {
	rows := make([][]string, len(careers))
	for i, c := range careers {
		rows[i] = []string{c.Code, c.Name}
	}
	return rows
}

func subjectRows(subjects []db.Subject) [][]string {
	rows := make([][]string, len(subjects))
	for i, s := range subjects {
		rows[i] = []string{s.Code, s.Description}
	}
	return rows
}
