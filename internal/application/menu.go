package application

import (
	"context"
	"fmt"
	"io"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

// MenuItem is one numbered entry of a menu.
type MenuItem struct {
	Key    string
	Label  string
	Action func(ctx context.Context) error
	Exit   bool
}

// Menu is a titled list of numbered items.
type Menu struct {
	Title string
	Items []MenuItem
}

// Lookup returns the item selected by key.
func (m *Menu) Lookup(key string) (MenuItem, bool) {
	for _, item := range m.Items {
		if item.Key == key {
			return item, true
		}
	}
	return MenuItem{}, false
}

// Render writes the title and one line per item.
func (m *Menu) Render(w io.Writer) {
	fmt.Fprintf(w, "\n--- %s ---\n", m.Title)
	for _, item := range m.Items {
		fmt.Fprintf(w, "%s. %s\n", item.Key, item.Label)
	}
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

func buildMenuTree(s *Shell) *Menu {
	return &Menu{
		Title: "Study Plans",
		Items: []MenuItem{
			{Key: "1", Label: "List study plans", Action: s.listPlans},
			{Key: "2", Label: "Add study plan", Action: s.addPlan},
			{Key: "3", Label: "Edit study plan", Action: s.editPlan},
			{Key: "4", Label: "Delete study plan", Action: s.deletePlan},
			{Key: "5", Label: "Exit", Exit: true},
		},
	}
}
