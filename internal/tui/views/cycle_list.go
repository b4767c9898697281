package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/fernlabs/fern/internal/api"
)

// CycleList shows tracked cycles in a table, current cycle pinned in
// the title.
type CycleList struct {
	*tview.Table
	cycles []api.Cycle
}

// NewCycleList creates the cycle table.
func NewCycleList() *CycleList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Cycles ")

	return &CycleList{Table: table}
}

// Update refreshes the table from the cycles slice.
func (cl *CycleList) Update(cycles []api.Cycle, total int, current *api.Cycle) {
	cl.cycles = cycles
	cl.Clear()

	title := fmt.Sprintf(" Cycles (%d) ", total)
	if current != nil {
		title = fmt.Sprintf(" Cycles (%d) | current since %s ", total, current.StartDate)
	}
	cl.SetTitle(title)

	cl.SetCell(0, 0, tview.NewTableCell(" Start").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 1, tview.NewTableCell(" End").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 2, tview.NewTableCell(" Symptoms").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 3, tview.NewTableCell(" Notes").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, c := range cycles {
		row := i + 1
		end := c.EndDate
		if end == "" {
			end = "ongoing"
		}
		cl.SetCell(row, 0, tview.NewTableCell(" "+c.StartDate).SetMaxWidth(12))
		cl.SetCell(row, 1, tview.NewTableCell(" "+end).SetMaxWidth(12))
		cl.SetCell(row, 2, tview.NewTableCell(" "+strings.Join(c.Symptoms, ", ")).SetMaxWidth(30).SetExpansion(1))
		cl.SetCell(row, 3, tview.NewTableCell(" "+c.Notes).SetMaxWidth(40).SetExpansion(2))
	}
}

// SelectedCycle returns the ID of the currently selected cycle.
func (cl *CycleList) SelectedCycle() string {
	row, _ := cl.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(cl.cycles) {
		return cl.cycles[idx].ID
	}
	return ""
}
