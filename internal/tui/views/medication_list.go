package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/fernlabs/fern/internal/api"
)

// MedicationList shows medication schedules in a table.
type MedicationList struct {
	*tview.Table
	meds []api.Medication
}

// NewMedicationList creates the medication table.
func NewMedicationList() *MedicationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Medications ")

	return &MedicationList{Table: table}
}

// Update refreshes the table from the medications slice.
func (ml *MedicationList) Update(meds []api.Medication, total int) {
	ml.meds = meds
	ml.Clear()
	ml.SetTitle(fmt.Sprintf(" Medications (%d) ", total))

	ml.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	ml.SetCell(0, 1, tview.NewTableCell(" Dosage").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	ml.SetCell(0, 2, tview.NewTableCell(" Frequency").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	ml.SetCell(0, 3, tview.NewTableCell(" Times").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	ml.SetCell(0, 4, tview.NewTableCell(" Active").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, m := range meds {
		row := i + 1
		active := "no"
		if m.Active {
			active = "yes"
		}
		ml.SetCell(row, 0, tview.NewTableCell(" "+m.Name).SetMaxWidth(24).SetExpansion(1))
		ml.SetCell(row, 1, tview.NewTableCell(" "+m.Dosage).SetMaxWidth(12))
		ml.SetCell(row, 2, tview.NewTableCell(" "+m.Frequency).SetMaxWidth(14))
		ml.SetCell(row, 3, tview.NewTableCell(" "+strings.Join(m.TimesOfDay, ", ")).SetMaxWidth(20))
		ml.SetCell(row, 4, tview.NewTableCell(" "+active).SetMaxWidth(8))
	}
}

// SelectedMedication returns the ID of the currently selected row.
func (ml *MedicationList) SelectedMedication() string {
	row, _ := ml.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(ml.meds) {
		return ml.meds[idx].ID
	}
	return ""
}
