package views

import (
	"time"

	"github.com/rivo/tview"

	"github.com/wolfpackhq/wolfpack/internal/roster"
	"github.com/wolfpackhq/wolfpack/internal/tui/ui"
)

// GroupList is the group directory table.
type GroupList struct {
	*tview.Table
	groups     []roster.Group
	selectedFn func() (int, int)
}

// NewGroupList creates the group table.
func NewGroupList(theme *ui.Theme) *GroupList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Groups ").SetTitleColor(theme.TitleColor)
	table.SetBorderColor(theme.BorderColor)

	gl := &GroupList{Table: table}
	gl.selectedFn = table.GetSelection
	return gl
}

// Update replaces the table contents with the new directory list.
func (gl *GroupList) Update(groups []roster.Group) {
	gl.groups = groups
	gl.Clear()

	gl.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	gl.SetCell(0, 1, tview.NewTableCell(" Latest Message").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	gl.SetCell(0, 2, tview.NewTableCell(" Time").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, g := range groups {
		row := i + 1
		gl.SetCell(row, 0, tview.NewTableCell(" "+sanitizeForTerminal(g.Name)).SetMaxWidth(30).SetExpansion(1))
		gl.SetCell(row, 1, tview.NewTableCell(" "+sanitizeForTerminal(g.LatestMessage)).SetMaxWidth(40).SetExpansion(2))
		gl.SetCell(row, 2, tview.NewTableCell(" "+formatTimestamp(g.Timestamp)).SetMaxWidth(12))
	}
}

// Selected returns the currently selected group, or a zero Group.
func (gl *GroupList) Selected() (roster.Group, bool) {
	row, _ := gl.selectedFn()
	idx := row - 1 // header row
	if idx >= 0 && idx < len(gl.groups) {
		return gl.groups[idx], true
	}
	return roster.Group{}, false
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}
