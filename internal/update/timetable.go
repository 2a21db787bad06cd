package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/focusdeck/internal/engine"
	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

func (m Model) timetableRows() int {
	n := 0
	m.eng.View(func(_ *model.Document, ws *model.Workspace) { n = len(ws.Timetable.Rows) })
	return n
}

func (m Model) selectedCell() (model.Cell, bool) {
	var cell model.Cell
	var ok bool
	m.eng.View(func(_ *model.Document, ws *model.Workspace) {
		cell, ok = ws.Timetable.Cells[model.CellKey(m.Cell.Row, m.Cell.Day)]
	})
	return cell, ok
}

func (m Model) handleTimetableKey(msg tea.KeyMsg) Model {
	rows := m.timetableRows()
	switch msg.String() {
	case "j", "down":
		m.Cell.Row = clamp(m.Cell.Row+1, 0, rows-1)
	case "k", "up":
		m.Cell.Row = clamp(m.Cell.Row-1, 0, rows-1)
	case "l", "right":
		m.Cell.Day = clamp(m.Cell.Day+1, 0, engine.DaysPerWeek-1)
	case "h", "left":
		m.Cell.Day = clamp(m.Cell.Day-1, 0, engine.DaysPerWeek-1)
	case " ", "enter":
		cell, ok := m.selectedCell()
		if !ok {
			m.openPalette(fmt.Sprintf("cell %d %d ", m.Cell.Row+1, m.Cell.Day+1))
			return m
		}
		res, err := m.eng.SetCellCompleted(m.ctx, m.Cell.Row, m.Cell.Day, !cell.Completed)
		m.report("cell updated", err)
		m.celebrate(res)
	case "e":
		m.openPalette(fmt.Sprintf("cell %d %d ", m.Cell.Row+1, m.Cell.Day+1))
	case "x":
		m.report("cell cleared", m.eng.ClearCell(m.ctx, m.Cell.Row, m.Cell.Day))
	case "U":
		m.report("all cells unchecked", m.eng.UncheckAllCells(m.ctx))
	}
	return m
}

func (m Model) renderTimetableView() string {
	var data views.TimetablePanelData
	var rows []table.Row
	m.eng.View(func(_ *model.Document, ws *model.Workspace) {
		tt := ws.Timetable
		data.WeekStart = tt.WeekStartDate.String()
		for r, label := range tt.Rows {
			row := table.Row{label}
			for d := 0; d < engine.DaysPerWeek; d++ {
				cell, ok := tt.Cells[model.CellKey(r, d)]
				text := ""
				if ok {
					text = cell.Text
					if cell.Completed {
						text = "✓" + text
					}
				}
				if r == m.Cell.Row && d == m.Cell.Day {
					text = "›" + text
				}
				row = append(row, text)
			}
			rows = append(rows, row)
		}
		if cell, ok := tt.Cells[model.CellKey(m.Cell.Row, m.Cell.Day)]; ok {
			state := "open"
			if cell.Completed {
				state = "done"
			}
			data.Selected = fmt.Sprintf("%s %s: %s (%s)", weekdayNames[m.Cell.Day], rowLabel(tt, m.Cell.Row), cell.Text, state)
		}
	})
	t := m.timetable
	t.SetRows(rows)
	if len(rows) > 0 {
		t.SetCursor(clamp(m.Cell.Row, 0, len(rows)-1))
	}
	data.TableView = t.View()
	return views.RenderTimetablePanel(data)
}

func rowLabel(tt model.Timetable, row int) string {
	if row >= 0 && row < len(tt.Rows) {
		return tt.Rows[row]
	}
	return ""
}
