package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

// DaysPerWeek is the number of timetable columns, Monday first.
const DaysPerWeek = 7

// CheckAndResetTimetable clears every completed flag once a new ISO week has
// started. It reports whether anything changed.
func (e *Engine) CheckAndResetTimetable(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return false, ErrNotLoaded
	}
	if !checkAndResetTimetable(e.workspace(), e.today()) {
		return false, nil
	}
	return true, e.saveLocked(ctx)
}

func checkAndResetTimetable(ws *model.Workspace, today model.Date) bool {
	week := today.WeekStart()
	tt := &ws.Timetable
	if tt.WeekStartDate == week {
		return false
	}
	for key, cell := range tt.Cells {
		cell.Completed = false
		tt.Cells[key] = cell
	}
	tt.WeekStartDate = week
	return true
}

func checkCell(tt *model.Timetable, row, day int) error {
	if row < 0 || row >= len(tt.Rows) || day < 0 || day >= DaysPerWeek {
		return fmt.Errorf("%w: cell %d:%d", ErrOutOfRange, row, day)
	}
	return nil
}

// SetCell writes an activity into a cell, keeping its completed flag. Empty
// text clears the cell; an empty color falls back to the last used one.
func (e *Engine) SetCell(ctx context.Context, row, day int, text, color string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		tt := &ws.Timetable
		if err := checkCell(tt, row, day); err != nil {
			return err
		}
		key := model.CellKey(row, day)
		if strings.TrimSpace(text) == "" {
			delete(tt.Cells, key)
			return nil
		}
		if color == "" {
			color = tt.LastUsedColor
		}
		tt.Cells[key] = model.Cell{Text: text, Color: color, Completed: tt.Cells[key].Completed}
		tt.LastUsedColor = color
		return nil
	})
}

func (e *Engine) ClearCell(ctx context.Context, row, day int) error {
	return e.SetCell(ctx, row, day, "", "")
}

// SetCellCompleted checks or unchecks an existing cell. Checking counts
// towards the streak.
func (e *Engine) SetCellCompleted(ctx context.Context, row, day int, completed bool) (Result, error) {
	return e.mutateStreak(ctx, func(ws *model.Workspace, today model.Date) (bool, error) {
		tt := &ws.Timetable
		if err := checkCell(tt, row, day); err != nil {
			return false, err
		}
		key := model.CellKey(row, day)
		cell, ok := tt.Cells[key]
		if !ok {
			return false, notFound("cell", key)
		}
		cell.Completed = completed
		tt.Cells[key] = cell
		if !completed {
			return false, nil
		}
		updateStreak(ws, today)
		return true, nil
	})
}

func (e *Engine) UncheckAllCells(ctx context.Context) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		for key, cell := range ws.Timetable.Cells {
			cell.Completed = false
			ws.Timetable.Cells[key] = cell
		}
		return nil
	})
}

// ClearTimetable deletes every activity of the week.
func (e *Engine) ClearTimetable(ctx context.Context) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		ws.Timetable.Cells = map[string]model.Cell{}
		return nil
	})
}

func (e *Engine) AddRow(ctx context.Context, label string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		clean, err := cleanText(label)
		if err != nil {
			return err
		}
		ws.Timetable.Rows = append(ws.Timetable.Rows, clean)
		return nil
	})
}

func (e *Engine) RenameRow(ctx context.Context, row int, label string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		if row < 0 || row >= len(ws.Timetable.Rows) {
			return fmt.Errorf("%w: row %d", ErrOutOfRange, row)
		}
		ws.Timetable.Rows[row] = strings.TrimSpace(label)
		return nil
	})
}

// RemoveRow drops a row and its cells. Cells of later rows move up one row
// so they stay attached to their labels.
func (e *Engine) RemoveRow(ctx context.Context, row int) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		tt := &ws.Timetable
		if row < 0 || row >= len(tt.Rows) {
			return fmt.Errorf("%w: row %d", ErrOutOfRange, row)
		}
		tt.Rows = append(tt.Rows[:row], tt.Rows[row+1:]...)
		cells := make(map[string]model.Cell, len(tt.Cells))
		for key, cell := range tt.Cells {
			r, d, err := model.ParseCellKey(key)
			switch {
			case err != nil, r == row:
				continue
			case r > row:
				cells[model.CellKey(r-1, d)] = cell
			default:
				cells[key] = cell
			}
		}
		tt.Cells = cells
		return nil
	})
}
