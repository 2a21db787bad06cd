package engine

import (
	"context"
	"strings"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

func newTask(text, recurringID string, created int64) model.Task {
	return model.Task{
		ID:          model.NewID(),
		Text:        text,
		Created:     created,
		Subtasks:    []model.Subtask{},
		IsCollapsed: true,
		RecurringID: recurringID,
	}
}

func taskIndex(ws *model.Workspace, id string) int {
	for i := range ws.Tasks {
		if ws.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func findTask(ws *model.Workspace, id string) *model.Task {
	if i := taskIndex(ws, id); i >= 0 {
		return &ws.Tasks[i]
	}
	return nil
}

func findSubtask(t *model.Task, id string) *model.Subtask {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i]
		}
	}
	return nil
}

func cleanText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

func (e *Engine) AddTask(ctx context.Context, text string) (model.Task, error) {
	var task model.Task
	err := e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		clean, err := cleanText(text)
		if err != nil {
			return err
		}
		task = newTask(clean, "", e.nowMillis())
		ws.Tasks = append(ws.Tasks, task)
		return nil
	})
	return task, err
}

// EditTask changes the text of an open task or a done record. Editing a
// recurring instance renames its template too.
func (e *Engine) EditTask(ctx context.Context, id, text string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		clean, err := cleanText(text)
		if err != nil {
			return err
		}
		if t := findTask(ws, id); t != nil {
			t.Text = clean
			for i := range ws.RecurringTasks {
				if t.IsRecurring() && ws.RecurringTasks[i].ID == t.RecurringID {
					ws.RecurringTasks[i].Text = clean
				}
			}
			return nil
		}
		for i := range ws.Done {
			if ws.Done[i].ID == id {
				ws.Done[i].Text = clean
				return nil
			}
		}
		return notFound("task", id)
	})
}

// CompleteTask checks or unchecks a task. A plain task moves to the done
// list when checked; unchecking it is a no-op. A recurring instance stays in
// place and toggles its completed-today flag together with today's done
// record.
func (e *Engine) CompleteTask(ctx context.Context, id string, checked bool) (Result, error) {
	return e.mutateStreak(ctx, func(ws *model.Workspace, today model.Date) (bool, error) {
		idx := taskIndex(ws, id)
		if idx < 0 {
			return false, notFound("task", id)
		}
		task := ws.Tasks[idx]
		if !task.IsRecurring() {
			if !checked {
				return false, nil
			}
			updateStreak(ws, today)
			bumpStats(ws, today, 1, 0)
			ws.Tasks = append(ws.Tasks[:idx], ws.Tasks[idx+1:]...)
			ws.Done = prependDone(ws.Done, model.DoneRecord{ID: model.NewID(), Text: task.Text, When: e.nowMillis()})
			return true, nil
		}

		if task.IsCompletedToday == checked {
			return false, nil
		}
		ws.Tasks[idx].IsCompletedToday = checked
		if checked {
			updateStreak(ws, today)
			bumpStats(ws, today, 1, 0)
			ws.Done = prependDone(ws.Done, model.DoneRecord{
				ID:          model.NewID(),
				Text:        task.Text,
				When:        e.nowMillis(),
				RecurringID: task.RecurringID,
			})
			return true, nil
		}
		for i, rec := range ws.Done {
			if rec.RecurringID == task.RecurringID && model.DateOf(rec.CompletedAt().In(e.loc)) == today {
				ws.Done = append(ws.Done[:i], ws.Done[i+1:]...)
				bumpStats(ws, today, -1, 0)
				break
			}
		}
		return false, nil
	})
}

func prependDone(list []model.DoneRecord, rec model.DoneRecord) []model.DoneRecord {
	return append([]model.DoneRecord{rec}, list...)
}

// DeleteDone removes a record from the completed list.
func (e *Engine) DeleteDone(ctx context.Context, id string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		for i := range ws.Done {
			if ws.Done[i].ID == id {
				ws.Done = append(ws.Done[:i], ws.Done[i+1:]...)
				return nil
			}
		}
		return notFound("done record", id)
	})
}

// MoveTask moves a task to position to, clamped to the list bounds.
func (e *Engine) MoveTask(ctx context.Context, id string, to int) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		from := taskIndex(ws, id)
		if from < 0 {
			return notFound("task", id)
		}
		to = min(max(to, 0), len(ws.Tasks)-1)
		if from == to {
			return nil
		}
		task := ws.Tasks[from]
		ws.Tasks = append(ws.Tasks[:from], ws.Tasks[from+1:]...)
		ws.Tasks = append(ws.Tasks[:to], append([]model.Task{task}, ws.Tasks[to:]...)...)
		return nil
	})
}

func (e *Engine) ToggleTaskCollapsed(ctx context.Context, id string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		t := findTask(ws, id)
		if t == nil {
			return notFound("task", id)
		}
		t.IsCollapsed = !t.IsCollapsed
		return nil
	})
}

func (e *Engine) AddSubtask(ctx context.Context, taskID, text string) (model.Subtask, error) {
	var sub model.Subtask
	err := e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		clean, err := cleanText(text)
		if err != nil {
			return err
		}
		t := findTask(ws, taskID)
		if t == nil {
			return notFound("task", taskID)
		}
		sub = model.Subtask{ID: model.NewID(), Text: clean}
		t.Subtasks = append(t.Subtasks, sub)
		t.IsCollapsed = false
		return nil
	})
	return sub, err
}

func (e *Engine) EditSubtask(ctx context.Context, taskID, subtaskID, text string) error {
	return e.withSubtask(ctx, taskID, subtaskID, func(_ *model.Task, st *model.Subtask) error {
		clean, err := cleanText(text)
		if err != nil {
			return err
		}
		st.Text = clean
		return nil
	})
}

func (e *Engine) ToggleSubtask(ctx context.Context, taskID, subtaskID string) error {
	return e.withSubtask(ctx, taskID, subtaskID, func(_ *model.Task, st *model.Subtask) error {
		st.Done = !st.Done
		return nil
	})
}

func (e *Engine) DeleteSubtask(ctx context.Context, taskID, subtaskID string) error {
	return e.withSubtask(ctx, taskID, subtaskID, func(t *model.Task, _ *model.Subtask) error {
		out := t.Subtasks[:0]
		for _, st := range t.Subtasks {
			if st.ID != subtaskID {
				out = append(out, st)
			}
		}
		t.Subtasks = out
		return nil
	})
}

func (e *Engine) withSubtask(ctx context.Context, taskID, subtaskID string, fn func(t *model.Task, st *model.Subtask) error) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		t := findTask(ws, taskID)
		if t == nil {
			return notFound("task", taskID)
		}
		st := findSubtask(t, subtaskID)
		if st == nil {
			return notFound("subtask", subtaskID)
		}
		return fn(t, st)
	})
}

// SetTaskCategory assigns an existing category; an empty id clears it.
func (e *Engine) SetTaskCategory(ctx context.Context, taskID, categoryID string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		t := findTask(ws, taskID)
		if t == nil {
			return notFound("task", taskID)
		}
		if categoryID == "" {
			t.Category = nil
			return nil
		}
		if findCategory(ws, categoryID) == nil {
			return notFound("category", categoryID)
		}
		id := categoryID
		t.Category = &id
		return nil
	})
}

func findCategory(ws *model.Workspace, id string) *model.TaskCategory {
	for i := range ws.TaskCategories {
		if ws.TaskCategories[i].ID == id {
			return &ws.TaskCategories[i]
		}
	}
	return nil
}

func (e *Engine) AddCategory(ctx context.Context, name, color string) (model.TaskCategory, error) {
	var cat model.TaskCategory
	err := e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		clean, err := cleanText(name)
		if err != nil {
			return err
		}
		if strings.TrimSpace(color) == "" {
			color = "#59d18c"
		}
		cat = model.TaskCategory{ID: "custom_" + model.NewID(), Name: clean, Color: color}
		ws.TaskCategories = append(ws.TaskCategories, cat)
		return nil
	})
	return cat, err
}

// DeleteCategory removes a category and clears it from every task.
func (e *Engine) DeleteCategory(ctx context.Context, id string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		if findCategory(ws, id) == nil {
			return notFound("category", id)
		}
		out := ws.TaskCategories[:0]
		for _, c := range ws.TaskCategories {
			if c.ID != id {
				out = append(out, c)
			}
		}
		ws.TaskCategories = out
		for i := range ws.Tasks {
			if c := ws.Tasks[i].Category; c != nil && *c == id {
				ws.Tasks[i].Category = nil
			}
		}
		return nil
	})
}
