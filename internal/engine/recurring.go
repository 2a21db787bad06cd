package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

// CheckAndResetRecurringTasks runs the daily recurring pass if it has not run
// today. It reports whether the task list changed.
func (e *Engine) CheckAndResetRecurringTasks(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return false, ErrNotLoaded
	}
	if !checkAndResetRecurring(e.workspace(), e.today(), e.nowMillis()) {
		return false, nil
	}
	e.logger.Info("recurring tasks reset")
	return true, e.saveLocked(ctx)
}

func checkAndResetRecurring(ws *model.Workspace, today model.Date, now int64) bool {
	if ws.LastRecurringCheck == today {
		return false
	}
	changed := false
	templates := make(map[string]bool, len(ws.RecurringTasks))
	for _, rt := range ws.RecurringTasks {
		templates[rt.ID] = true
	}
	live := make(map[string]bool, len(ws.Tasks))
	for i := range ws.Tasks {
		t := &ws.Tasks[i]
		if !t.IsRecurring() {
			continue
		}
		if !templates[t.RecurringID] {
			t.RecurringID = ""
			t.IsCompletedToday = false
			changed = true
			continue
		}
		live[t.RecurringID] = true
		if t.IsCompletedToday {
			t.IsCompletedToday = false
			changed = true
		}
	}
	for _, rt := range ws.RecurringTasks {
		if live[rt.ID] {
			continue
		}
		ws.Tasks = append(ws.Tasks, newTask(rt.Text, rt.ID, now))
		changed = true
	}
	ws.LastRecurringCheck = today
	return changed
}

// ToggleRecurring turns a plain task into a recurring one by creating a
// template for it, or detaches a recurring task and drops its template.
func (e *Engine) ToggleRecurring(ctx context.Context, taskID string) (bool, error) {
	var recurring bool
	err := e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		t := findTask(ws, taskID)
		if t == nil {
			return notFound("task", taskID)
		}
		if t.IsRecurring() {
			ws.RecurringTasks = removeTemplate(ws.RecurringTasks, t.RecurringID)
			t.RecurringID = ""
			t.IsCompletedToday = false
			return nil
		}
		rt := model.RecurringTask{ID: model.NewID(), Text: t.Text}
		ws.RecurringTasks = append(ws.RecurringTasks, rt)
		t.RecurringID = rt.ID
		recurring = true
		return nil
	})
	return recurring, err
}

// DeleteTaskOnce removes one task instance. A recurring template stays and
// the instance comes back on the next daily pass.
func (e *Engine) DeleteTaskOnce(ctx context.Context, taskID string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		idx := taskIndex(ws, taskID)
		if idx < 0 {
			return notFound("task", taskID)
		}
		ws.Tasks = append(ws.Tasks[:idx], ws.Tasks[idx+1:]...)
		return nil
	})
}

// DeleteRecurringPermanently removes the template behind taskID together
// with every linked instance and completion record.
func (e *Engine) DeleteRecurringPermanently(ctx context.Context, taskID string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		t := findTask(ws, taskID)
		if t == nil {
			return notFound("task", taskID)
		}
		if !t.IsRecurring() {
			return notFound("recurring template for task", taskID)
		}
		rid := t.RecurringID
		ws.RecurringTasks = removeTemplate(ws.RecurringTasks, rid)
		tasks := ws.Tasks[:0]
		for _, task := range ws.Tasks {
			if task.RecurringID != rid {
				tasks = append(tasks, task)
			}
		}
		ws.Tasks = tasks
		done := ws.Done[:0]
		for _, rec := range ws.Done {
			if rec.RecurringID != rid {
				done = append(done, rec)
			}
		}
		ws.Done = done
		e.logger.Info("recurring template deleted", zap.String("recurring_id", rid))
		return nil
	})
}

func removeTemplate(list []model.RecurringTask, id string) []model.RecurringTask {
	out := list[:0]
	for _, rt := range list {
		if rt.ID != id {
			out = append(out, rt)
		}
	}
	return out
}
