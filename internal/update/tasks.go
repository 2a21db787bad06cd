package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

const doneShown = 10

// taskAt returns the id of the open task at index i and the number of open
// tasks.
func (m Model) taskAt(i int) (string, int) {
	var id string
	var n int
	m.eng.View(func(_ *model.Document, ws *model.Workspace) {
		n = len(ws.Tasks)
		if i >= 0 && i < n {
			id = ws.Tasks[i].ID
		}
	})
	return id, n
}

func (m Model) handleTasksKey(msg tea.KeyMsg) Model {
	id, n := m.taskAt(m.TaskCursor)
	switch msg.String() {
	case "j", "down":
		m.TaskCursor = clamp(m.TaskCursor+1, 0, n-1)
	case "k", "up":
		m.TaskCursor = clamp(m.TaskCursor-1, 0, n-1)
	case "a":
		m.openPalette("add ")
	case " ", "enter":
		if id == "" {
			return m
		}
		res, err := m.eng.CompleteTask(m.ctx, id, true)
		m.report("task done", err)
		m.celebrate(res)
		m.TaskCursor = clamp(m.TaskCursor, 0, n-2)
	case "x":
		if id == "" {
			return m
		}
		m.report("task deleted", m.eng.DeleteTaskOnce(m.ctx, id))
		m.TaskCursor = clamp(m.TaskCursor, 0, n-2)
	case "X":
		if id == "" {
			return m
		}
		m.report("task deleted for good", m.eng.DeleteRecurringPermanently(m.ctx, id))
		m.TaskCursor = clamp(m.TaskCursor, 0, n-2)
	case "r":
		if id == "" {
			return m
		}
		on, err := m.eng.ToggleRecurring(m.ctx, id)
		m.report(recurringStatus(on), err)
	case "J", "K":
		if id == "" {
			return m
		}
		to := m.TaskCursor + 1
		if msg.String() == "K" {
			to = m.TaskCursor - 1
		}
		to = clamp(to, 0, n-1)
		if err := m.eng.MoveTask(m.ctx, id, to); err != nil {
			m.report("", err)
			return m
		}
		m.TaskCursor = to
	}
	return m
}

func recurringStatus(on bool) string {
	if on {
		return "task repeats daily"
	}
	return "task no longer repeats"
}

func (m Model) renderTasksView() string {
	var data views.TasksPanelData
	m.eng.View(func(_ *model.Document, ws *model.Workspace) {
		categories := make(map[string]string, len(ws.TaskCategories))
		for _, c := range ws.TaskCategories {
			categories[c.ID] = c.Name
		}
		for i, t := range ws.Tasks {
			item := views.TaskItemData{Text: t.Text, Recurring: t.IsRecurring(), Selected: i == m.TaskCursor}
			if t.Category != nil {
				item.Category = categories[*t.Category]
			}
			if n := len(t.Subtasks); n > 0 {
				done := 0
				for _, st := range t.Subtasks {
					if st.Done {
						done++
					}
				}
				item.Subtasks = fmt.Sprintf("%d/%d", done, n)
			}
			data.Open = append(data.Open, item)
		}
		for i, d := range ws.Done {
			if i == doneShown {
				break
			}
			data.Done = append(data.Done, views.DoneItemData{
				Text:      d.Text,
				When:      d.CompletedAt().In(m.now().Location()).Format("Jan 2 15:04"),
				Recurring: d.RecurringID != "",
			})
		}
	})
	return views.RenderTasksPanel(data)
}
