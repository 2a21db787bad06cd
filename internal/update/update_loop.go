package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.timers != nil {
		return waitForSessionEndCmd(m.timers.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case FocusTickMsg:
		return m.onFocusTick()
	case SessionEndMsg:
		var cmd tea.Cmd
		if typed.Event.ID == focusTimerID && m.Focus.Running {
			m, cmd = m.finishSession()
		}
		if m.timers != nil {
			return m, tea.Batch(cmd, waitForSessionEndCmd(m.timers.C()))
		}
		return m, cmd
	case RefreshedMsg:
		m.clampCursors()
		m.Status = StatusBar{Text: fmt.Sprintf("new day %s: recurring tasks and timetable refreshed", m.eng.Today())}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if m.Palette.Active {
		if keyStr == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		return m.handlePaletteKey(msg)
	}

	switch keyStr {
	case "/", ":":
		m.openPalette("")
		return m, nil
	case m.Keys.Tasks:
		m.CurrentView = ViewTasks
		return m, nil
	case m.Keys.Syllabus:
		m.CurrentView = ViewSyllabus
		return m, nil
	case m.Keys.Timetable:
		m.CurrentView = ViewTimetable
		return m, nil
	case m.Keys.Focus:
		m.CurrentView = ViewFocus
		return m, nil
	case m.Keys.Notes:
		m.CurrentView = ViewNotes
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case "T":
		theme, err := m.eng.ToggleTheme(m.ctx)
		m.report("theme: "+theme, err)
		return m, nil
	case "W":
		names, current := m.eng.WorkspaceNames()
		next := (current + 1) % len(names)
		if err := m.eng.SelectWorkspace(m.ctx, next); err != nil {
			m.report("", err)
			return m, nil
		}
		m.resetCursors()
		m.Status = StatusBar{Text: fmt.Sprintf("workspace %d: %s", next+1, names[next])}
		return m, nil
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.CurrentView {
	case ViewTasks:
		return m.handleTasksKey(msg), nil
	case ViewSyllabus:
		return m.handleSyllabusKey(msg), nil
	case ViewTimetable:
		return m.handleTimetableKey(msg), nil
	case ViewFocus:
		return m.handleFocusKey(msg)
	case ViewNotes:
		return m.handleNotesKey(msg), nil
	}
	return m, nil
}

// clampCursors keeps list cursors inside lists that a refresh may have
// shortened.
func (m *Model) clampCursors() {
	_, n := m.taskAt(0)
	m.TaskCursor = clamp(m.TaskCursor, 0, n-1)
	m.SyllabusCursor = clamp(m.SyllabusCursor, 0, len(m.visibleTopics())-1)
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	var left string
	switch m.CurrentView {
	case ViewTasks:
		left = m.renderTasksView()
	case ViewSyllabus:
		left = m.renderSyllabusView()
	case ViewTimetable:
		left = m.renderTimetableView()
	case ViewFocus:
		left = m.renderFocusView()
	case ViewNotes:
		left = m.renderNotesView()
	}
	right := views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()) + m.renderHelpIfVisible()

	return views.RenderApp(views.AppData{
		Header:       m.header(),
		Accent:       m.accent(),
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   m.Status.Text,
		StatusError:  m.Status.IsError,
		Notification: m.renderLastNotification(),
		Footer: fmt.Sprintf("keys: %s tasks | %s syllabus | %s timetable | %s focus | %s notes | / cmd | %s help | %s quit",
			m.Keys.Tasks, m.Keys.Syllabus, m.Keys.Timetable, m.Keys.Focus, m.Keys.Notes, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) header() string {
	var name string
	var index, total, streak int
	m.eng.View(func(doc *model.Document, ws *model.Workspace) {
		name = ws.Name
		index, total = doc.Current+1, len(doc.Workspaces)
		streak = ws.FocusStreak.Current
	})
	parts := []string{
		"focusdeck",
		fmt.Sprintf("%s (%d/%d)", name, index, total),
		string(m.CurrentView),
		fmt.Sprintf("streak %d", streak),
	}
	if m.eng.LastSaveError() != nil {
		parts = append(parts, "NOT SAVED")
	}
	return strings.Join(parts, " | ")
}

func (m Model) accent() string {
	var accent string
	m.eng.View(func(doc *model.Document, _ *model.Workspace) { accent = doc.Accent })
	return accent
}

func (m Model) renderLastNotification() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	last := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(last.Level, fmt.Sprintf("%s %s: %s", last.At.Format("15:04"), last.Title, last.Body))
}

func levelFromError(isError bool) string {
	if isError {
		return "error"
	}
	return "info"
}

func isKnownView(v View) bool {
	switch v {
	case ViewTasks, ViewSyllabus, ViewTimetable, ViewFocus, ViewNotes:
		return true
	default:
		return false
	}
}
