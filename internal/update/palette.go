package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/focusdeck/internal/commands"
	"github.com/sandeepkv93/focusdeck/internal/model"
)

func (m *Model) openPalette(prefill string) {
	m.Palette.Active = true
	m.Palette.Input = prefill
	m.commandInput.SetValue(prefill)
	m.commandInput.CursorEnd()
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, m.paletteHandlers(&follow))
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, follow
	}
	if res.Message != "" {
		m.Status = StatusBar{Text: res.Message}
	}
	return m, follow
}

func (m *Model) taskByPosition(pos int) (string, error) {
	id, n := m.taskAt(pos - 1)
	if id == "" {
		return "", &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task %d (have %d)", pos, n)}
	}
	return id, nil
}

func (m *Model) subjectByPosition(pos int) (string, error) {
	var id string
	m.eng.View(func(_ *model.Document, ws *model.Workspace) {
		page := selectedPage(ws)
		if page != nil && pos >= 1 && pos <= len(page.Subjects) {
			id = page.Subjects[pos-1].ID
		}
	})
	if id == "" {
		return "", &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no subject %d on this page", pos)}
	}
	return id, nil
}

// paletteHandlers binds palette commands to engine operations. Handlers that
// need to run a bubbletea command store it in follow.
func (m *Model) paletteHandlers(follow *tea.Cmd) commands.Handlers {
	ok := func(format string, args ...any) (commands.Result, error) {
		return commands.Result{Message: fmt.Sprintf(format, args...)}, nil
	}
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if _, err := m.eng.AddTask(m.ctx, a.Text); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewTasks
			return ok("added task: %s", a.Text)
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			id, err := m.taskByPosition(a.Position)
			if err != nil {
				return commands.Result{}, err
			}
			res, err := m.eng.CompleteTask(m.ctx, id, true)
			if err != nil {
				return commands.Result{}, err
			}
			m.celebrate(res)
			return ok("task %d done", a.Position)
		},
		Delete: func(a commands.DeleteArgs) (commands.Result, error) {
			id, err := m.taskByPosition(a.Position)
			if err != nil {
				return commands.Result{}, err
			}
			if a.Scope == commands.ScopeAll {
				err = m.eng.DeleteRecurringPermanently(m.ctx, id)
			} else {
				err = m.eng.DeleteTaskOnce(m.ctx, id)
			}
			if err != nil {
				return commands.Result{}, err
			}
			return ok("task %d deleted (%s)", a.Position, a.Scope)
		},
		Recur: func(a commands.RecurArgs) (commands.Result, error) {
			id, err := m.taskByPosition(a.Position)
			if err != nil {
				return commands.Result{}, err
			}
			on, err := m.eng.ToggleRecurring(m.ctx, id)
			if err != nil {
				return commands.Result{}, err
			}
			return ok("%s", recurringStatus(on))
		},
		Cell: func(a commands.CellArgs) (commands.Result, error) {
			if err := m.eng.SetCell(m.ctx, a.Row, a.Day, a.Text, ""); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewTimetable
			m.Cell = CellCursor{Row: a.Row, Day: a.Day}
			return ok("cell %s %d updated", weekdayNames[a.Day], a.Row+1)
		},
		Remind: func(a commands.RemindArgs) (commands.Result, error) {
			date, err := commands.ResolveDate(a.Date, m.eng.Today())
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.eng.AddReminder(m.ctx, date, a.Text); err != nil {
				return commands.Result{}, err
			}
			return ok("reminder set for %s", date)
		},
		Journal: func(a commands.JournalArgs) (commands.Result, error) {
			date, err := commands.ResolveDate(a.Date, m.eng.Today())
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.eng.AddJournalEntry(m.ctx, date, a.Text); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewNotes
			return ok("journal entry added for %s", date)
		},
		WS: func(a commands.WSArgs) (commands.Result, error) {
			switch a.Action {
			case commands.WSNew:
				i, err := m.eng.AddWorkspace(m.ctx, a.Name)
				if err != nil {
					return commands.Result{}, err
				}
				m.resetCursors()
				return ok("workspace %d created", i+1)
			case commands.WSRename:
				if err := m.eng.RenameWorkspace(m.ctx, a.Name); err != nil {
					return commands.Result{}, err
				}
				return ok("workspace renamed to %s", a.Name)
			default:
				if err := m.eng.SelectWorkspace(m.ctx, a.Position-1); err != nil {
					return commands.Result{}, err
				}
				m.resetCursors()
				return ok("switched to workspace %d", a.Position)
			}
		},
		Focus: func(a commands.FocusArgs) (commands.Result, error) {
			m.resetFocus(a.Mode)
			m.CurrentView = ViewFocus
			*follow = m.startFocus()
			return ok("%s session started", a.Mode)
		},
		Accent: func(a commands.AccentArgs) (commands.Result, error) {
			if err := m.eng.SetAccent(m.ctx, a.Color); err != nil {
				return commands.Result{}, err
			}
			return ok("accent set to %s", a.Color)
		},
		Subject: func(a commands.SubjectArgs) (commands.Result, error) {
			if _, err := m.eng.AddSubject(m.ctx, a.Name); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewSyllabus
			return ok("subject added: %s", a.Name)
		},
		Topic: func(a commands.TopicArgs) (commands.Result, error) {
			id, err := m.subjectByPosition(a.Position)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.eng.AddTopic(m.ctx, id, a.Name); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewSyllabus
			return ok("topic added: %s", a.Name)
		},
		Page: func(a commands.PageArgs) (commands.Result, error) {
			page, err := m.eng.AddPage(m.ctx, a.Title)
			if err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewSyllabus
			return ok("page added: %s", page.Title)
		},
		Note: func(a commands.NoteArgs) (commands.Result, error) {
			if _, err := m.eng.AddStickyNote(m.ctx, a.Text); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewNotes
			return ok("sticky note added")
		},
	}
}

func (m *Model) resetCursors() {
	m.TaskCursor = 0
	m.SyllabusCursor = 0
	m.Cell = CellCursor{}
	m.resetFocus(model.TimerModeFocus)
}
