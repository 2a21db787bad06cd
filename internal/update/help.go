package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/focusdeck/internal/commands"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	global := m.bindings(m.globalBindings())
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		Commands:    commands.Usage(),
		HelpView: m.helpModel.View(helpKeyMap{
			short: global,
			full:  [][]key.Binding{global},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Tasks, Action: "tasks"},
		{Key: m.Keys.Syllabus, Action: "syllabus"},
		{Key: m.Keys.Timetable, Action: "timetable"},
		{Key: m.Keys.Focus, Action: "focus"},
		{Key: m.Keys.Notes, Action: "notes"},
		{Key: "/", Action: "command"},
		{Key: "W", Action: "next workspace"},
		{Key: "T", Action: "theme"},
		{Key: m.Keys.Help, Action: "help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewTasks:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "space", Action: "complete task"},
			{Key: "a", Action: "add task"},
			{Key: "r", Action: "toggle daily repeat"},
			{Key: "x/X", Action: "delete today / delete for good"},
			{Key: "J/K", Action: "move task down/up"},
		}
	case ViewSyllabus:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "space", Action: "toggle topic"},
			{Key: "h/l", Action: "previous/next page"},
			{Key: "x", Action: "delete topic"},
			{Key: "c", Action: "collapse/expand subjects"},
		}
	case ViewTimetable:
		return []KeyBinding{
			{Key: "hjkl", Action: "move cell"},
			{Key: "space", Action: "check cell"},
			{Key: "e", Action: "edit cell"},
			{Key: "x", Action: "clear cell"},
			{Key: "U", Action: "uncheck all"},
		}
	case ViewFocus:
		return []KeyBinding{
			{Key: "space", Action: "start/pause timer"},
			{Key: "r", Action: "reset timer"},
			{Key: "n", Action: "finish session"},
			{Key: "a", Action: "toggle auto-start"},
			{Key: "C", Action: "reset cycle"},
		}
	case ViewNotes:
		return []KeyBinding{
			{Key: "j/k", Action: "scroll journal"},
			{Key: "J", Action: "write journal entry"},
			{Key: "R", Action: "add reminder for today"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) bindings(kbs []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(kbs))
	for _, kb := range kbs {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
