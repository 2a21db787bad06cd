package update

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

const (
	reminderWindowDays = 7
	journalShown       = 5
)

func (m Model) handleNotesKey(msg tea.KeyMsg) Model {
	m.journalViewport.SetContent(m.journalContent())
	switch msg.String() {
	case "j", "down":
		m.journalViewport.LineDown(1)
	case "k", "up":
		m.journalViewport.LineUp(1)
	case "J":
		m.openPalette("journal ")
	case "R":
		m.openPalette("remind today ")
	}
	return m
}

// journalContent renders the newest journal entries as markdown in the
// document theme.
func (m Model) journalContent() string {
	entries := m.eng.JournalEntries()
	if len(entries) > journalShown {
		entries = entries[:journalShown]
	}
	if len(entries) == 0 {
		return ""
	}
	dates := make([]string, len(entries))
	texts := make([]string, len(entries))
	for i, e := range entries {
		dates[i], texts[i] = e.Date.String(), e.Text
	}
	return views.RenderMarkdown(views.JournalMarkdown(dates, texts), m.theme())
}

func (m Model) theme() string {
	theme := model.DefaultTheme
	m.eng.View(func(doc *model.Document, _ *model.Workspace) { theme = doc.Theme })
	return theme
}

func (m Model) renderNotesView() string {
	today := m.eng.Today()
	var data views.NotesPanelData
	m.eng.View(func(_ *model.Document, ws *model.Workspace) {
		for i := 0; i < reminderWindowDays; i++ {
			day := today.AddDays(i)
			for _, r := range ws.Reminders[day.String()] {
				data.Reminders = append(data.Reminders, views.ReminderData{Date: day.String(), Text: r.Text})
			}
		}
		for _, n := range ws.StickyNotes {
			line, _, _ := strings.Cut(views.Sanitize(n.Text), "\n")
			if len(n.Files) > 0 {
				names := make([]string, 0, len(n.Files))
				for _, f := range n.Files {
					names = append(names, f.Name)
				}
				sort.Strings(names)
				line += " [" + strings.Join(names, ", ") + "]"
			}
			data.Stickies = append(data.Stickies, line)
		}
	})
	if content := m.journalContent(); content != "" {
		vp := m.journalViewport
		vp.SetContent(content)
		data.JournalView = vp.View()
	}
	return views.RenderNotesPanel(data)
}
