package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TaskItemData struct {
	Text      string
	Recurring bool
	Category  string
	Subtasks  string
	Selected  bool
}

type DoneItemData struct {
	Text      string
	When      string
	Recurring bool
}

type TasksPanelData struct {
	Open []TaskItemData
	Done []DoneItemData
}

func cursor(selected bool) string {
	if selected {
		return ">"
	}
	return " "
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	if len(data.Open) == 0 {
		b.WriteString(mutedStyle.Render("  (nothing to do)") + "\n")
	}
	for _, t := range data.Open {
		line := fmt.Sprintf("%s [ ] %s", cursor(t.Selected), t.Text)
		if t.Recurring {
			line += " ↻"
		}
		if t.Category != "" {
			line += " #" + t.Category
		}
		if t.Subtasks != "" {
			line += " (" + t.Subtasks + ")"
		}
		b.WriteString(line + "\n")
	}
	if len(data.Done) > 0 {
		b.WriteString("\ndone:\n")
		for _, d := range data.Done {
			text := d.Text
			if d.Recurring {
				text += " ↻"
			}
			b.WriteString(fmt.Sprintf("  [x] %s %s\n", doneStyle.Render(text), mutedStyle.Render(d.When)))
		}
	}
	return strings.TrimSpace(b.String())
}

type TopicData struct {
	Name      string
	Completed string
	Selected  bool
}

type SubjectData struct {
	Name      string
	Done      int
	Total     int
	Collapsed bool
	Topics    []TopicData
}

type SyllabusPanelData struct {
	PageTitle string
	Page      int
	Pages     int
	Subjects  []SubjectData
}

func RenderSyllabusPanel(data SyllabusPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("syllabus: %s (%d/%d)\n", data.PageTitle, data.Page, data.Pages))
	if len(data.Subjects) == 0 {
		b.WriteString(mutedStyle.Render("  (no subjects, try /subject)") + "\n")
	}
	for _, s := range data.Subjects {
		pct := 0
		if s.Total > 0 {
			pct = s.Done * 100 / s.Total
		}
		b.WriteString(fmt.Sprintf("%s  %d/%d %d%%\n", lipgloss.NewStyle().Bold(true).Render(s.Name), s.Done, s.Total, pct))
		if s.Collapsed {
			continue
		}
		for _, t := range s.Topics {
			box := "[ ]"
			tail := ""
			if t.Completed != "" {
				box = "[x]"
				tail = " " + mutedStyle.Render(t.Completed)
			}
			b.WriteString(fmt.Sprintf("%s %s %s%s\n", cursor(t.Selected), box, t.Name, tail))
		}
	}
	return strings.TrimSpace(b.String())
}

type TimetablePanelData struct {
	WeekStart string
	TableView string
	Selected  string
}

func RenderTimetablePanel(data TimetablePanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("timetable: week of %s\n", data.WeekStart))
	b.WriteString(data.TableView + "\n")
	if data.Selected != "" {
		b.WriteString("cell: " + data.Selected)
	}
	return strings.TrimSpace(b.String())
}

type FocusPanelData struct {
	Mode         string
	Timer        string
	Running      bool
	ProgressView string
	ProgressPct  int
	Cycle        int
	Interval     int
	AutoStart    bool
	TodayFocus   int
	DailyGoal    int
	Streak       int
	Longest      int
	Badges       []string
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	state := "paused"
	if data.Running {
		state = "running"
	}
	b.WriteString(fmt.Sprintf("mode: %s (%s)\n", strings.ToUpper(data.Mode), state))
	b.WriteString(fmt.Sprintf("timer: %s\n", data.Timer))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString(fmt.Sprintf("cycle: %d/%d | auto-start: %t\n", data.Cycle, data.Interval, data.AutoStart))
	b.WriteString(fmt.Sprintf("today: %d/%d sessions\n", data.TodayFocus, data.DailyGoal))
	b.WriteString(fmt.Sprintf("streak: %d days (longest %d)\n", data.Streak, data.Longest))
	if len(data.Badges) > 0 {
		b.WriteString("badges: " + strings.Join(data.Badges, " ") + "\n")
	}
	b.WriteString("actions: [space]start/pause [r]reset [n]finish [a]auto-start")
	return b.String()
}

type ReminderData struct {
	Date string
	Text string
}

type NotesPanelData struct {
	Reminders   []ReminderData
	JournalView string
	Stickies    []string
}

func RenderNotesPanel(data NotesPanelData) string {
	var b strings.Builder
	b.WriteString("reminders:\n")
	if len(data.Reminders) == 0 {
		b.WriteString(mutedStyle.Render("  (none upcoming)") + "\n")
	}
	for _, r := range data.Reminders {
		b.WriteString(fmt.Sprintf("  %s %s\n", r.Date, r.Text))
	}
	if len(data.Stickies) > 0 {
		b.WriteString("\nsticky notes:\n")
		for _, s := range data.Stickies {
			b.WriteString("  • " + s + "\n")
		}
	}
	b.WriteString("\njournal:\n")
	if strings.TrimSpace(data.JournalView) == "" {
		b.WriteString(mutedStyle.Render("  (empty, try /journal)"))
	} else {
		b.WriteString(data.JournalView)
	}
	return strings.TrimSpace(b.String())
}

// JournalMarkdown lays out dated entries as one markdown document.
func JournalMarkdown(dates, texts []string) string {
	var b strings.Builder
	for i := range dates {
		b.WriteString("### " + dates[i] + "\n\n")
		b.WriteString(Sanitize(texts[i]) + "\n\n")
	}
	return b.String()
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	Commands    []string
	HelpView    string
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\ncommands:\n  /%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		strings.Join(data.Commands, "\n  /"),
		data.HelpView,
	)
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}
