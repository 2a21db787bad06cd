package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/focusdeck/internal/engine"
	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/scheduler"
)

type View string

const (
	ViewTasks     View = "Tasks"
	ViewSyllabus  View = "Syllabus"
	ViewTimetable View = "Timetable"
	ViewFocus     View = "Focus"
	ViewNotes     View = "Notes"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks     string
	Syllabus  string
	Timetable string
	Focus     string
	Notes     string
	Help      string
	Quit      string
}

type CellCursor struct {
	Row int
	Day int
}

type FocusState struct {
	Mode         model.TimerMode
	Running      bool
	EndsAt       time.Time
	RemainingSec int
	TotalSec     int
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// Options wires the model to its runtime collaborators. Timers may be nil,
// in which case the focus countdown completes sessions from its own ticks.
type Options struct {
	Timers               *scheduler.Queue
	Notifier             DesktopNotifier
	DesktopNotifications bool
	Now                  func() time.Time
}

type Model struct {
	CurrentView    View
	TaskCursor     int
	SyllabusCursor int
	Cell           CellCursor
	Focus          FocusState
	Palette        CommandPaletteState
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool

	eng      *engine.Engine
	timers   *scheduler.Queue
	notifier DesktopNotifier
	now      func() time.Time
	ctx      context.Context

	commandInput    textinput.Model
	focusProgress   progress.Model
	helpModel       help.Model
	journalViewport viewport.Model
	timetable       table.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type FocusTickMsg struct{}

type SessionEndMsg struct {
	Event scheduler.SessionEnd
}

// RefreshedMsg reports that a background refresh rolled the workspace over.
type RefreshedMsg struct{}

func NewModel(eng *engine.Engine, opts Options) Model {
	m := Model{
		CurrentView:    ViewTasks,
		eng:            eng,
		timers:         opts.Timers,
		notifier:       opts.Notifier,
		DesktopEnabled: opts.DesktopNotifications,
		now:            opts.Now,
		ctx:            context.Background(),
		Keys: GlobalKeyMap{
			Tasks:     "1",
			Syllabus:  "2",
			Timetable: "3",
			Focus:     "4",
			Notes:     "5",
			Help:      "?",
			Quit:      "q",
		},
	}
	if m.notifier == nil {
		m.notifier = NoopDesktopNotifier{}
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.initBubbleComponents()
	m.resetFocus(model.TimerModeFocus)
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.focusProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))
	m.helpModel = help.New()
	m.journalViewport = viewport.New(54, 14)

	cols := []table.Column{{Title: "Time", Width: 11}}
	for _, day := range weekdayNames {
		cols = append(cols, table.Column{Title: day, Width: 6})
	}
	m.timetable = table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(8))
}

var weekdayNames = [engine.DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
