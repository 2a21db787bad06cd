package model

const (
	DefaultTheme         = "dark"
	DefaultAccent        = "#6ea8fe"
	DefaultWorkspaceName = "Default"
	DefaultPageTitle     = "Main"
	DefaultCellColor     = "#ffd36b"
	DefaultDailyGoal     = 4
)

// AccentChoices is the palette offered for the accent and new sticky notes.
var AccentChoices = []string{"#6ea8fe", "#8bd5ff", "#9b59b6", "#ff6b6b", "#59d18c", "#ffcc66", "#00d1b2", "#ff7ab2", "#36cfc9"}

var defaultTimetableRows = []string{"09:00-10:00", "10:00-11:00", "11:00-12:00"}

func DefaultDocument() *Document {
	return &Document{
		Version:    CurrentVersion,
		Theme:      DefaultTheme,
		Accent:     DefaultAccent,
		Workspaces: []Workspace{DefaultWorkspace(DefaultWorkspaceName)},
		Current:    0,
	}
}

// DefaultWorkspace returns a fully populated empty workspace. Every call
// returns fresh collections.
func DefaultWorkspace(name string) Workspace {
	return Workspace{
		Name:                name,
		Tasks:               []Task{},
		Done:                []DoneRecord{},
		RecurringTasks:      []RecurringTask{},
		SyllabusPages:       []SyllabusPage{NewSyllabusPage(DefaultPageTitle)},
		SyllabusCurrentPage: 0,
		Stats:               map[string]DayStats{},
		Timetable:           DefaultTimetable(),
		StickyNotes:         []StickyNote{},
		Reminders:           map[string][]Reminder{},
		Flashcards:          []Deck{},
		Journal:             []JournalEntry{},
		TaskCategories:      DefaultTaskCategories(),
		Timer:               DefaultTimerSettings(),
		FocusStreak:         FocusStreak{DailyGoal: DefaultDailyGoal},
		UnlockedBadges:      []BadgeKind{},
		CustomColors:        map[string]string{},
	}
}

func NewSyllabusPage(title string) SyllabusPage {
	return SyllabusPage{ID: NewID(), Title: title, Subjects: []Subject{}}
}

func DefaultTimetable() Timetable {
	return Timetable{
		Rows:          DefaultTimetableRows(),
		Cells:         map[string]Cell{},
		LastUsedColor: DefaultCellColor,
	}
}

func DefaultTimetableRows() []string {
	return append([]string(nil), defaultTimetableRows...)
}

func DefaultTaskCategories() []TaskCategory {
	return []TaskCategory{
		{ID: "urgent", Name: "Urgent", Color: "#ff6b6b"},
		{ID: "casual", Name: "Casual", Color: "#59d18c"},
	}
}

func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		Dur:               TimerDurations{Focus: 25, Short: 5, Long: 15},
		CurrentCycle:      1,
		LongBreakInterval: 4,
		AutoStart:         true,
	}
}
