package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	CurrentVersion = 7
	LegacyVersion  = 6
)

var (
	ErrInvalidCellKey = errors.New("model: invalid timetable cell key")
	ErrInvalidMode    = errors.New("model: invalid timer mode")
)

// Document is the root of the persisted state.
type Document struct {
	Version    int         `json:"version"`
	Theme      string      `json:"theme"`
	Accent     string      `json:"accent"`
	Workspaces []Workspace `json:"workspaces"`
	Current    int         `json:"current"`
}

type Workspace struct {
	Name                string                `json:"name"`
	Tasks               []Task                `json:"tasks"`
	Done                []DoneRecord          `json:"done"`
	RecurringTasks      []RecurringTask       `json:"recurringTasks"`
	LastRecurringCheck  Date                  `json:"lastRecurringCheck"`
	SyllabusPages       []SyllabusPage        `json:"syllabusPages"`
	SyllabusCurrentPage int                   `json:"syllabusCurrentPage"`
	Stats               map[string]DayStats   `json:"stats"`
	Timetable           Timetable             `json:"timetable"`
	StickyNotes         []StickyNote          `json:"stickyNotes"`
	Reminders           map[string][]Reminder `json:"reminders"`
	Flashcards          []Deck                `json:"flashcards"`
	Journal             []JournalEntry        `json:"journal"`
	TaskCategories      []TaskCategory        `json:"taskCategories"`
	Timer               TimerSettings         `json:"timer"`
	FocusStreak         FocusStreak           `json:"focusStreak"`
	UnlockedBadges      []BadgeKind           `json:"unlockedBadges"`
	CustomColors        map[string]string     `json:"customColors"`
}

type Task struct {
	ID               string    `json:"id"`
	Text             string    `json:"text"`
	Created          int64     `json:"created"`
	Subtasks         []Subtask `json:"subtasks"`
	IsCollapsed      bool      `json:"isCollapsed"`
	IsCompletedToday bool      `json:"isCompletedToday"`
	Category         *string   `json:"category"`
	RecurringID      string    `json:"recurringId,omitempty"`
}

func (t Task) IsRecurring() bool {
	return t.RecurringID != ""
}

func (t Task) CreatedAt() time.Time {
	return time.UnixMilli(t.Created)
}

type Subtask struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// DoneRecord is a completed-task entry; When is a unix millisecond timestamp.
type DoneRecord struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	When        int64  `json:"when"`
	RecurringID string `json:"recurringId,omitempty"`
}

func (r DoneRecord) CompletedAt() time.Time {
	return time.UnixMilli(r.When)
}

type RecurringTask struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type SyllabusPage struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Subjects []Subject `json:"subjects"`
}

type Subject struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Topics      []Topic `json:"topics"`
	IsCollapsed bool    `json:"isCollapsed"`
}

// Progress returns completed and total topic counts.
func (s Subject) Progress() (done, total int) {
	for _, t := range s.Topics {
		if t.IsComplete() {
			done++
		}
	}
	return done, len(s.Topics)
}

type Topic struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CompletionDate Date   `json:"completionDate"`
}

func (t Topic) IsComplete() bool {
	return !t.CompletionDate.IsZero()
}

type DayStats struct {
	Tasks int `json:"tasks"`
	Focus int `json:"focus"`
}

type Timetable struct {
	Rows          []string        `json:"rows"`
	Cells         map[string]Cell `json:"cells"`
	WeekStartDate Date            `json:"weekStartDate"`
	LastUsedColor string          `json:"lastUsedColor"`
}

type Cell struct {
	Text      string `json:"text"`
	Color     string `json:"color"`
	Completed bool   `json:"completed"`
}

// CellKey builds the "row:day" key of a timetable cell.
func CellKey(row, day int) string {
	return strconv.Itoa(row) + ":" + strconv.Itoa(day)
}

func ParseCellKey(key string) (row, day int, err error) {
	r, d, ok := strings.Cut(key, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCellKey, key)
	}
	row, rowErr := strconv.Atoi(r)
	day, dayErr := strconv.Atoi(d)
	if rowErr != nil || dayErr != nil || row < 0 || day < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCellKey, key)
	}
	return row, day, nil
}

type StickyNote struct {
	ID    string `json:"id"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Text  string `json:"text"`
	Files []Link `json:"files"`
	Color string `json:"color"`
}

// Link is a web link attached to a sticky note.
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type Reminder struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Deck struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Cards []Card `json:"cards"`
}

type Card struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

type JournalEntry struct {
	ID   string `json:"id"`
	Date Date   `json:"date"`
	Text string `json:"text"`
}

type TaskCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type TimerMode string

const (
	TimerModeFocus TimerMode = "focus"
	TimerModeShort TimerMode = "short"
	TimerModeLong  TimerMode = "long"
)

func (m TimerMode) IsValid() bool {
	switch m {
	case TimerModeFocus, TimerModeShort, TimerModeLong:
		return true
	default:
		return false
	}
}

// TimerDurations are expressed in minutes.
type TimerDurations struct {
	Focus int `json:"focus"`
	Short int `json:"short"`
	Long  int `json:"long"`
}

type TimerSettings struct {
	Dur               TimerDurations `json:"dur"`
	CurrentCycle      int            `json:"currentCycle"`
	LongBreakInterval int            `json:"longBreakInterval"`
	AutoStart         bool           `json:"autoStart"`
}

// Duration returns the configured length of a mode, defaulting to 25 minutes.
func (t TimerSettings) Duration(mode TimerMode) time.Duration {
	minutes := 0
	switch mode {
	case TimerModeFocus:
		minutes = t.Dur.Focus
	case TimerModeShort:
		minutes = t.Dur.Short
	case TimerModeLong:
		minutes = t.Dur.Long
	}
	if minutes <= 0 {
		minutes = 25
	}
	return time.Duration(minutes) * time.Minute
}

type FocusStreak struct {
	Current         int  `json:"current"`
	LastSessionDate Date `json:"lastSessionDate"`
	DailyGoal       int  `json:"dailyGoal"`
	Longest         int  `json:"longest"`
	TotalDays       int  `json:"totalDays"`
}

// NewID returns an opaque identifier for any document entity.
func NewID() string {
	return uuid.NewString()
}
