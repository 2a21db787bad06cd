package update

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/focusdeck/internal/engine"
	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/scheduler"
	"github.com/sandeepkv93/focusdeck/internal/storage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// flakyKV fails every write while failing is set.
type flakyKV struct {
	*storage.MemoryStore
	failing bool
}

func (f *flakyKV) Put(ctx context.Context, key string, value []byte) error {
	if f.failing {
		return errors.New("disk full")
	}
	return f.MemoryStore.Put(ctx, key, value)
}

func newTestModel(t *testing.T) (Model, *engine.Engine, *fakeClock, *flakyKV) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)}
	kv := &flakyKV{MemoryStore: storage.NewMemoryStore()}
	eng := engine.New(storage.NewGateway(kv, nil), engine.WithClock(clock.Now), engine.WithLocation(time.UTC))
	if _, err := eng.Start(context.Background()); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	return NewModel(eng, Options{Now: clock.Now}), eng, clock, kv
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return out
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func runCommand(t *testing.T, m Model, line string) Model {
	t.Helper()
	m = send(t, m, keys("/"))
	if !m.Palette.Active {
		t.Fatal("expected palette to open")
	}
	m = send(t, m, keys(line))
	return send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func workspace(eng *engine.Engine) model.Workspace {
	var out model.Workspace
	eng.View(func(_ *model.Document, ws *model.Workspace) { out = *ws })
	return out
}

func TestViewSwitching(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected tasks view first, got %s", m.CurrentView)
	}
	for key, want := range map[string]View{"2": ViewSyllabus, "3": ViewTimetable, "4": ViewFocus, "5": ViewNotes, "1": ViewTasks} {
		m = send(t, m, keys(key))
		if m.CurrentView != want {
			t.Fatalf("key %s: view = %s, want %s", key, m.CurrentView, want)
		}
		if !strings.Contains(m.View(), string(want)) {
			t.Fatalf("key %s: header does not name %s", key, want)
		}
	}
	m = send(t, m, SwitchViewMsg{View: "Nowhere"})
	if m.CurrentView != ViewTasks {
		t.Fatalf("unknown view must be ignored, got %s", m.CurrentView)
	}
}

func TestPaletteAddAndComplete(t *testing.T) {
	m, eng, _, _ := newTestModel(t)
	m = runCommand(t, m, "add write tests")
	if m.Palette.Active {
		t.Fatal("palette should close after enter")
	}
	ws := workspace(eng)
	if len(ws.Tasks) != 1 || ws.Tasks[0].Text != "write tests" {
		t.Fatalf("unexpected tasks %+v", ws.Tasks)
	}

	m = runCommand(t, m, "done 1")
	ws = workspace(eng)
	if len(ws.Tasks) != 0 || len(ws.Done) != 1 {
		t.Fatalf("expected task moved to done, tasks=%d done=%d", len(ws.Tasks), len(ws.Done))
	}
	if m.Status.IsError {
		t.Fatalf("unexpected error status %q", m.Status.Text)
	}

	m = runCommand(t, m, "done 3")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "no task 3") {
		t.Fatalf("expected position error, got %+v", m.Status)
	}
}

func TestPaletteEscapeAndParseError(t *testing.T) {
	m, eng, _, _ := newTestModel(t)
	m = send(t, m, keys("/"))
	m = send(t, m, keys("add never"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Palette.Active || len(workspace(eng).Tasks) != 0 {
		t.Fatal("escape must discard the command")
	}
	m = runCommand(t, m, "fly away")
	if !m.Status.IsError {
		t.Fatalf("expected unknown command error, got %+v", m.Status)
	}
}

func TestTaskKeys(t *testing.T) {
	m, eng, _, _ := newTestModel(t)
	m = runCommand(t, m, "add first")
	m = runCommand(t, m, "add second")

	m = send(t, m, keys("r"))
	if !workspace(eng).Tasks[0].IsRecurring() {
		t.Fatal("expected first task to repeat")
	}
	m = send(t, m, keys("J"))
	if m.TaskCursor != 1 || workspace(eng).Tasks[1].Text != "first" {
		t.Fatalf("expected first task moved down, cursor=%d", m.TaskCursor)
	}
	m = send(t, m, keys("X"))
	ws := workspace(eng)
	if len(ws.Tasks) != 1 || len(ws.RecurringTasks) != 0 {
		t.Fatalf("permanent delete left tasks=%d templates=%d", len(ws.Tasks), len(ws.RecurringTasks))
	}
	if m.TaskCursor != 0 {
		t.Fatalf("cursor should clamp, got %d", m.TaskCursor)
	}
}

func TestWorkspaceCommandsAndCycling(t *testing.T) {
	m, eng, _, _ := newTestModel(t)
	m = runCommand(t, m, "add only in main")
	m = runCommand(t, m, "ws new Study")
	names, idx := eng.WorkspaceNames()
	if len(names) != 2 || idx != 1 || names[1] != "Study" {
		t.Fatalf("unexpected workspaces %v current %d", names, idx)
	}
	if len(workspace(eng).Tasks) != 0 {
		t.Fatal("new workspace must start empty")
	}
	m = send(t, m, keys("W"))
	if _, idx = eng.WorkspaceNames(); idx != 0 {
		t.Fatalf("W should wrap to the first workspace, got %d", idx)
	}
	if !strings.Contains(m.View(), "(1/2)") {
		t.Fatal("header should show workspace position")
	}
}

func TestFocusSessionWithoutTimerQueue(t *testing.T) {
	m, eng, clock, _ := newTestModel(t)
	m = send(t, m, keys("4"))
	if m.Focus.Mode != model.TimerModeFocus || m.Focus.TotalSec != 25*60 {
		t.Fatalf("unexpected focus state %+v", m.Focus)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.Focus.Running {
		t.Fatal("expected timer running")
	}

	clock.Advance(10 * time.Minute)
	m = send(t, m, FocusTickMsg{})
	if m.Focus.RemainingSec != 15*60 {
		t.Fatalf("remaining = %d, want %d", m.Focus.RemainingSec, 15*60)
	}

	clock.Advance(15 * time.Minute)
	m = send(t, m, FocusTickMsg{})
	if m.Focus.Running || m.Focus.Mode != model.TimerModeShort {
		t.Fatalf("expected short break loaded and stopped, got %+v", m.Focus)
	}
	ws := workspace(eng)
	if ws.FocusStreak.Current != 1 || ws.Stats[eng.Today().String()].Focus != 1 {
		t.Fatalf("session not recorded: streak=%d stats=%+v", ws.FocusStreak.Current, ws.Stats)
	}
	if len(m.Notifications) == 0 {
		t.Fatal("expected an in-app notification")
	}
}

func TestSessionEndMessageIgnoredWhenIdle(t *testing.T) {
	m, eng, _, _ := newTestModel(t)
	m = send(t, m, SessionEndMsg{Event: scheduler.SessionEnd{ID: focusTimerID, Mode: model.TimerModeFocus}})
	if workspace(eng).FocusStreak.Current != 0 {
		t.Fatal("a stale session end must not count")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = send(t, m, SessionEndMsg{Event: scheduler.SessionEnd{ID: focusTimerID, Mode: model.TimerModeFocus}})
	if m.Focus.Mode != model.TimerModeShort || workspace(eng).FocusStreak.Current != 1 {
		t.Fatalf("session end not applied: %+v", m.Focus)
	}
}

func TestFocusCommandStartsMode(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	m = runCommand(t, m, "focus long")
	if m.CurrentView != ViewFocus || m.Focus.Mode != model.TimerModeLong || !m.Focus.Running {
		t.Fatalf("unexpected focus state view=%s %+v", m.CurrentView, m.Focus)
	}
	if m.Focus.TotalSec != 15*60 {
		t.Fatalf("long break should be 15 minutes, got %d", m.Focus.TotalSec)
	}
}

func TestTimetableAndSyllabusCommands(t *testing.T) {
	m, eng, _, _ := newTestModel(t)
	m = runCommand(t, m, "cell 1 wed gym")
	if m.CurrentView != ViewTimetable || m.Cell != (CellCursor{Row: 0, Day: 2}) {
		t.Fatalf("cursor should follow the edited cell, got %+v", m.Cell)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	ws := workspace(eng)
	if !ws.Timetable.Cells[model.CellKey(0, 2)].Completed {
		t.Fatal("space should check the cell")
	}

	m = runCommand(t, m, "subject Physics")
	m = runCommand(t, m, "topic 1 Optics")
	ws = workspace(eng)
	page := ws.SyllabusPages[ws.SyllabusCurrentPage]
	if len(page.Subjects) != 1 || len(page.Subjects[0].Topics) != 1 {
		t.Fatalf("unexpected syllabus %+v", page.Subjects)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if workspace(eng).SyllabusPages[0].Subjects[0].Topics[0].CompletionDate.IsZero() {
		t.Fatal("space should toggle the topic")
	}
}

func TestNotesCommands(t *testing.T) {
	m, eng, _, _ := newTestModel(t)
	m = runCommand(t, m, "journal today shipped the release")
	m = runCommand(t, m, "remind tomorrow dentist")
	m = runCommand(t, m, "note buy milk")
	ws := workspace(eng)
	if len(ws.Journal) != 1 || len(ws.Reminders["2026-02-12"]) != 1 || len(ws.StickyNotes) != 1 {
		t.Fatalf("journal=%d reminders=%v notes=%d", len(ws.Journal), ws.Reminders, len(ws.StickyNotes))
	}
	if m.CurrentView != ViewNotes {
		t.Fatalf("expected notes view, got %s", m.CurrentView)
	}
	if !strings.Contains(m.View(), "dentist") {
		t.Fatal("upcoming reminder should be listed")
	}
}

func TestSaveFailureIsSurfaced(t *testing.T) {
	m, eng, _, kv := newTestModel(t)
	kv.failing = true
	m = runCommand(t, m, "add unsaved")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "disk full") {
		t.Fatalf("expected save error in status, got %+v", m.Status)
	}
	if len(workspace(eng).Tasks) != 1 {
		t.Fatal("in-memory state must keep the change")
	}
	if !strings.Contains(m.View(), "NOT SAVED") {
		t.Fatal("header should flag the failed save")
	}

	kv.failing = false
	m = runCommand(t, m, "add saved")
	if strings.Contains(m.View(), "NOT SAVED") {
		t.Fatal("flag should clear after a successful save")
	}
}

func TestRefreshedAndThemeToggle(t *testing.T) {
	m, eng, _, _ := newTestModel(t)
	m = send(t, m, RefreshedMsg{})
	if !strings.Contains(m.Status.Text, "new day 2026-02-11") {
		t.Fatalf("unexpected status %q", m.Status.Text)
	}
	m = send(t, m, keys("T"))
	var theme string
	eng.View(func(doc *model.Document, _ *model.Workspace) { theme = doc.Theme })
	if theme == model.DefaultTheme {
		t.Fatalf("theme should toggle away from %s", model.DefaultTheme)
	}
	if m.Status.IsError {
		t.Fatalf("unexpected error %q", m.Status.Text)
	}
}

func TestQuit(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	next, cmd := m.Update(keys("q"))
	if !next.(Model).Quitting || cmd == nil {
		t.Fatal("q should quit")
	}
}
