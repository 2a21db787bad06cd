package migrate

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

var today = model.Date{Year: 2026, Month: 2, Day: 11}

func parse(t *testing.T, raw string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return out
}

func roundTrip(t *testing.T, doc *model.Document) map[string]any {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	return parse(t, string(data))
}

const legacyV6 = `{
  "version": 6,
  "theme": "light",
  "current": 0,
  "workspaces": [{
    "name": "Study",
    "tasks": [{"id": "t1", "text": "read", "created": 1700000000000, "subtasks": []}],
    "syllabus": [{
      "id": "s1", "name": "Physics",
      "topics": [
        {"id": "p1", "name": "Optics", "done": true},
        {"id": "p2", "name": "Waves", "done": false}
      ]
    }],
    "stats": {"2026-02-01": {"tasks": 2, "focus": 1}, "2026-02-02": {"tasks": 1, "focus": 0}},
    "timer": {"dur": {"focus": 50, "short": 10, "long": 20}, "alarmDur": 3, "currentCycle": 2, "longBreakInterval": 4},
    "focusStreak": {"current": 2, "lastSessionDate": "2026-02-02", "dailyGoal": 4, "longest": 1}
  }]
}`

func TestMigrateLegacyDocument(t *testing.T) {
	doc := Migrate(parse(t, legacyV6), today)

	if doc.Version != model.CurrentVersion {
		t.Fatalf("expected version %d, got %d", model.CurrentVersion, doc.Version)
	}
	if doc.Theme != "light" || doc.Accent != model.DefaultAccent {
		t.Fatalf("unexpected preferences: theme=%q accent=%q", doc.Theme, doc.Accent)
	}
	ws := doc.Workspaces[0]
	if ws.Name != "Study" {
		t.Fatalf("expected workspace name preserved, got %q", ws.Name)
	}
	if len(ws.SyllabusPages) != 1 || ws.SyllabusPages[0].Title != model.DefaultPageTitle {
		t.Fatalf("expected one Main page, got %+v", ws.SyllabusPages)
	}
	topics := ws.SyllabusPages[0].Subjects[0].Topics
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}
	if topics[0].CompletionDate != today || topics[1].IsComplete() {
		t.Fatalf("unexpected completion dates: %+v", topics)
	}
	if !ws.Timer.AutoStart || ws.Timer.Dur.Focus != 50 || ws.Timer.CurrentCycle != 2 {
		t.Fatalf("unexpected timer: %+v", ws.Timer)
	}
	if ws.FocusStreak.TotalDays != 2 {
		t.Fatalf("expected totalDays backfilled from stats, got %d", ws.FocusStreak.TotalDays)
	}
	if ws.FocusStreak.Longest < ws.FocusStreak.Current {
		t.Fatalf("longest must not trail current: %+v", ws.FocusStreak)
	}
	if ws.Timetable.WeekStartDate != today.WeekStart() {
		t.Fatalf("expected week start %s, got %s", today.WeekStart(), ws.Timetable.WeekStartDate)
	}
	if len(ws.TaskCategories) != 2 || ws.CustomColors == nil || ws.Reminders == nil {
		t.Fatalf("expected defaults filled: cats=%v colors=%v reminders=%v", ws.TaskCategories, ws.CustomColors, ws.Reminders)
	}

	out := roundTrip(t, doc)
	rawWS := out["workspaces"].([]any)[0].(map[string]any)
	if _, ok := rawWS["syllabus"]; ok {
		t.Fatal("legacy syllabus key must be removed")
	}
	rawTimer := rawWS["timer"].(map[string]any)
	if _, ok := rawTimer["alarmDur"]; ok {
		t.Fatal("alarmDur must be removed")
	}
	rawTopic := rawWS["syllabusPages"].([]any)[0].(map[string]any)["subjects"].([]any)[0].(map[string]any)["topics"].([]any)[1].(map[string]any)
	if _, ok := rawTopic["done"]; ok {
		t.Fatal("legacy done flag must be removed")
	}
	if v, ok := rawTopic["completionDate"]; !ok || v != nil {
		t.Fatalf("completionDate must be present and null, got %v (present=%v)", v, ok)
	}
}

func TestMigrateFillsEveryDefaultField(t *testing.T) {
	doc := Migrate(parse(t, `{"version": 3, "workspaces": [{"name": "bare"}]}`), today)
	got := roundTrip(t, doc)["workspaces"].([]any)[0].(map[string]any)

	def := model.DefaultDocument()
	want := roundTrip(t, def)["workspaces"].([]any)[0].(map[string]any)
	for key := range want {
		if _, ok := got[key]; !ok {
			t.Fatalf("field %q missing after migration", key)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	first := Migrate(parse(t, legacyV6), today)
	second := Migrate(roundTrip(t, first), today)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second migration changed the document:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if len(second.Workspaces[0].SyllabusPages) != 1 {
		t.Fatalf("syllabus pages were wrapped twice: %d", len(second.Workspaces[0].SyllabusPages))
	}
	if len(second.Workspaces[0].TaskCategories) != 2 {
		t.Fatalf("default categories injected twice: %d", len(second.Workspaces[0].TaskCategories))
	}
}

func TestMigrateToleratesMalformedFields(t *testing.T) {
	raw := parse(t, `{
	  "version": 5,
	  "current": 9,
	  "workspaces": [
	    "garbage",
	    {"name": "ok", "tasks": "nope", "timer": 4, "stats": [], "focusStreak": {"current": "x", "longest": 3},
	     "unlockedBadges": ["streak1", "streak1", "made-up"],
	     "timetable": {"cells": {"0:1": {"text": "gym", "completed": true}, "bad": {"text": "x"}}}}
	  ]
	}`)
	doc := Migrate(raw, today)
	if len(doc.Workspaces) != 1 || doc.Current != 0 {
		t.Fatalf("expected one workspace and clamped index, got %d / %d", len(doc.Workspaces), doc.Current)
	}
	ws := doc.Workspaces[0]
	if ws.Tasks == nil || len(ws.Tasks) != 0 {
		t.Fatalf("expected empty task list, got %+v", ws.Tasks)
	}
	if ws.Timer != model.DefaultTimerSettings() {
		t.Fatalf("expected default timer, got %+v", ws.Timer)
	}
	if ws.FocusStreak.Longest != 3 {
		t.Fatalf("expected valid streak fields kept, got %+v", ws.FocusStreak)
	}
	if !reflect.DeepEqual(ws.UnlockedBadges, []model.BadgeKind{model.BadgeStreak1}) {
		t.Fatalf("unexpected badges: %v", ws.UnlockedBadges)
	}
	if _, ok := ws.Timetable.Cells["bad"]; ok || !ws.Timetable.Cells["0:1"].Completed {
		t.Fatalf("unexpected cells: %+v", ws.Timetable.Cells)
	}
}

func TestMigrateDetachesOrphanRecurringInstances(t *testing.T) {
	raw := parse(t, `{"version": 6, "workspaces": [{
	  "recurringTasks": [{"id": "r1", "text": "stretch"}],
	  "tasks": [
	    {"id": "a", "text": "stretch", "recurringId": "r1", "isCompletedToday": true},
	    {"id": "b", "text": "ghost", "recurringId": "gone", "isCompletedToday": true, "category": "missing"}
	  ]}]}`)
	ws := Migrate(raw, today).Workspaces[0]
	if ws.Tasks[0].RecurringID != "r1" || !ws.Tasks[0].IsCompletedToday {
		t.Fatalf("linked task must be untouched: %+v", ws.Tasks[0])
	}
	if ws.Tasks[1].RecurringID != "" || ws.Tasks[1].IsCompletedToday || ws.Tasks[1].Category != nil {
		t.Fatalf("orphan task must be detached: %+v", ws.Tasks[1])
	}
}

func TestMigrateWithoutWorkspacesUsesDefaults(t *testing.T) {
	doc := Migrate(map[string]any{"version": float64(2), "workspaces": "nope"}, today)
	if len(doc.Workspaces) != 1 || doc.Workspaces[0].Name != model.DefaultWorkspaceName {
		t.Fatalf("expected default workspace, got %+v", doc.Workspaces)
	}
}

func TestDecodeKeepsVersion(t *testing.T) {
	doc := Decode(parse(t, `{"version": 7, "workspaces": [{"name": "A"}], "current": 0}`), today)
	if doc.Version != 7 || doc.Workspaces[0].Name != "A" {
		t.Fatalf("unexpected decode result: %+v", doc)
	}
	if !doc.Workspaces[0].Timetable.WeekStartDate.IsZero() {
		t.Fatal("decode must not stamp the timetable week")
	}
}

func TestStepNamesOrder(t *testing.T) {
	want := []string{"reshape-syllabus", "backfill-topic-completion", "drop-timer-alarm"}
	if got := StepNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected steps: %v", got)
	}
}
