package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/storage"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) AddDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}

// Wednesday 2026-02-11, 10:00 UTC.
func newClock() *testClock {
	return &testClock{now: time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)}
}

func setupEngine(t *testing.T, seed string) (*Engine, *testClock, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	if seed != "" {
		if err := kv.Put(context.Background(), storage.CurrentKey, []byte(seed)); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}
	clock := newClock()
	e := New(storage.NewGateway(kv, nil), WithClock(clock.Now), WithLocation(time.UTC))
	if _, err := e.Start(context.Background()); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	return e, clock, kv
}

func current(e *Engine) model.Workspace {
	var out model.Workspace
	e.View(func(_ *model.Document, ws *model.Workspace) { out = *ws })
	return out
}

func TestStartCreatesDefaultDocument(t *testing.T) {
	e, _, kv := setupEngine(t, "")
	ws := current(e)
	if ws.Name != model.DefaultWorkspaceName {
		t.Fatalf("unexpected workspace %q", ws.Name)
	}
	if ws.Timetable.WeekStartDate.String() != "2026-02-09" {
		t.Fatalf("expected week stamped on start, got %s", ws.Timetable.WeekStartDate)
	}
	if _, err := kv.Get(context.Background(), storage.CurrentKey); err != nil {
		t.Fatalf("expected document persisted: %v", err)
	}
}

func TestWorkspaceAccessorRepairsDanglingIndex(t *testing.T) {
	e, _, _ := setupEngine(t, "")
	e.mu.Lock()
	e.doc.Current = 5
	e.mu.Unlock()
	if _, err := e.AddTask(context.Background(), "still works"); err != nil {
		t.Fatalf("add task: %v", err)
	}
	_, idx := e.WorkspaceNames()
	if idx != 0 {
		t.Fatalf("expected index clamped to 0, got %d", idx)
	}
}

func TestRecurringTaskCompletionLifecycle(t *testing.T) {
	ctx := context.Background()
	e, clock, _ := setupEngine(t, "")

	task, err := e.AddTask(ctx, "  stretch  ")
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	if task.Text != "stretch" || !task.IsCollapsed {
		t.Fatalf("unexpected new task: %+v", task)
	}
	if on, err := e.ToggleRecurring(ctx, task.ID); err != nil || !on {
		t.Fatalf("toggle recurring: on=%v err=%v", on, err)
	}

	res, err := e.CompleteTask(ctx, task.ID, true)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.Badge != model.BadgeStreak1 {
		t.Fatalf("expected streak1 badge, got %q", res.Badge)
	}
	ws := current(e)
	if len(ws.Tasks) != 1 || !ws.Tasks[0].IsCompletedToday {
		t.Fatalf("recurring instance must stay and be marked: %+v", ws.Tasks)
	}
	if len(ws.Done) != 1 || ws.Done[0].RecurringID != ws.Tasks[0].RecurringID {
		t.Fatalf("expected linked done record, got %+v", ws.Done)
	}
	if ws.Stats["2026-02-11"].Tasks != 1 || ws.FocusStreak.Current != 1 || ws.FocusStreak.TotalDays != 1 {
		t.Fatalf("unexpected stats/streak: %+v %+v", ws.Stats, ws.FocusStreak)
	}

	if _, err := e.CompleteTask(ctx, task.ID, false); err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	ws = current(e)
	if ws.Tasks[0].IsCompletedToday || len(ws.Done) != 0 || ws.Stats["2026-02-11"].Tasks != 0 {
		t.Fatalf("uncheck must roll back today's record: %+v", ws)
	}

	if _, err := e.CompleteTask(ctx, task.ID, true); err != nil {
		t.Fatalf("complete again: %v", err)
	}
	clock.AddDays(1)
	changed, err := e.CheckAndResetRecurringTasks(ctx)
	if err != nil || !changed {
		t.Fatalf("expected reset on a new day: changed=%v err=%v", changed, err)
	}
	ws = current(e)
	if ws.Tasks[0].IsCompletedToday || len(ws.Done) != 1 {
		t.Fatalf("new day must clear flag and keep history: %+v", ws)
	}
	if changed, _ := e.CheckAndResetRecurringTasks(ctx); changed {
		t.Fatal("second check on the same day must be idle")
	}
}

func TestPlainTaskMovesToDone(t *testing.T) {
	ctx := context.Background()
	e, _, _ := setupEngine(t, "")
	task, _ := e.AddTask(ctx, "write report")
	if _, err := e.CompleteTask(ctx, task.ID, true); err != nil {
		t.Fatalf("complete: %v", err)
	}
	ws := current(e)
	if len(ws.Tasks) != 0 || len(ws.Done) != 1 || ws.Done[0].Text != "write report" {
		t.Fatalf("unexpected lists: tasks=%+v done=%+v", ws.Tasks, ws.Done)
	}
	if err := e.DeleteDone(ctx, ws.Done[0].ID); err != nil {
		t.Fatalf("delete done: %v", err)
	}
	if _, err := e.CompleteTask(ctx, "missing", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecurringDeleteSemantics(t *testing.T) {
	ctx := context.Background()
	e, clock, _ := setupEngine(t, "")
	task, _ := e.AddTask(ctx, "water plants")
	_, _ = e.ToggleRecurring(ctx, task.ID)
	_, _ = e.CompleteTask(ctx, task.ID, true)

	if err := e.DeleteTaskOnce(ctx, task.ID); err != nil {
		t.Fatalf("delete once: %v", err)
	}
	if ws := current(e); len(ws.Tasks) != 0 || len(ws.RecurringTasks) != 1 || len(ws.Done) != 1 {
		t.Fatalf("delete once must keep template and history: %+v", ws)
	}

	clock.AddDays(1)
	if _, err := e.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	ws := current(e)
	if len(ws.Tasks) != 1 || ws.Tasks[0].Text != "water plants" || ws.Tasks[0].IsCompletedToday {
		t.Fatalf("expected regenerated instance, got %+v", ws.Tasks)
	}

	if err := e.DeleteRecurringPermanently(ctx, ws.Tasks[0].ID); err != nil {
		t.Fatalf("delete permanently: %v", err)
	}
	ws = current(e)
	if len(ws.Tasks) != 0 || len(ws.RecurringTasks) != 0 || len(ws.Done) != 0 {
		t.Fatalf("permanent delete must remove everything linked: %+v", ws)
	}

	clock.AddDays(1)
	changed, err := e.CheckAndResetRecurringTasks(ctx)
	if err != nil {
		t.Fatalf("recurring check: %v", err)
	}
	if ws := current(e); changed || len(ws.Tasks) != 0 {
		t.Fatalf("deleted template must not regenerate: changed=%v tasks=%+v", changed, ws.Tasks)
	}
}

func TestToggleRecurringOff(t *testing.T) {
	ctx := context.Background()
	e, _, _ := setupEngine(t, "")
	task, _ := e.AddTask(ctx, "journal")
	_, _ = e.ToggleRecurring(ctx, task.ID)
	_, _ = e.CompleteTask(ctx, task.ID, true)
	if on, err := e.ToggleRecurring(ctx, task.ID); err != nil || on {
		t.Fatalf("toggle off: on=%v err=%v", on, err)
	}
	ws := current(e)
	if ws.Tasks[0].IsRecurring() || ws.Tasks[0].IsCompletedToday || len(ws.RecurringTasks) != 0 {
		t.Fatalf("expected detached plain task: %+v", ws)
	}
}

func TestStreakAcrossDays(t *testing.T) {
	ctx := context.Background()
	e, clock, _ := setupEngine(t, "")

	complete := func() {
		t.Helper()
		task, err := e.AddTask(ctx, "t")
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if _, err := e.CompleteTask(ctx, task.ID, true); err != nil {
			t.Fatalf("complete: %v", err)
		}
	}

	complete()
	complete()
	if s := current(e).FocusStreak; s.Current != 1 {
		t.Fatalf("same-day events must count once, got %+v", s)
	}

	clock.AddDays(1)
	complete()
	if s := current(e).FocusStreak; s.Current != 2 || s.Longest != 2 {
		t.Fatalf("consecutive day must extend streak, got %+v", s)
	}

	clock.AddDays(2)
	if _, err := e.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if s := current(e).FocusStreak; s.Current != 0 || s.Longest != 2 {
		t.Fatalf("skipped day must decay the streak, got %+v", s)
	}

	complete()
	ws := current(e)
	if ws.FocusStreak.Current != 1 || ws.FocusStreak.Longest != 2 {
		t.Fatalf("streak must restart at 1, got %+v", ws.FocusStreak)
	}
	if ws.FocusStreak.TotalDays != len(ws.Stats) || ws.FocusStreak.TotalDays != 3 {
		t.Fatalf("totalDays must equal stats days: %d vs %d", ws.FocusStreak.TotalDays, len(ws.Stats))
	}
}

func TestStreakDecayLeavesYesterdayAlone(t *testing.T) {
	seed := `{"version":7,"current":0,"workspaces":[{"name":"W",
	  "focusStreak":{"current":3,"lastSessionDate":"2026-02-10","dailyGoal":4,"longest":3,"totalDays":3}}]}`
	e, _, _ := setupEngine(t, seed)
	if s := current(e).FocusStreak; s.Current != 3 {
		t.Fatalf("a one-day gap must not decay, got %+v", s)
	}
}

func TestSimultaneousBadgesReportLastInCatalogOrder(t *testing.T) {
	seed := `{"version":7,"current":0,"workspaces":[{"name":"W",
	  "stats":{"a":{},"b":{},"c":{},"d":{},"e":{},"f":{},"g":{},"h":{},"i":{}},
	  "focusStreak":{"current":9,"lastSessionDate":"2026-02-10","dailyGoal":4,"longest":9,"totalDays":9}}]}`
	e, clock, _ := setupEngine(t, seed)
	task, _ := e.AddTask(context.Background(), "push")
	res, err := e.CompleteTask(context.Background(), task.ID, true)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.Badge != model.BadgeTotal10 {
		t.Fatalf("expected total10 as latest, got %q", res.Badge)
	}
	want := []model.BadgeKind{model.BadgeStreak1, model.BadgeStreak7, model.BadgeLongest10, model.BadgeTotal10}
	got := current(e).UnlockedBadges
	if len(got) != len(want) {
		t.Fatalf("unexpected badges %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("badge[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	task, _ = e.AddTask(context.Background(), "again")
	if res, _ := e.CompleteTask(context.Background(), task.ID, true); res.Unlocked() {
		t.Fatalf("badges must unlock once, got %q", res.Badge)
	}

	// The streak breaks; earned badges stay.
	clock.AddDays(3)
	if _, err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if streak := current(e).FocusStreak.Current; streak != 0 {
		t.Fatalf("expected decayed streak, got %d", streak)
	}
	task, _ = e.AddTask(context.Background(), "restart")
	if _, err := e.CompleteTask(context.Background(), task.ID, true); err != nil {
		t.Fatalf("complete: %v", err)
	}
	ws := current(e)
	if ws.FocusStreak.Current != 1 || ws.FocusStreak.Longest != 10 {
		t.Fatalf("unexpected streak after restart: %+v", ws.FocusStreak)
	}
	got = ws.UnlockedBadges
	if len(got) != len(want) {
		t.Fatalf("badges changed after decay: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("after decay badge[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSaveFailureIsSurfacedAndStateKept(t *testing.T) {
	e, _, _ := setupEngine(t, "")
	failing := &failingPersister{Persister: e.store, err: errors.New("quota exceeded")}
	e.store = failing

	task, err := e.AddTask(context.Background(), "keep me")
	if err == nil {
		t.Fatal("expected save error")
	}
	if e.LastSaveError() == nil {
		t.Fatal("expected LastSaveError to be set")
	}
	ws := current(e)
	if len(ws.Tasks) != 1 || ws.Tasks[0].ID != task.ID {
		t.Fatalf("in-memory state must be kept after a failed save: %+v", ws.Tasks)
	}

	failing.err = nil
	if err := e.Save(context.Background()); err != nil || e.LastSaveError() != nil {
		t.Fatalf("expected recovery after a successful save: %v", err)
	}
}

// unreadableKV fails every read while keeping whatever was stored before.
type unreadableKV struct {
	*storage.MemoryStore
}

func (u unreadableKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("i/o error")
}

func TestUnreadableStoreIsNeverOverwritten(t *testing.T) {
	ctx := context.Background()
	kv := unreadableKV{MemoryStore: storage.NewMemoryStore()}
	if err := kv.MemoryStore.Put(ctx, storage.CurrentKey, []byte(`{"version":7,"workspaces":[{"name":"Keep"}]}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	stored := func() string {
		t.Helper()
		raw, err := kv.MemoryStore.Get(ctx, storage.CurrentKey)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		return string(raw)
	}

	clock := newClock()
	e := New(storage.NewGateway(kv, nil), WithClock(clock.Now), WithLocation(time.UTC))
	src, err := e.Start(ctx)
	if !errors.Is(err, storage.ErrReadFailed) || src != storage.SourceDefault {
		t.Fatalf("expected read failure from start, got src=%s err=%v", src, err)
	}
	if e.LastSaveError() == nil {
		t.Fatal("read failure must be surfaced through LastSaveError")
	}
	if !strings.Contains(stored(), "Keep") {
		t.Fatalf("start overwrote the unreadable document: %s", stored())
	}

	task, err := e.AddTask(ctx, "in memory only")
	if !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected read-only error, got %v", err)
	}
	if ws := current(e); len(ws.Tasks) != 1 || ws.Tasks[0].ID != task.ID {
		t.Fatalf("in-memory state must still change: %+v", ws.Tasks)
	}
	if !strings.Contains(stored(), "Keep") {
		t.Fatalf("mutation overwrote the unreadable document: %s", stored())
	}

	if err := e.Import(ctx, []byte(`{"version":7,"workspaces":[{"name":"Restored"}]}`)); err != nil {
		t.Fatalf("import: %v", err)
	}
	if e.LastSaveError() != nil || !strings.Contains(stored(), "Restored") {
		t.Fatalf("import should lift read-only mode: err=%v stored=%s", e.LastSaveError(), stored())
	}
}

type failingPersister struct {
	Persister
	err error
}

func (f *failingPersister) Save(ctx context.Context, doc *model.Document) error {
	if f.err != nil {
		return f.err
	}
	return f.Persister.Save(ctx, doc)
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	e, _, _ := setupEngine(t, "")
	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.AddTask(context.Background(), "parallel"); err != nil {
				t.Errorf("add task: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := len(current(e).Tasks); got != n {
		t.Fatalf("expected %d tasks, got %d", n, got)
	}
}

func TestMutationBeforeStart(t *testing.T) {
	e := New(storage.NewGateway(storage.NewMemoryStore(), nil))
	if _, err := e.AddTask(context.Background(), "x"); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}
