// Package engine owns the in-memory workspace document and every operation
// that changes it. All public methods are safe for concurrent use; each
// mutation is persisted before the method returns.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/storage"
)

var (
	ErrNotFound      = errors.New("engine: not found")
	ErrEmptyText     = errors.New("engine: empty text")
	ErrOutOfRange    = errors.New("engine: index out of range")
	ErrLastWorkspace = errors.New("engine: cannot delete the last workspace")
	ErrProtectedPage = errors.New("engine: the first syllabus page cannot be deleted")
	ErrNotLoaded     = errors.New("engine: document not loaded")
	// ErrReadOnly is returned by every write while the stored document is
	// one that could not be read. A factory reset or an import lifts it.
	ErrReadOnly      = errors.New("engine: stored document unreadable, not saving")
)

// Persister is the storage side of the engine.
type Persister interface {
	Load(ctx context.Context, today model.Date) (*model.Document, storage.LoadSource, error)
	Save(ctx context.Context, doc *model.Document) error
	Reset(ctx context.Context) (*model.Document, error)
	Export(doc *model.Document, today model.Date) ([]byte, string, error)
	Import(data []byte, today model.Date) (*model.Document, error)
}

// Result reports the side effects of a streak-eligible operation.
type Result struct {
	// Badge is the latest badge unlocked by the operation, empty if none.
	Badge model.BadgeKind
}

func (r Result) Unlocked() bool {
	return r.Badge != ""
}

type Engine struct {
	mu          sync.Mutex
	store       Persister
	doc         *model.Document
	now         func() time.Time
	loc         *time.Location
	logger      *zap.Logger
	lastSaveErr error
	// readErr holds the load failure that put the engine in read-only mode.
	readErr error
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the zone that decides what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func New(store Persister, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		now:    time.Now,
		loc:    time.Local,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("component", "engine"))
	return e
}

// Start loads the document and runs the day-boundary checks in the order a
// full refresh uses them.
func (e *Engine) Start(ctx context.Context) (storage.LoadSource, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.today()
	doc, src, loadErr := e.store.Load(ctx, today)
	if doc == nil {
		doc = model.DefaultDocument()
	}
	e.doc = doc
	e.lastSaveErr = loadErr
	e.readErr = nil
	if errors.Is(loadErr, storage.ErrReadFailed) {
		e.readErr = loadErr
		e.logger.Warn("stored document unreadable, running without saving", zap.Error(loadErr))
	}
	e.logger.Info("document loaded", zap.String("source", string(src)), zap.Int("workspaces", len(doc.Workspaces)))

	if _, err := e.refreshLocked(ctx, today); err != nil {
		return src, err
	}
	return src, loadErr
}

// Refresh runs the recurring reset, the weekly timetable reset and streak
// decay. It reports whether anything changed.
func (e *Engine) Refresh(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return false, ErrNotLoaded
	}
	return e.refreshLocked(ctx, e.today())
}

func (e *Engine) refreshLocked(ctx context.Context, today model.Date) (bool, error) {
	ws := e.workspace()
	recurring := checkAndResetRecurring(ws, today, e.nowMillis())
	timetable := checkAndResetTimetable(ws, today)
	decayed := checkStreakDecay(ws, today)
	if !recurring && !timetable && !decayed {
		return false, nil
	}
	e.logger.Debug("refresh applied",
		zap.Bool("recurring", recurring),
		zap.Bool("timetable", timetable),
		zap.Bool("streak_decay", decayed),
	)
	return true, e.saveLocked(ctx)
}

// Today is the current calendar date in the engine's location.
func (e *Engine) Today() model.Date {
	return e.today()
}

func (e *Engine) today() model.Date {
	return model.DateOf(e.now().In(e.loc))
}

func (e *Engine) nowMillis() int64 {
	return e.now().UnixMilli()
}

// View runs fn with the document and the current workspace under the engine
// lock. fn must not retain or modify either.
func (e *Engine) View(fn func(doc *model.Document, ws *model.Workspace)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		doc := model.DefaultDocument()
		fn(doc, &doc.Workspaces[0])
		return
	}
	fn(e.doc, e.workspace())
}

// LastSaveError is the error of the most recent write, nil after a
// successful one.
func (e *Engine) LastSaveError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSaveErr
}

// Save persists the document as it is.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return ErrNotLoaded
	}
	return e.saveLocked(ctx)
}

func (e *Engine) saveLocked(ctx context.Context) error {
	if e.readErr != nil {
		e.lastSaveErr = fmt.Errorf("%w: %w", ErrReadOnly, e.readErr)
		return e.lastSaveErr
	}
	err := e.store.Save(ctx, e.doc)
	e.lastSaveErr = err
	if err != nil {
		e.logger.Error("save failed, keeping in-memory state", zap.Error(err))
	}
	return err
}

// workspace returns the current workspace, repairing an empty list or a
// dangling index first. Callers hold e.mu.
func (e *Engine) workspace() *model.Workspace {
	if e.doc == nil {
		e.doc = model.DefaultDocument()
	}
	if len(e.doc.Workspaces) == 0 {
		e.doc.Workspaces = []model.Workspace{model.DefaultWorkspace(model.DefaultWorkspaceName)}
	}
	if e.doc.Current < 0 || e.doc.Current >= len(e.doc.Workspaces) {
		e.doc.Current = 0
	}
	return &e.doc.Workspaces[e.doc.Current]
}

// mutate applies fn to the current workspace and saves when fn succeeds.
func (e *Engine) mutate(ctx context.Context, fn func(ws *model.Workspace, today model.Date) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return ErrNotLoaded
	}
	if err := fn(e.workspace(), e.today()); err != nil {
		return err
	}
	return e.saveLocked(ctx)
}

// mutateStreak is mutate for streak-eligible operations. fn reports whether
// the event counted; if so the streak and badges are updated before saving.
func (e *Engine) mutateStreak(ctx context.Context, fn func(ws *model.Workspace, today model.Date) (bool, error)) (Result, error) {
	var res Result
	err := e.mutate(ctx, func(ws *model.Workspace, today model.Date) error {
		eligible, err := fn(ws, today)
		if err != nil || !eligible {
			return err
		}
		res.Badge = checkAndUnlockBadges(ws)
		if res.Badge != "" {
			e.logger.Info("badge unlocked", zap.String("badge", string(res.Badge)))
		}
		return nil
	})
	return res, err
}

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, what, id)
}
