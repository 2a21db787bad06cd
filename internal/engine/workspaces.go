package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

var ErrInvalidPreference = errors.New("engine: invalid preference")

var prefs = validator.New()

// WorkspaceNames lists workspace names and the selected index.
func (e *Engine) WorkspaceNames() ([]string, int) {
	var names []string
	var current int
	e.View(func(doc *model.Document, _ *model.Workspace) {
		for _, ws := range doc.Workspaces {
			names = append(names, ws.Name)
		}
		current = doc.Current
	})
	return names, current
}

// AddWorkspace appends a default workspace and selects it. A blank name
// becomes "WS n".
func (e *Engine) AddWorkspace(ctx context.Context, name string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return 0, ErrNotLoaded
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("WS %d", len(e.doc.Workspaces)+1)
	}
	e.doc.Workspaces = append(e.doc.Workspaces, model.DefaultWorkspace(name))
	e.doc.Current = len(e.doc.Workspaces) - 1
	return e.doc.Current, e.switchLocked(ctx)
}

func (e *Engine) SelectWorkspace(ctx context.Context, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return ErrNotLoaded
	}
	if index < 0 || index >= len(e.doc.Workspaces) {
		return fmt.Errorf("%w: workspace %d", ErrOutOfRange, index)
	}
	e.doc.Current = index
	return e.switchLocked(ctx)
}

// switchLocked runs the day-boundary checks for the newly selected workspace
// and saves.
func (e *Engine) switchLocked(ctx context.Context) error {
	today := e.today()
	ws := e.workspace()
	if ws.Timetable.WeekStartDate.IsZero() {
		ws.Timetable.WeekStartDate = today.WeekStart()
	}
	checkAndResetRecurring(ws, today, e.nowMillis())
	checkAndResetTimetable(ws, today)
	checkStreakDecay(ws, today)
	return e.saveLocked(ctx)
}

func (e *Engine) RenameWorkspace(ctx context.Context, name string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		clean, err := cleanText(name)
		if err != nil {
			return err
		}
		ws.Name = clean
		return nil
	})
}

// DeleteWorkspace removes the selected workspace and selects the first one.
// The last workspace cannot be deleted.
func (e *Engine) DeleteWorkspace(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return ErrNotLoaded
	}
	e.workspace()
	if len(e.doc.Workspaces) == 1 {
		return ErrLastWorkspace
	}
	i := e.doc.Current
	e.doc.Workspaces = append(e.doc.Workspaces[:i], e.doc.Workspaces[i+1:]...)
	e.doc.Current = 0
	return e.switchLocked(ctx)
}

// ResetWorkspace replaces the selected workspace with a default one that
// keeps its name.
func (e *Engine) ResetWorkspace(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return ErrNotLoaded
	}
	ws := e.workspace()
	*ws = model.DefaultWorkspace(ws.Name)
	return e.switchLocked(ctx)
}

// FactoryReset deletes all stored data and starts from the default document.
func (e *Engine) FactoryReset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.readErr = nil
	doc, err := e.store.Reset(ctx)
	if doc == nil {
		doc = model.DefaultDocument()
	}
	e.doc = doc
	e.lastSaveErr = err
	if err != nil {
		e.logger.Error("factory reset", zap.Error(err))
		return err
	}
	e.logger.Info("factory reset")
	return e.switchLocked(ctx)
}

func (e *Engine) ToggleTheme(ctx context.Context) (string, error) {
	var theme string
	err := e.mutateDoc(ctx, func(doc *model.Document) error {
		if doc.Theme == "light" {
			doc.Theme = "dark"
		} else {
			doc.Theme = "light"
		}
		theme = doc.Theme
		return nil
	})
	return theme, err
}

// SetAccent sets the accent color, a #rrggbb hex value.
func (e *Engine) SetAccent(ctx context.Context, color string) error {
	if err := prefs.Var(color, "required,hexcolor"); err != nil {
		return fmt.Errorf("%w: accent %q", ErrInvalidPreference, color)
	}
	return e.mutateDoc(ctx, func(doc *model.Document) error {
		doc.Accent = color
		return nil
	})
}

// SetCustomColor overrides one named color of the workspace; an empty value
// removes the override.
func (e *Engine) SetCustomColor(ctx context.Context, key, color string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty color key", ErrInvalidPreference)
	}
	if color != "" {
		if err := prefs.Var(color, "hexcolor"); err != nil {
			return fmt.Errorf("%w: color %q", ErrInvalidPreference, color)
		}
	}
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		if ws.CustomColors == nil {
			ws.CustomColors = map[string]string{}
		}
		if color == "" {
			delete(ws.CustomColors, key)
		} else {
			ws.CustomColors[key] = color
		}
		return nil
	})
}

func (e *Engine) mutateDoc(ctx context.Context, fn func(doc *model.Document) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return ErrNotLoaded
	}
	if err := fn(e.doc); err != nil {
		return err
	}
	return e.saveLocked(ctx)
}

// Export returns the whole document as an indented JSON backup together with
// its suggested file name.
func (e *Engine) Export() ([]byte, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return nil, "", ErrNotLoaded
	}
	return e.store.Export(e.doc, e.today())
}

// Import replaces the whole document with a backup. The current document is
// untouched when the backup is rejected.
func (e *Engine) Import(ctx context.Context, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, err := e.store.Import(data, e.today())
	if err != nil {
		e.logger.Warn("import rejected", zap.Error(err))
		return err
	}
	e.doc = doc
	e.readErr = nil
	e.logger.Info("document imported", zap.Int("workspaces", len(doc.Workspaces)))
	return e.switchLocked(ctx)
}
