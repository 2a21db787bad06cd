package engine

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

// SessionResult is the outcome of a finished timer session.
type SessionResult struct {
	Result
	Next      model.TimerMode
	AutoStart bool
}

// CompleteFocusSession records the end of a timer session and picks the next
// mode. A finished focus session counts towards the streak and advances the
// cycle; every long-break-interval focus sessions earn a long break.
func (e *Engine) CompleteFocusSession(ctx context.Context, mode model.TimerMode) (SessionResult, error) {
	if !mode.IsValid() {
		return SessionResult{}, fmt.Errorf("%w: %q", model.ErrInvalidMode, mode)
	}
	var out SessionResult
	res, err := e.mutateStreak(ctx, func(ws *model.Workspace, today model.Date) (bool, error) {
		timer := &ws.Timer
		out.AutoStart = timer.AutoStart
		if mode != model.TimerModeFocus {
			out.Next = model.TimerModeFocus
			return false, nil
		}
		updateStreak(ws, today)
		bumpStats(ws, today, 0, 1)
		if timer.CurrentCycle >= timer.LongBreakInterval {
			out.Next = model.TimerModeLong
			timer.CurrentCycle = 1
		} else {
			out.Next = model.TimerModeShort
			timer.CurrentCycle++
		}
		return true, nil
	})
	out.Result = res
	return out, err
}

// SetTimerDurations sets the length of each mode in minutes. Values below
// one minute are rejected.
func (e *Engine) SetTimerDurations(ctx context.Context, d model.TimerDurations) error {
	if d.Focus < 1 || d.Short < 1 || d.Long < 1 {
		return fmt.Errorf("%w: durations %+v", ErrOutOfRange, d)
	}
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		ws.Timer.Dur = d
		return nil
	})
}

func (e *Engine) SetLongBreakInterval(ctx context.Context, n int) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		ws.Timer.LongBreakInterval = max(1, n)
		return nil
	})
}

func (e *Engine) SetAutoStart(ctx context.Context, on bool) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		ws.Timer.AutoStart = on
		return nil
	})
}

// ResetCycle puts the pomodoro cycle counter back to one.
func (e *Engine) ResetCycle(ctx context.Context) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		ws.Timer.CurrentCycle = 1
		return nil
	})
}

func (e *Engine) SetDailyGoal(ctx context.Context, goal int) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		ws.FocusStreak.DailyGoal = max(1, goal)
		return nil
	})
}
