package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/scheduler"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

const focusTimerID = "focus-session"

func (m Model) timerSettings() model.TimerSettings {
	var settings model.TimerSettings
	m.eng.View(func(_ *model.Document, ws *model.Workspace) { settings = ws.Timer })
	return settings
}

// resetFocus stops the countdown and loads the full length of mode.
func (m *Model) resetFocus(mode model.TimerMode) {
	if m.timers != nil {
		m.timers.Cancel(focusTimerID)
	}
	total := int(m.timerSettings().Duration(mode) / time.Second)
	m.Focus = FocusState{Mode: mode, RemainingSec: total, TotalSec: total}
}

func (m *Model) startFocus() tea.Cmd {
	if m.Focus.RemainingSec <= 0 {
		m.Focus.RemainingSec = m.Focus.TotalSec
	}
	m.Focus.Running = true
	m.Focus.EndsAt = m.now().Add(time.Duration(m.Focus.RemainingSec) * time.Second)
	if m.timers != nil {
		err := m.timers.Schedule(scheduler.SessionEnd{ID: focusTimerID, Mode: m.Focus.Mode, At: m.Focus.EndsAt})
		if err != nil {
			m.report("", err)
		}
	}
	return focusTickCmd()
}

func (m *Model) pauseFocus() {
	if m.timers != nil {
		m.timers.Cancel(focusTimerID)
	}
	m.Focus.RemainingSec = m.secondsLeft()
	m.Focus.Running = false
}

func (m Model) secondsLeft() int {
	if !m.Focus.Running {
		return m.Focus.RemainingSec
	}
	left := m.Focus.EndsAt.Sub(m.now())
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

func (m Model) handleFocusKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if m.Focus.Running {
			m.pauseFocus()
			m.Status = StatusBar{Text: "timer paused"}
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s session running", m.Focus.Mode)}
		return m, m.startFocus()
	case "r":
		m.resetFocus(m.Focus.Mode)
		m.Status = StatusBar{Text: "timer reset"}
		return m, nil
	case "n":
		return m.finishSession()
	case "a":
		auto := !m.timerSettings().AutoStart
		m.report(fmt.Sprintf("auto-start %t", auto), m.eng.SetAutoStart(m.ctx, auto))
		return m, nil
	case "C":
		m.report("cycle reset", m.eng.ResetCycle(m.ctx))
		return m, nil
	}
	return m, nil
}

func (m Model) onFocusTick() (Model, tea.Cmd) {
	if !m.Focus.Running {
		return m, nil
	}
	m.Focus.RemainingSec = m.secondsLeft()
	if m.Focus.RemainingSec == 0 && m.timers == nil {
		return m.finishSession()
	}
	return m, focusTickCmd()
}

// finishSession records the session that just ended and loads the next mode,
// starting it right away when auto-start is on.
func (m Model) finishSession() (Model, tea.Cmd) {
	mode := m.Focus.Mode
	out, err := m.eng.CompleteFocusSession(m.ctx, mode)
	if err != nil {
		m.report("", err)
		return m, nil
	}
	m.resetFocus(out.Next)
	text := fmt.Sprintf("%s session complete, next: %s", mode, out.Next)
	m.Status = StatusBar{Text: text}
	m.notify("Timer", text, "info")
	m.celebrate(out.Result)
	if out.AutoStart {
		return m, m.startFocus()
	}
	return m, nil
}

func focusTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return FocusTickMsg{} })
}

func waitForSessionEndCmd(ch <-chan scheduler.SessionEnd) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return SessionEndMsg{Event: ev}
	}
}

func (m Model) renderFocusView() string {
	left := m.secondsLeft()
	pct := 0.0
	if m.Focus.TotalSec > 0 {
		pct = float64(m.Focus.TotalSec-left) / float64(m.Focus.TotalSec)
	}
	pct = min(max(pct, 0), 1)

	data := views.FocusPanelData{
		Mode:         string(m.Focus.Mode),
		Timer:        formatDuration(left),
		Running:      m.Focus.Running,
		ProgressView: m.focusProgress.ViewAs(pct),
		ProgressPct:  int(pct * 100),
	}
	today := m.eng.Today().String()
	m.eng.View(func(_ *model.Document, ws *model.Workspace) {
		data.Cycle = ws.Timer.CurrentCycle
		data.Interval = ws.Timer.LongBreakInterval
		data.AutoStart = ws.Timer.AutoStart
		data.TodayFocus = ws.Stats[today].Focus
		data.DailyGoal = ws.FocusStreak.DailyGoal
		data.Streak = ws.FocusStreak.Current
		data.Longest = ws.FocusStreak.Longest
		for _, kind := range ws.UnlockedBadges {
			if b, ok := model.LookupBadge(kind); ok {
				data.Badges = append(data.Badges, b.Icon)
			}
		}
	})
	return views.RenderFocusPanel(data)
}
