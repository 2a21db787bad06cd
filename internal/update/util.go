package update

import (
	"fmt"

	"github.com/sandeepkv93/focusdeck/internal/engine"
	"github.com/sandeepkv93/focusdeck/internal/model"
)

func formatDuration(totalSec int) string {
	if totalSec < 0 {
		totalSec = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSec/60, totalSec%60)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

// report shows the outcome of an engine call on the status line.
func (m *Model) report(ok string, err error) {
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Error", err.Error(), "error")
		return
	}
	m.Status = StatusBar{Text: ok}
}

// celebrate announces a newly unlocked badge.
func (m *Model) celebrate(res engine.Result) {
	if !res.Unlocked() {
		return
	}
	badge, ok := model.LookupBadge(res.Badge)
	if !ok {
		return
	}
	text := fmt.Sprintf("badge unlocked: %s %s", badge.Icon, badge.Title)
	m.Status = StatusBar{Text: text}
	m.notify("Badge", text, "info")
}
