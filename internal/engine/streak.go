package engine

import "github.com/sandeepkv93/focusdeck/internal/model"

// ensureStats creates today's stats bucket, counting a new active day.
func ensureStats(ws *model.Workspace, today model.Date) {
	if ws.Stats == nil {
		ws.Stats = map[string]model.DayStats{}
	}
	key := today.String()
	if _, ok := ws.Stats[key]; !ok {
		ws.Stats[key] = model.DayStats{}
		ws.FocusStreak.TotalDays++
	}
}

// bumpStats adjusts today's counters; it never creates the bucket.
func bumpStats(ws *model.Workspace, today model.Date, tasks, focus int) {
	key := today.String()
	st, ok := ws.Stats[key]
	if !ok {
		return
	}
	st.Tasks = max(0, st.Tasks+tasks)
	st.Focus = max(0, st.Focus+focus)
	ws.Stats[key] = st
}

// updateStreak records a streak-eligible event for today. At most one
// increment happens per calendar day.
func updateStreak(ws *model.Workspace, today model.Date) {
	ensureStats(ws, today)
	s := &ws.FocusStreak
	if s.LastSessionDate == today {
		return
	}
	switch {
	case s.LastSessionDate.IsZero():
		s.Current = 1
	case model.DaysApart(today, s.LastSessionDate) == 1:
		s.Current++
	default:
		s.Current = 1
	}
	s.Longest = max(s.Longest, s.Current)
	s.LastSessionDate = today
}

// checkStreakDecay zeroes the current streak once a whole day was skipped.
func checkStreakDecay(ws *model.Workspace, today model.Date) bool {
	s := &ws.FocusStreak
	if s.LastSessionDate.IsZero() || s.LastSessionDate == today {
		return false
	}
	if model.DaysApart(today, s.LastSessionDate) > 1 && s.Current != 0 {
		s.Current = 0
		return true
	}
	return false
}

// checkAndUnlockBadges appends every newly satisfied badge and returns the
// last one in catalog order.
func checkAndUnlockBadges(ws *model.Workspace) model.BadgeKind {
	have := make(map[model.BadgeKind]bool, len(ws.UnlockedBadges))
	for _, b := range ws.UnlockedBadges {
		have[b] = true
	}
	var latest model.BadgeKind
	for _, b := range model.Badges() {
		if have[b.Kind] || !b.Satisfied(ws.FocusStreak) {
			continue
		}
		ws.UnlockedBadges = append(ws.UnlockedBadges, b.Kind)
		latest = b.Kind
	}
	return latest
}
