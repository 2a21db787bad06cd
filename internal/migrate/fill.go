package migrate

import "github.com/sandeepkv93/focusdeck/internal/model"

// fillWorkspace repairs everything decoding over defaults cannot: explicit
// nulls, zero values that are not meaningful, and broken references.
func fillWorkspace(ws *model.Workspace) {
	if ws.Name == "" {
		ws.Name = model.DefaultWorkspaceName
	}
	if ws.Done == nil {
		ws.Done = []model.DoneRecord{}
	}
	if ws.RecurringTasks == nil {
		ws.RecurringTasks = []model.RecurringTask{}
	}
	if ws.TaskCategories == nil {
		ws.TaskCategories = model.DefaultTaskCategories()
	}
	fillTasks(ws)
	fillSyllabus(ws)
	if ws.Stats == nil {
		ws.Stats = map[string]model.DayStats{}
	}
	fillTimetable(&ws.Timetable)
	if ws.StickyNotes == nil {
		ws.StickyNotes = []model.StickyNote{}
	}
	for i := range ws.StickyNotes {
		if ws.StickyNotes[i].Files == nil {
			ws.StickyNotes[i].Files = []model.Link{}
		}
	}
	if ws.Reminders == nil {
		ws.Reminders = map[string][]model.Reminder{}
	}
	for date, list := range ws.Reminders {
		if len(list) == 0 {
			delete(ws.Reminders, date)
		}
	}
	fillFlashcards(ws)
	if ws.Journal == nil {
		ws.Journal = []model.JournalEntry{}
	}
	fillTimer(&ws.Timer)
	fillStreak(&ws.FocusStreak, len(ws.Stats))
	fillBadges(ws)
	if ws.CustomColors == nil {
		ws.CustomColors = map[string]string{}
	}
}

func fillTasks(ws *model.Workspace) {
	if ws.Tasks == nil {
		ws.Tasks = []model.Task{}
	}
	templates := make(map[string]bool, len(ws.RecurringTasks))
	for _, rt := range ws.RecurringTasks {
		templates[rt.ID] = true
	}
	categories := make(map[string]bool, len(ws.TaskCategories))
	for _, c := range ws.TaskCategories {
		categories[c.ID] = true
	}
	for i := range ws.Tasks {
		t := &ws.Tasks[i]
		if t.ID == "" {
			t.ID = model.NewID()
		}
		if t.Subtasks == nil {
			t.Subtasks = []model.Subtask{}
		}
		if t.RecurringID != "" && !templates[t.RecurringID] {
			t.RecurringID = ""
		}
		if !t.IsRecurring() {
			t.IsCompletedToday = false
		}
		if t.Category != nil && !categories[*t.Category] {
			t.Category = nil
		}
	}
}

func fillSyllabus(ws *model.Workspace) {
	if len(ws.SyllabusPages) == 0 {
		ws.SyllabusPages = []model.SyllabusPage{model.NewSyllabusPage(model.DefaultPageTitle)}
	}
	for i := range ws.SyllabusPages {
		page := &ws.SyllabusPages[i]
		if page.ID == "" {
			page.ID = model.NewID()
		}
		if page.Subjects == nil {
			page.Subjects = []model.Subject{}
		}
		for j := range page.Subjects {
			if page.Subjects[j].Topics == nil {
				page.Subjects[j].Topics = []model.Topic{}
			}
		}
	}
	if ws.SyllabusCurrentPage < 0 || ws.SyllabusCurrentPage >= len(ws.SyllabusPages) {
		ws.SyllabusCurrentPage = 0
	}
}

func fillTimetable(tt *model.Timetable) {
	if tt.Rows == nil {
		tt.Rows = model.DefaultTimetableRows()
	}
	if tt.Cells == nil {
		tt.Cells = map[string]model.Cell{}
	}
	for key := range tt.Cells {
		if _, _, err := model.ParseCellKey(key); err != nil {
			delete(tt.Cells, key)
		}
	}
	if tt.LastUsedColor == "" {
		tt.LastUsedColor = model.DefaultCellColor
	}
}

func fillFlashcards(ws *model.Workspace) {
	if ws.Flashcards == nil {
		ws.Flashcards = []model.Deck{}
	}
	for i := range ws.Flashcards {
		deck := &ws.Flashcards[i]
		if deck.ID == "" {
			deck.ID = model.NewID()
		}
		if deck.Cards == nil {
			deck.Cards = []model.Card{}
		}
		for j := range deck.Cards {
			if deck.Cards[j].ID == "" {
				deck.Cards[j].ID = model.NewID()
			}
		}
	}
}

func fillTimer(t *model.TimerSettings) {
	def := model.DefaultTimerSettings()
	if t.Dur.Focus <= 0 {
		t.Dur.Focus = def.Dur.Focus
	}
	if t.Dur.Short <= 0 {
		t.Dur.Short = def.Dur.Short
	}
	if t.Dur.Long <= 0 {
		t.Dur.Long = def.Dur.Long
	}
	if t.CurrentCycle < 1 {
		t.CurrentCycle = def.CurrentCycle
	}
	if t.LongBreakInterval < 1 {
		t.LongBreakInterval = def.LongBreakInterval
	}
}

func fillStreak(s *model.FocusStreak, statDays int) {
	if s.Current < 0 {
		s.Current = 0
	}
	if s.DailyGoal <= 0 {
		s.DailyGoal = model.DefaultDailyGoal
	}
	if s.TotalDays <= 0 {
		s.TotalDays = statDays
	}
	if s.Longest < s.Current {
		s.Longest = s.Current
	}
}

func fillBadges(ws *model.Workspace) {
	out := make([]model.BadgeKind, 0, len(ws.UnlockedBadges))
	seen := make(map[model.BadgeKind]bool, len(ws.UnlockedBadges))
	for _, b := range ws.UnlockedBadges {
		if !b.IsValid() || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	ws.UnlockedBadges = out
}
