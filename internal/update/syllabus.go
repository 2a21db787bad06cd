package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/views"
)

type topicRef struct {
	subjectID string
	topicID   string
}

func selectedPage(ws *model.Workspace) *model.SyllabusPage {
	if len(ws.SyllabusPages) == 0 {
		return nil
	}
	i := clamp(ws.SyllabusCurrentPage, 0, len(ws.SyllabusPages)-1)
	return &ws.SyllabusPages[i]
}

// visibleTopics lists the topics of the current page that are not hidden by
// a collapsed subject, in display order.
func (m Model) visibleTopics() []topicRef {
	var out []topicRef
	m.eng.View(func(_ *model.Document, ws *model.Workspace) {
		page := selectedPage(ws)
		if page == nil {
			return
		}
		for _, s := range page.Subjects {
			if s.IsCollapsed {
				continue
			}
			for _, t := range s.Topics {
				out = append(out, topicRef{subjectID: s.ID, topicID: t.ID})
			}
		}
	})
	return out
}

func (m Model) handleSyllabusKey(msg tea.KeyMsg) Model {
	topics := m.visibleTopics()
	switch msg.String() {
	case "j", "down":
		m.SyllabusCursor = clamp(m.SyllabusCursor+1, 0, len(topics)-1)
	case "k", "up":
		m.SyllabusCursor = clamp(m.SyllabusCursor-1, 0, len(topics)-1)
	case "h", "left", "l", "right":
		delta := 1
		if s := msg.String(); s == "h" || s == "left" {
			delta = -1
		}
		moved, err := m.eng.NavigatePage(m.ctx, delta)
		if err != nil {
			m.report("", err)
		} else if moved {
			m.SyllabusCursor = 0
		}
	case " ", "enter":
		if m.SyllabusCursor >= len(topics) {
			return m
		}
		ref := topics[m.SyllabusCursor]
		res, err := m.eng.ToggleTopic(m.ctx, ref.subjectID, ref.topicID)
		m.report("topic toggled", err)
		m.celebrate(res)
	case "x":
		if m.SyllabusCursor >= len(topics) {
			return m
		}
		ref := topics[m.SyllabusCursor]
		m.report("topic deleted", m.eng.DeleteTopic(m.ctx, ref.subjectID, ref.topicID))
		m.SyllabusCursor = clamp(m.SyllabusCursor, 0, len(topics)-2)
	case "c":
		m.report("subjects toggled", m.toggleAllSubjects())
	}
	return m
}

// toggleAllSubjects collapses every subject of the page, or expands them all
// when every one is collapsed already.
func (m Model) toggleAllSubjects() error {
	collapsed := map[string]bool{}
	var ids []string
	allCollapsed := true
	m.eng.View(func(_ *model.Document, ws *model.Workspace) {
		if page := selectedPage(ws); page != nil {
			for _, s := range page.Subjects {
				ids = append(ids, s.ID)
				collapsed[s.ID] = s.IsCollapsed
				allCollapsed = allCollapsed && s.IsCollapsed
			}
		}
	})
	for _, id := range ids {
		if collapsed[id] == allCollapsed {
			if err := m.eng.ToggleSubjectCollapsed(m.ctx, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m Model) renderSyllabusView() string {
	var data views.SyllabusPanelData
	m.eng.View(func(_ *model.Document, ws *model.Workspace) {
		page := selectedPage(ws)
		if page == nil {
			return
		}
		data.PageTitle = page.Title
		data.Page = clamp(ws.SyllabusCurrentPage, 0, len(ws.SyllabusPages)-1) + 1
		data.Pages = len(ws.SyllabusPages)
		row := 0
		for _, s := range page.Subjects {
			done, total := s.Progress()
			sd := views.SubjectData{Name: s.Name, Done: done, Total: total, Collapsed: s.IsCollapsed}
			if !s.IsCollapsed {
				for _, t := range s.Topics {
					sd.Topics = append(sd.Topics, views.TopicData{
						Name:      t.Name,
						Completed: t.CompletionDate.String(),
						Selected:  row == m.SyllabusCursor,
					})
					row++
				}
			}
			data.Subjects = append(data.Subjects, sd)
		}
	})
	return views.RenderSyllabusPanel(data)
}
