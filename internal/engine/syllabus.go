package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

// currentPage returns the selected syllabus page, clamping the index and
// recreating a page when none exist.
func currentPage(ws *model.Workspace) *model.SyllabusPage {
	if len(ws.SyllabusPages) == 0 {
		ws.SyllabusPages = []model.SyllabusPage{model.NewSyllabusPage(model.DefaultPageTitle)}
	}
	if ws.SyllabusCurrentPage < 0 || ws.SyllabusCurrentPage >= len(ws.SyllabusPages) {
		ws.SyllabusCurrentPage = 0
	}
	return &ws.SyllabusPages[ws.SyllabusCurrentPage]
}

func findSubject(page *model.SyllabusPage, id string) *model.Subject {
	for i := range page.Subjects {
		if page.Subjects[i].ID == id {
			return &page.Subjects[i]
		}
	}
	return nil
}

func (e *Engine) AddPage(ctx context.Context, title string) (model.SyllabusPage, error) {
	var page model.SyllabusPage
	err := e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		clean := strings.TrimSpace(title)
		if clean == "" {
			clean = fmt.Sprintf("Page %d", len(ws.SyllabusPages)+1)
		}
		page = model.NewSyllabusPage(clean)
		ws.SyllabusPages = append(ws.SyllabusPages, page)
		return nil
	})
	return page, err
}

func (e *Engine) RenamePage(ctx context.Context, title string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		currentPage(ws).Title = strings.TrimSpace(title)
		return nil
	})
}

// DeletePage removes a page other than the first and keeps the selection on
// a valid page.
func (e *Engine) DeletePage(ctx context.Context, index int) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		if index == 0 {
			return ErrProtectedPage
		}
		if index < 0 || index >= len(ws.SyllabusPages) {
			return fmt.Errorf("%w: page %d", ErrOutOfRange, index)
		}
		ws.SyllabusPages = append(ws.SyllabusPages[:index], ws.SyllabusPages[index+1:]...)
		if ws.SyllabusCurrentPage >= index {
			ws.SyllabusCurrentPage = max(0, ws.SyllabusCurrentPage-1)
		}
		return nil
	})
}

// NavigatePage moves the selection by delta pages. Moves past either end are
// ignored and report false.
func (e *Engine) NavigatePage(ctx context.Context, delta int) (bool, error) {
	moved := false
	err := e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		currentPage(ws)
		next := ws.SyllabusCurrentPage + delta
		if next < 0 || next >= len(ws.SyllabusPages) || delta == 0 {
			return nil
		}
		ws.SyllabusCurrentPage = next
		moved = true
		return nil
	})
	return moved, err
}

func (e *Engine) AddSubject(ctx context.Context, name string) (model.Subject, error) {
	var subject model.Subject
	err := e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		clean, err := cleanText(name)
		if err != nil {
			return err
		}
		page := currentPage(ws)
		subject = model.Subject{ID: model.NewID(), Name: clean, Topics: []model.Topic{}}
		page.Subjects = append(page.Subjects, subject)
		return nil
	})
	return subject, err
}

func (e *Engine) DeleteSubject(ctx context.Context, subjectID string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		page := currentPage(ws)
		for i := range page.Subjects {
			if page.Subjects[i].ID == subjectID {
				page.Subjects = append(page.Subjects[:i], page.Subjects[i+1:]...)
				return nil
			}
		}
		return notFound("subject", subjectID)
	})
}

func (e *Engine) ToggleSubjectCollapsed(ctx context.Context, subjectID string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		s := findSubject(currentPage(ws), subjectID)
		if s == nil {
			return notFound("subject", subjectID)
		}
		s.IsCollapsed = !s.IsCollapsed
		return nil
	})
}

func (e *Engine) AddTopic(ctx context.Context, subjectID, name string) (model.Topic, error) {
	var topic model.Topic
	err := e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		clean, err := cleanText(name)
		if err != nil {
			return err
		}
		s := findSubject(currentPage(ws), subjectID)
		if s == nil {
			return notFound("subject", subjectID)
		}
		topic = model.Topic{ID: model.NewID(), Name: clean}
		s.Topics = append(s.Topics, topic)
		return nil
	})
	return topic, err
}

func (e *Engine) DeleteTopic(ctx context.Context, subjectID, topicID string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		s := findSubject(currentPage(ws), subjectID)
		if s == nil {
			return notFound("subject", subjectID)
		}
		for i := range s.Topics {
			if s.Topics[i].ID == topicID {
				s.Topics = append(s.Topics[:i], s.Topics[i+1:]...)
				return nil
			}
		}
		return notFound("topic", topicID)
	})
}

// ToggleTopic stamps an open topic with today's date, or clears the date of
// a completed one. Completing counts towards the streak.
func (e *Engine) ToggleTopic(ctx context.Context, subjectID, topicID string) (Result, error) {
	return e.mutateStreak(ctx, func(ws *model.Workspace, today model.Date) (bool, error) {
		s := findSubject(currentPage(ws), subjectID)
		if s == nil {
			return false, notFound("subject", subjectID)
		}
		for i := range s.Topics {
			t := &s.Topics[i]
			if t.ID != topicID {
				continue
			}
			if t.IsComplete() {
				t.CompletionDate = model.Date{}
				return false, nil
			}
			t.CompletionDate = today
			updateStreak(ws, today)
			return true, nil
		}
		return false, notFound("topic", topicID)
	})
}
