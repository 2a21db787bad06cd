package engine

import (
	"context"
	"errors"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

const (
	placeholderFront = "Edit to set the question"
	placeholderBack  = "Edit to set the answer"
	defaultDeck      = "General"
)

var ErrNoDate = errors.New("engine: missing date")

// Calendar reminders

func (e *Engine) AddReminder(ctx context.Context, date model.Date, text string) (model.Reminder, error) {
	var rem model.Reminder
	err := e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		if date.IsZero() {
			return ErrNoDate
		}
		clean, err := cleanText(text)
		if err != nil {
			return err
		}
		rem = model.Reminder{ID: model.NewID(), Text: clean}
		if ws.Reminders == nil {
			ws.Reminders = map[string][]model.Reminder{}
		}
		key := date.String()
		ws.Reminders[key] = append(ws.Reminders[key], rem)
		return nil
	})
	return rem, err
}

func (e *Engine) EditReminder(ctx context.Context, date model.Date, id, text string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		clean, err := cleanText(text)
		if err != nil {
			return err
		}
		list := ws.Reminders[date.String()]
		for i := range list {
			if list[i].ID == id {
				list[i].Text = clean
				return nil
			}
		}
		return notFound("reminder", id)
	})
}

// DeleteReminder removes a reminder and drops the date once it has none.
func (e *Engine) DeleteReminder(ctx context.Context, date model.Date, id string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		key := date.String()
		list := ws.Reminders[key]
		out := make([]model.Reminder, 0, len(list))
		for _, r := range list {
			if r.ID != id {
				out = append(out, r)
			}
		}
		if len(out) == len(list) {
			return notFound("reminder", id)
		}
		if len(out) == 0 {
			delete(ws.Reminders, key)
		} else {
			ws.Reminders[key] = out
		}
		return nil
	})
}

// Reminders returns a copy of the reminders of one date.
func (e *Engine) Reminders(date model.Date) []model.Reminder {
	var out []model.Reminder
	e.View(func(_ *model.Document, ws *model.Workspace) {
		out = append(out, ws.Reminders[date.String()]...)
	})
	return out
}

// Sticky notes

func (e *Engine) AddStickyNote(ctx context.Context, text string) (model.StickyNote, error) {
	var note model.StickyNote
	err := e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		if strings.TrimSpace(text) == "" {
			text = "New Note"
		}
		note = model.StickyNote{
			ID:    model.NewID(),
			X:     20,
			Y:     20,
			Text:  text,
			Files: []model.Link{},
			Color: model.AccentChoices[rand.IntN(len(model.AccentChoices))],
		}
		ws.StickyNotes = append(ws.StickyNotes, note)
		return nil
	})
	return note, err
}

func (e *Engine) withNote(ctx context.Context, id string, fn func(n *model.StickyNote) error) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		for i := range ws.StickyNotes {
			if ws.StickyNotes[i].ID == id {
				return fn(&ws.StickyNotes[i])
			}
		}
		return notFound("sticky note", id)
	})
}

func (e *Engine) EditStickyNote(ctx context.Context, id, text string) error {
	return e.withNote(ctx, id, func(n *model.StickyNote) error {
		n.Text = text
		return nil
	})
}

func (e *Engine) MoveStickyNote(ctx context.Context, id string, x, y int) error {
	return e.withNote(ctx, id, func(n *model.StickyNote) error {
		n.X, n.Y = max(0, x), max(0, y)
		return nil
	})
}

func (e *Engine) AddStickyLink(ctx context.Context, id, name, url string) error {
	return e.withNote(ctx, id, func(n *model.StickyNote) error {
		cleanName, err := cleanText(name)
		if err != nil {
			return err
		}
		cleanURL, err := cleanText(url)
		if err != nil {
			return err
		}
		n.Files = append(n.Files, model.Link{Name: cleanName, URL: cleanURL, Type: "url"})
		return nil
	})
}

func (e *Engine) RemoveStickyLink(ctx context.Context, id string, index int) error {
	return e.withNote(ctx, id, func(n *model.StickyNote) error {
		if index < 0 || index >= len(n.Files) {
			return ErrOutOfRange
		}
		n.Files = append(n.Files[:index], n.Files[index+1:]...)
		return nil
	})
}

func (e *Engine) DeleteStickyNote(ctx context.Context, id string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		for i := range ws.StickyNotes {
			if ws.StickyNotes[i].ID == id {
				ws.StickyNotes = append(ws.StickyNotes[:i], ws.StickyNotes[i+1:]...)
				return nil
			}
		}
		return notFound("sticky note", id)
	})
}

// Flashcards

// AddFlashcard appends a placeholder card to the deck named category,
// creating the deck if no deck matches case-insensitively.
func (e *Engine) AddFlashcard(ctx context.Context, category string) (string, model.Card, error) {
	var deckID string
	var card model.Card
	err := e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		name := strings.TrimSpace(category)
		if name == "" {
			name = defaultDeck
		}
		var deck *model.Deck
		for i := range ws.Flashcards {
			if strings.EqualFold(ws.Flashcards[i].Title, name) {
				deck = &ws.Flashcards[i]
				break
			}
		}
		if deck == nil {
			ws.Flashcards = append(ws.Flashcards, model.Deck{ID: model.NewID(), Title: name, Cards: []model.Card{}})
			deck = &ws.Flashcards[len(ws.Flashcards)-1]
		}
		card = model.Card{ID: model.NewID(), Front: placeholderFront, Back: placeholderBack}
		deck.Cards = append(deck.Cards, card)
		deckID = deck.ID
		return nil
	})
	return deckID, card, err
}

func (e *Engine) EditFlashcard(ctx context.Context, deckID, cardID, front, back string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		for i := range ws.Flashcards {
			if ws.Flashcards[i].ID != deckID {
				continue
			}
			cards := ws.Flashcards[i].Cards
			for j := range cards {
				if cards[j].ID == cardID {
					cards[j].Front = strings.TrimSpace(front)
					cards[j].Back = strings.TrimSpace(back)
					return nil
				}
			}
			return notFound("card", cardID)
		}
		return notFound("deck", deckID)
	})
}

// DeleteFlashcard removes a card; a deck left without cards goes too.
func (e *Engine) DeleteFlashcard(ctx context.Context, deckID, cardID string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		for i := range ws.Flashcards {
			deck := &ws.Flashcards[i]
			if deck.ID != deckID {
				continue
			}
			for j := range deck.Cards {
				if deck.Cards[j].ID != cardID {
					continue
				}
				deck.Cards = append(deck.Cards[:j], deck.Cards[j+1:]...)
				if len(deck.Cards) == 0 {
					ws.Flashcards = append(ws.Flashcards[:i], ws.Flashcards[i+1:]...)
				}
				return nil
			}
			return notFound("card", cardID)
		}
		return notFound("deck", deckID)
	})
}

// Journal

func (e *Engine) AddJournalEntry(ctx context.Context, date model.Date, text string) (model.JournalEntry, error) {
	var entry model.JournalEntry
	err := e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		if date.IsZero() {
			return ErrNoDate
		}
		clean, err := cleanText(text)
		if err != nil {
			return err
		}
		entry = model.JournalEntry{ID: model.NewID(), Date: date, Text: clean}
		ws.Journal = append(ws.Journal, entry)
		return nil
	})
	return entry, err
}

func (e *Engine) EditJournalEntry(ctx context.Context, id string, date model.Date, text string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		if date.IsZero() {
			return ErrNoDate
		}
		clean, err := cleanText(text)
		if err != nil {
			return err
		}
		for i := range ws.Journal {
			if ws.Journal[i].ID == id {
				ws.Journal[i].Date = date
				ws.Journal[i].Text = clean
				return nil
			}
		}
		return notFound("journal entry", id)
	})
}

func (e *Engine) DeleteJournalEntry(ctx context.Context, id string) error {
	return e.mutate(ctx, func(ws *model.Workspace, _ model.Date) error {
		for i := range ws.Journal {
			if ws.Journal[i].ID == id {
				ws.Journal = append(ws.Journal[:i], ws.Journal[i+1:]...)
				return nil
			}
		}
		return notFound("journal entry", id)
	})
}

// JournalEntries returns the journal newest first. Entries of the same date
// keep their insertion order.
func (e *Engine) JournalEntries() []model.JournalEntry {
	var out []model.JournalEntry
	e.View(func(_ *model.Document, ws *model.Workspace) {
		out = append(out, ws.Journal...)
	})
	sortJournal(out)
	return out
}

func sortJournal(entries []model.JournalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[j].Date.Before(entries[i].Date)
	})
}
