package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Done    func(DoneArgs) (Result, error)
	Delete  func(DeleteArgs) (Result, error)
	Recur   func(RecurArgs) (Result, error)
	Cell    func(CellArgs) (Result, error)
	Remind  func(RemindArgs) (Result, error)
	Journal func(JournalArgs) (Result, error)
	WS      func(WSArgs) (Result, error)
	Focus   func(FocusArgs) (Result, error)
	Accent  func(AccentArgs) (Result, error)
	Subject func(SubjectArgs) (Result, error)
	Topic   func(TopicArgs) (Result, error)
	Page    func(PageArgs) (Result, error)
	Note    func(NoteArgs) (Result, error)
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

func dispatch[A any](t Type, fn func(A) (Result, error), args *A) (Result, error) {
	if fn == nil {
		return Result{}, missing(t)
	}
	return fn(*args)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		return dispatch(cmd.Type, handlers.Add, cmd.Add)
	case TypeDone:
		return dispatch(cmd.Type, handlers.Done, cmd.Done)
	case TypeDelete:
		return dispatch(cmd.Type, handlers.Delete, cmd.Delete)
	case TypeRecur:
		return dispatch(cmd.Type, handlers.Recur, cmd.Recur)
	case TypeCell:
		return dispatch(cmd.Type, handlers.Cell, cmd.Cell)
	case TypeRemind:
		return dispatch(cmd.Type, handlers.Remind, cmd.Remind)
	case TypeJournal:
		return dispatch(cmd.Type, handlers.Journal, cmd.Journal)
	case TypeWS:
		return dispatch(cmd.Type, handlers.WS, cmd.WS)
	case TypeFocus:
		return dispatch(cmd.Type, handlers.Focus, cmd.Focus)
	case TypeAccent:
		return dispatch(cmd.Type, handlers.Accent, cmd.Accent)
	case TypeSubject:
		return dispatch(cmd.Type, handlers.Subject, cmd.Subject)
	case TypeTopic:
		return dispatch(cmd.Type, handlers.Topic, cmd.Topic)
	case TypePage:
		return dispatch(cmd.Type, handlers.Page, cmd.Page)
	case TypeNote:
		return dispatch(cmd.Type, handlers.Note, cmd.Note)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
