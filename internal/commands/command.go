package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeDone    Type = "done"
	TypeDelete  Type = "del"
	TypeRecur   Type = "recur"
	TypeCell    Type = "cell"
	TypeRemind  Type = "remind"
	TypeJournal Type = "journal"
	TypeWS      Type = "ws"
	TypeFocus   Type = "focus"
	TypeAccent  Type = "accent"
	TypeSubject Type = "subject"
	TypeTopic   Type = "topic"
	TypePage    Type = "page"
	TypeNote    Type = "note"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

type AddArgs struct {
	Text string
}

// Positions are 1-based, as listed on screen.
type DoneArgs struct {
	Position int
}

type DeleteScope string

const (
	ScopeOnce DeleteScope = "once"
	ScopeAll  DeleteScope = "all"
)

type DeleteArgs struct {
	Position int
	Scope    DeleteScope
}

type RecurArgs struct {
	Position int
}

// CellArgs addresses a timetable cell by 0-based row and Monday-first day.
// Empty Text clears the cell.
type CellArgs struct {
	Row  int
	Day  int
	Text string
}

type RemindArgs struct {
	Date string
	Text string
}

type JournalArgs struct {
	Date string
	Text string
}

type WSAction string

const (
	WSSelect WSAction = "select"
	WSNew    WSAction = "new"
	WSRename WSAction = "rename"
)

type WSArgs struct {
	Action   WSAction
	Position int
	Name     string
}

type FocusArgs struct {
	Mode model.TimerMode
}

type AccentArgs struct {
	Color string
}

type SubjectArgs struct {
	Name string
}

// TopicArgs adds a topic to the subject at Position on the current page.
type TopicArgs struct {
	Position int
	Name     string
}

// PageArgs adds a syllabus page; a blank title gets a numbered one.
type PageArgs struct {
	Title string
}

type NoteArgs struct {
	Text string
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Done    *DoneArgs
	Delete  *DeleteArgs
	Recur   *RecurArgs
	Cell    *CellArgs
	Remind  *RemindArgs
	Journal *JournalArgs
	WS      *WSArgs
	Focus   *FocusArgs
	Accent  *AccentArgs
	Subject *SubjectArgs
	Topic   *TopicArgs
	Page    *PageArgs
	Note    *NoteArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		n, err := parsePosition("done", args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeDone, Raw: input, Done: &DoneArgs{Position: n}}, nil
	case TypeDelete:
		return parseDelete(input, args)
	case TypeRecur:
		n, err := parsePosition("recur", args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeRecur, Raw: input, Recur: &RecurArgs{Position: n}}, nil
	case TypeCell:
		return parseCell(input, args)
	case TypeRemind:
		date, text, err := parseDated("remind", args, false)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeRemind, Raw: input, Remind: &RemindArgs{Date: date, Text: text}}, nil
	case TypeJournal:
		date, text, err := parseDated("journal", args, true)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeJournal, Raw: input, Journal: &JournalArgs{Date: date, Text: text}}, nil
	case TypeWS:
		return parseWS(input, args)
	case TypeFocus:
		return parseFocus(input, args)
	case TypeAccent:
		if len(args) != 1 {
			return Command{}, invalid("accent requires one #rrggbb color")
		}
		return Command{Type: TypeAccent, Raw: input, Accent: &AccentArgs{Color: args[0]}}, nil
	case TypeSubject:
		name := strings.Join(args, " ")
		if name == "" {
			return Command{}, invalid("subject requires a name")
		}
		return Command{Type: TypeSubject, Raw: input, Subject: &SubjectArgs{Name: name}}, nil
	case TypeTopic:
		n, err := parsePosition("topic", args)
		if err != nil {
			return Command{}, err
		}
		name := strings.Join(args[1:], " ")
		if name == "" {
			return Command{}, invalid("topic requires a name")
		}
		return Command{Type: TypeTopic, Raw: input, Topic: &TopicArgs{Position: n, Name: name}}, nil
	case TypePage:
		return Command{Type: TypePage, Raw: input, Page: &PageArgs{Title: strings.Join(args, " ")}}, nil
	case TypeNote:
		return Command{Type: TypeNote, Raw: input, Note: &NoteArgs{Text: strings.Join(args, " ")}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, invalid("add requires a task text")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text}}, nil
}

func parsePosition(name string, args []string) (int, error) {
	if len(args) == 0 {
		return 0, invalid("%s requires a position", name)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, invalid("%s: bad position %q", name, args[0])
	}
	return n, nil
}

func parseDelete(raw string, args []string) (Command, error) {
	n, err := parsePosition("del", args)
	if err != nil {
		return Command{}, err
	}
	scope := ScopeOnce
	if len(args) > 1 {
		switch DeleteScope(strings.ToLower(args[1])) {
		case ScopeOnce:
		case ScopeAll:
			scope = ScopeAll
		default:
			return Command{}, invalid("del scope must be once or all, got %q", args[1])
		}
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Position: n, Scope: scope}}, nil
}

var weekdays = map[string]int{
	"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6,
}

// parseCell reads "cell <row> <day> [text...]" where row is 1-based and day
// is a weekday name or 1-7.
func parseCell(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("cell requires a row and a day")
	}
	row, err := strconv.Atoi(args[0])
	if err != nil || row < 1 {
		return Command{}, invalid("cell: bad row %q", args[0])
	}
	name := strings.ToLower(args[1])
	day, ok := weekdays[name[:min(3, len(name))]]
	if !ok {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 || n > 7 {
			return Command{}, invalid("cell: bad day %q", args[1])
		}
		day = n - 1
	}
	text := strings.Join(args[2:], " ")
	return Command{Type: TypeCell, Raw: raw, Cell: &CellArgs{Row: row - 1, Day: day, Text: text}}, nil
}

// parseDated splits "[date] text". When optional is false a date is required.
func parseDated(name string, args []string, optional bool) (string, string, error) {
	date := ""
	if len(args) > 0 && looksLikeDate(args[0]) {
		date, args = strings.ToLower(args[0]), args[1:]
	}
	if date == "" && !optional {
		return "", "", invalid("%s requires a date (YYYY-MM-DD, today or tomorrow)", name)
	}
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return "", "", invalid("%s requires text", name)
	}
	return date, text, nil
}

func looksLikeDate(s string) bool {
	switch strings.ToLower(s) {
	case "today", "tomorrow", "yesterday":
		return true
	}
	_, err := model.ParseDate(s)
	return err == nil
}

// ResolveDate turns a date argument into a calendar date. An empty arg
// means today.
func ResolveDate(arg string, today model.Date) (model.Date, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	d, err := model.ParseDate(arg)
	if err != nil {
		return model.Date{}, invalid("bad date %q", arg)
	}
	return d, nil
}

func parseWS(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("ws requires a position, new [name] or rename <name>")
	}
	switch WSAction(strings.ToLower(args[0])) {
	case WSNew:
		name := strings.Join(args[1:], " ")
		return Command{Type: TypeWS, Raw: raw, WS: &WSArgs{Action: WSNew, Name: name}}, nil
	case WSRename:
		name := strings.TrimSpace(strings.Join(args[1:], " "))
		if name == "" {
			return Command{}, invalid("ws rename requires a name")
		}
		return Command{Type: TypeWS, Raw: raw, WS: &WSArgs{Action: WSRename, Name: name}}, nil
	}
	n, err := parsePosition("ws", args)
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeWS, Raw: raw, WS: &WSArgs{Action: WSSelect, Position: n}}, nil
}

func parseFocus(raw string, args []string) (Command, error) {
	mode := model.TimerModeFocus
	if len(args) > 0 {
		mode = model.TimerMode(strings.ToLower(args[0]))
		if !mode.IsValid() {
			return Command{}, invalid("focus mode must be focus, short or long")
		}
	}
	return Command{Type: TypeFocus, Raw: raw, Focus: &FocusArgs{Mode: mode}}, nil
}

// Usage lists the palette commands for the help view.
func Usage() []string {
	return []string{
		"add <text>",
		"done <n>",
		"del <n> [once|all]",
		"recur <n>",
		"cell <row> <mon..sun|1-7> [text]",
		"remind <date> <text>",
		"journal [date] <text>",
		"ws <n> | ws new [name] | ws rename <name>",
		"focus [focus|short|long]",
		"accent <#rrggbb>",
		"subject <name>",
		"topic <subject n> <name>",
		"page [title]",
		"note [text]",
	}
}

