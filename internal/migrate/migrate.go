// Package migrate upgrades persisted documents of any older schema version
// to model.CurrentVersion. Nothing in here fails: anything that cannot be
// read is replaced by its default.
package migrate

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/sandeepkv93/focusdeck/internal/model"
)

// step is a raw reshaping applied to one workspace object before it is
// decoded. Steps run in declaration order and must be no-ops on data that is
// already in the current shape.
type step struct {
	name  string
	apply func(ws map[string]any, today model.Date)
}

var steps = []step{
	{name: "reshape-syllabus", apply: reshapeSyllabus},
	{name: "backfill-topic-completion", apply: backfillTopicCompletion},
	{name: "drop-timer-alarm", apply: dropTimerAlarm},
}

// StepNames lists the raw reshaping steps in the order they run.
func StepNames() []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.name)
	}
	return out
}

// Migrate upgrades a parsed document of any version and tags the result with
// model.CurrentVersion.
func Migrate(old map[string]any, today model.Date) *model.Document {
	doc := build(old, today)
	doc.Version = model.CurrentVersion
	for i := range doc.Workspaces {
		if doc.Workspaces[i].Timetable.WeekStartDate.IsZero() {
			doc.Workspaces[i].Timetable.WeekStartDate = today.WeekStart()
		}
	}
	return doc
}

// Decode builds a document that is already at the current version, running
// the same repairs as Migrate without touching the version tag.
func Decode(raw map[string]any, today model.Date) *model.Document {
	doc := build(raw, today)
	if v := Version(raw); v > 0 {
		doc.Version = v
	}
	return doc
}

// Version reads the schema tag of a parsed document; 0 when absent or invalid.
func Version(raw map[string]any) int {
	return intValue(raw["version"])
}

func build(old map[string]any, today model.Date) *model.Document {
	doc := model.DefaultDocument()
	if old == nil {
		return doc
	}
	if s, ok := old["theme"].(string); ok && s != "" {
		doc.Theme = s
	}
	if s, ok := old["accent"].(string); ok && s != "" {
		doc.Accent = s
	}
	doc.Current = intValue(old["current"])

	items, ok := old["workspaces"].([]any)
	if !ok || len(items) == 0 {
		return doc
	}
	doc.Workspaces = make([]model.Workspace, 0, len(items))
	for _, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		doc.Workspaces = append(doc.Workspaces, migrateWorkspace(raw, today))
	}
	if len(doc.Workspaces) == 0 {
		doc.Workspaces = []model.Workspace{model.DefaultWorkspace(model.DefaultWorkspaceName)}
	}
	if doc.Current < 0 || doc.Current >= len(doc.Workspaces) {
		doc.Current = 0
	}
	return doc
}

func migrateWorkspace(raw map[string]any, today model.Date) model.Workspace {
	for _, s := range steps {
		s.apply(raw, today)
	}
	ws := model.DefaultWorkspace(model.DefaultWorkspaceName)
	decodeOver(raw, &ws)
	fillWorkspace(&ws)
	return ws
}

// decodeOver unmarshals raw over dst so absent fields keep dst's values.
// Fields of the wrong JSON type are skipped.
func decodeOver(raw map[string]any, dst *model.Workspace) {
	data, err := json.Marshal(raw)
	if err != nil {
		return
	}
	// encoding/json decodes array elements into existing slice entries, so
	// supplied lists must not inherit fields from the default ones.
	if _, ok := raw["syllabusPages"].([]any); ok {
		dst.SyllabusPages = nil
	}
	if _, ok := raw["taskCategories"].([]any); ok {
		dst.TaskCategories = nil
	}
	var typeErr *json.UnmarshalTypeError
	if err := json.Unmarshal(data, dst); err != nil && !errors.As(err, &typeErr) {
		*dst = model.DefaultWorkspace(model.DefaultWorkspaceName)
	}
}

func reshapeSyllabus(ws map[string]any, _ model.Date) {
	legacy, present := ws["syllabus"]
	if !present {
		return
	}
	delete(ws, "syllabus")
	subjects, ok := legacy.([]any)
	if !ok {
		return
	}
	ws["syllabusPages"] = []any{map[string]any{
		"id":       model.NewID(),
		"title":    model.DefaultPageTitle,
		"subjects": subjects,
	}}
	ws["syllabusCurrentPage"] = 0
}

func backfillTopicCompletion(ws map[string]any, today model.Date) {
	pages, _ := ws["syllabusPages"].([]any)
	for _, p := range pages {
		page, _ := p.(map[string]any)
		subjects, _ := page["subjects"].([]any)
		for _, s := range subjects {
			subject, _ := s.(map[string]any)
			topics, _ := subject["topics"].([]any)
			for _, tp := range topics {
				topic, ok := tp.(map[string]any)
				if !ok {
					continue
				}
				done, present := topic["done"]
				if !present {
					continue
				}
				if truthy(done) && !hasString(topic, "completionDate") {
					topic["completionDate"] = today.String()
				}
				delete(topic, "done")
			}
		}
	}
}

func dropTimerAlarm(ws map[string]any, _ model.Date) {
	if timer, ok := ws["timer"].(map[string]any); ok {
		delete(timer, "alarmDur")
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case nil:
		return false
	default:
		return true
	}
}

func hasString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && s != ""
}

func intValue(v any) int {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
