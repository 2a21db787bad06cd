package model

type BadgeKind string

const (
	BadgeStreak1   BadgeKind = "streak1"
	BadgeStreak7   BadgeKind = "streak7"
	BadgeStreak30  BadgeKind = "streak30"
	BadgeLongest10 BadgeKind = "longest10"
	BadgeTotal10   BadgeKind = "total10"
	BadgeTotal100  BadgeKind = "total100"
)

// StreakMetric selects which FocusStreak counter a badge is measured against.
type StreakMetric string

const (
	MetricCurrent   StreakMetric = "current"
	MetricLongest   StreakMetric = "longest"
	MetricTotalDays StreakMetric = "total_days"
)

type Badge struct {
	Kind        BadgeKind
	Title       string
	Icon        string
	Description string
	Metric      StreakMetric
	Threshold   int
}

// badgeCatalog is ordered; when several badges unlock together the last one
// in this order is reported as the latest.
var badgeCatalog = []Badge{
	{Kind: BadgeStreak1, Title: "Beginner", Icon: "🌱", Description: "Complete a 1-day focus streak.", Metric: MetricCurrent, Threshold: 1},
	{Kind: BadgeStreak7, Title: "Weekly Warrior", Icon: "📅", Description: "Complete a 7-day focus streak.", Metric: MetricCurrent, Threshold: 7},
	{Kind: BadgeStreak30, Title: "Month Master", Icon: "🗓️", Description: "Complete a 30-day focus streak.", Metric: MetricCurrent, Threshold: 30},
	{Kind: BadgeLongest10, Title: "Dedicated", Icon: "🎯", Description: "Achieve a 10-day longest streak.", Metric: MetricLongest, Threshold: 10},
	{Kind: BadgeTotal10, Title: "Getting Started", Icon: "🚀", Description: "Use the app for 10 total days.", Metric: MetricTotalDays, Threshold: 10},
	{Kind: BadgeTotal100, Title: "Veteran", Icon: "🏆", Description: "Use the app for 100 total days.", Metric: MetricTotalDays, Threshold: 100},
}

// Badges returns the catalog in evaluation order.
func Badges() []Badge {
	return append([]Badge(nil), badgeCatalog...)
}

func LookupBadge(kind BadgeKind) (Badge, bool) {
	for _, b := range badgeCatalog {
		if b.Kind == kind {
			return b, true
		}
	}
	return Badge{}, false
}

func (k BadgeKind) IsValid() bool {
	_, ok := LookupBadge(k)
	return ok
}

func (b Badge) Satisfied(s FocusStreak) bool {
	var value int
	switch b.Metric {
	case MetricCurrent:
		value = s.Current
	case MetricLongest:
		value = s.Longest
	case MetricTotalDays:
		value = s.TotalDays
	default:
		return false
	}
	return value >= b.Threshold
}

// EvaluateBadge reports whether the badge predicate holds for the streak.
// Unknown kinds never hold.
func EvaluateBadge(kind BadgeKind, s FocusStreak) bool {
	b, ok := LookupBadge(kind)
	if !ok {
		return false
	}
	return b.Satisfied(s)
}
