// Package extract derives structured task fields from free-text
// descriptions using ordered keyword rules. It is a deliberately crude
// stand-in for the AI extraction pipeline, used to keep locally created
// tasks plausible when the backend is unreachable.
package extract

import (
	"strings"
	"time"

	"github.com/avoran/taskmate/internal/models"
)

const maxTitleLen = 50

// Fields holds the metadata derived from a task description.
type Fields struct {
	Title   string
	Label   string
	DueDate *time.Time
}

// labelRule maps a set of trigger keywords to a label. Rules are checked
// in slice order and the first match wins, so precedence stays explicit.
type labelRule struct {
	keywords []string
	label    string
}

var labelRules = []labelRule{
	{[]string{"work", "meeting", "report", "project", "client", "presentation"}, models.LabelWork},
	{[]string{"buy", "shop", "grocery", "purchase", "store"}, models.LabelShopping},
	{[]string{"doctor", "dentist", "health", "appointment", "medical", "hospital"}, models.LabelHealth},
	{[]string{"urgent", "asap", "immediately", "critical", "emergency"}, models.LabelUrgent},
}

// dateRule maps a trigger keyword to a relative-date resolver.
type dateRule struct {
	keyword string
	resolve func(now time.Time) time.Time
}

var dateRules = []dateRule{
	{"tomorrow", func(now time.Time) time.Time { return now.AddDate(0, 0, 1) }},
	{"next week", func(now time.Time) time.Time { return now.AddDate(0, 0, 7) }},
	{"next month", func(now time.Time) time.Time { return now.AddDate(0, 1, 0) }},
	{"friday", func(now time.Time) time.Time { return nextWeekday(now, time.Friday) }},
	{"monday", func(now time.Time) time.Time { return nextWeekday(now, time.Monday) }},
}

// Extract derives a title, label and optional due date from description.
// Relative dates resolve against now.
func Extract(description string, now time.Time) Fields {
	return Fields{
		Title:   extractTitle(description),
		Label:   extractLabel(description),
		DueDate: extractDueDate(description, now),
	}
}

func extractTitle(description string) string {
	trimmed := strings.TrimSpace(description)

	segment := trimmed
	if i := strings.IndexAny(trimmed, ".!?"); i >= 0 {
		segment = trimmed[:i]
	}
	segment = strings.TrimSpace(segment)

	if segment == "" {
		segment = trimmed
	}
	if len(segment) > maxTitleLen {
		segment = strings.TrimSpace(segment[:maxTitleLen])
	}
	return segment
}

func extractLabel(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range labelRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.label
			}
		}
	}
	return models.LabelPersonal
}

func extractDueDate(description string, now time.Time) *time.Time {
	lower := strings.ToLower(description)
	for _, rule := range dateRules {
		if strings.Contains(lower, rule.keyword) {
			due := rule.resolve(now)
			return &due
		}
	}
	return nil
}

// nextWeekday returns the next occurrence of target strictly after now:
// if today already is the target weekday, the date a full week out.
func nextWeekday(now time.Time, target time.Weekday) time.Time {
	days := (int(target) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return now.AddDate(0, 0, days)
}
