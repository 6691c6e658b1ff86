package extract_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoran/taskmate/internal/extract"
)

func TestExtract_TitleFirstSentence(t *testing.T) {
	now := time.Now()

	fields := extract.Extract("Call the plumber. Ask about the kitchen sink.", now)
	assert.Equal(t, "Call the plumber", fields.Title)

	fields = extract.Extract("Really? Yes, really", now)
	assert.Equal(t, "Really", fields.Title)
}

func TestExtract_TitleTruncatedToFiftyChars(t *testing.T) {
	long := strings.Repeat("a", 80)
	fields := extract.Extract(long, time.Now())
	assert.Equal(t, strings.Repeat("a", 50), fields.Title)
}

func TestExtract_TitleFallsBackToRawDescription(t *testing.T) {
	// Punctuation-first input leaves an empty first segment.
	fields := extract.Extract("...", time.Now())
	assert.Equal(t, "...", fields.Title)
}

func TestExtract_LabelBuckets(t *testing.T) {
	now := time.Now()
	tests := []struct {
		description string
		label       string
	}{
		{"Prepare the quarterly report", "work"},
		{"Schedule a meeting with the design team", "work"},
		{"Buy milk and eggs", "shopping"},
		{"grocery run before the weekend", "shopping"},
		{"Book a dentist appointment", "health"},
		{"URGENT: renew the certificates", "urgent"},
		{"Water the plants", "personal"},
		{"", "personal"},
	}

	for _, tt := range tests {
		fields := extract.Extract(tt.description, now)
		assert.Equal(t, tt.label, fields.Label, "description: %q", tt.description)
	}
}

func TestExtract_LabelPrecedenceWorkBeforeShopping(t *testing.T) {
	// Both a work and a shopping keyword present: first bucket wins.
	fields := extract.Extract("Buy a present for the client", time.Now())
	assert.Equal(t, "work", fields.Label)
}

func TestExtract_DueDateTomorrow(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	fields := extract.Extract("Submit the form tomorrow", now)

	require.NotNil(t, fields.DueDate)
	assert.Equal(t, now.AddDate(0, 0, 1), *fields.DueDate)
}

func TestExtract_DueDateNextWeekAndMonth(t *testing.T) {
	now := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)

	fields := extract.Extract("Plan the trip next week", now)
	require.NotNil(t, fields.DueDate)
	assert.Equal(t, now.AddDate(0, 0, 7), *fields.DueDate)

	fields = extract.Extract("Renew the lease next month", now)
	require.NotNil(t, fields.DueDate)
	assert.Equal(t, now.AddDate(0, 1, 0), *fields.DueDate)
}

func TestExtract_DueDateWeekdayNeverSameDay(t *testing.T) {
	// 2026-03-13 is a Friday; "friday" must resolve a week out.
	friday := time.Date(2026, 3, 13, 12, 0, 0, 0, time.UTC)
	fields := extract.Extract("Team lunch on friday", friday)
	require.NotNil(t, fields.DueDate)
	assert.Equal(t, friday.AddDate(0, 0, 7), *fields.DueDate)

	// From a Wednesday, the upcoming Friday is two days ahead.
	wednesday := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	fields = extract.Extract("Team lunch on friday", wednesday)
	require.NotNil(t, fields.DueDate)
	assert.Equal(t, wednesday.AddDate(0, 0, 2), *fields.DueDate)

	fields = extract.Extract("Standup on monday", wednesday)
	require.NotNil(t, fields.DueDate)
	assert.Equal(t, time.Monday, fields.DueDate.Weekday())
	assert.Equal(t, wednesday.AddDate(0, 0, 5), *fields.DueDate)
}

func TestExtract_DueDateFirstRuleWins(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	fields := extract.Extract("Do it tomorrow, or next week at the latest", now)
	require.NotNil(t, fields.DueDate)
	assert.Equal(t, now.AddDate(0, 0, 1), *fields.DueDate)
}

func TestExtract_NoDueDate(t *testing.T) {
	fields := extract.Extract("Clean the garage", time.Now())
	assert.Nil(t, fields.DueDate)
}
