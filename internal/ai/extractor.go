package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const maxDescriptionLen = 2000

// Extraction is the metadata derived from a task description.
type Extraction struct {
	Title   string
	Label   string
	DueDate *time.Time
}

// Extractor turns natural-language task descriptions into structured
// metadata through a single structured-JSON completion.
type Extractor struct {
	client *Client
	logger zerolog.Logger
	now    func() time.Time
}

// NewExtractor creates an extractor over the given completions client.
func NewExtractor(client *Client, logger zerolog.Logger) *Extractor {
	return &Extractor{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

const extractionSystemPrompt = `You are a task analysis expert. Extract a concise title, a category label and an optional due date from natural language task descriptions.
Current date and time: %s

Guidelines:
- Create a short, actionable title (2-6 words); remove filler like "I need to" or "remember to"
- Pick a single lowercase label such as work, personal, health, finance, shopping, home, social, learning, travel or urgent
- Interpret relative dates like "tomorrow", "next week" or "Friday" against the current date
- If no date is mentioned, use null

Respond with only a JSON object: {"title": "...", "label": "...", "due_date": "2006-01-02T15:04:05Z or null"}`

type extractionResult struct {
	Title   string  `json:"title"`
	Label   string  `json:"label"`
	DueDate *string `json:"due_date"`
}

// Extract derives title, label and due date from description.
func (e *Extractor) Extract(ctx context.Context, description string) (*Extraction, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}
	if len(description) > maxDescriptionLen {
		return nil, fmt.Errorf("description too long (max %d characters)", maxDescriptionLen)
	}

	messages := []Message{
		{Role: "system", Content: fmt.Sprintf(extractionSystemPrompt, e.now().Format(time.RFC3339))},
		{Role: "user", Content: fmt.Sprintf("Extract title, label and due date from this task: %q", description)},
	}

	content, err := e.client.Complete(ctx, messages, 0.1, 500)
	if err != nil {
		return nil, fmt.Errorf("extraction completion: %w", err)
	}

	var result extractionResult
	if err := json.Unmarshal([]byte(extractJSON(content)), &result); err != nil {
		return nil, fmt.Errorf("decode extraction result: %w", err)
	}
	if result.Title == "" {
		return nil, fmt.Errorf("extraction returned no title")
	}
	if result.Label == "" {
		result.Label = "personal"
	}

	extraction := &Extraction{
		Title: result.Title,
		Label: strings.ToLower(result.Label),
	}
	if result.DueDate != nil && *result.DueDate != "" && !strings.EqualFold(*result.DueDate, "null") {
		due, err := time.Parse(time.RFC3339, *result.DueDate)
		if err != nil {
			e.logger.Warn().
				Str("due_date", *result.DueDate).
				Msg("unparseable due date in extraction, dropping it")
		} else {
			extraction.DueDate = &due
		}
	}

	e.logger.Debug().
		Str("title", extraction.Title).
		Str("label", extraction.Label).
		Msg("extracted task metadata")
	return extraction, nil
}
