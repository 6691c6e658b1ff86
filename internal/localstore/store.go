// Package localstore keeps an in-memory task collection used while the
// backend is unreachable. It is seeded with example tasks, never
// persisted and discarded on process exit.
package localstore

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/avoran/taskmate/internal/extract"
	"github.com/avoran/taskmate/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

// firstID keeps locally assigned ids visually distinct from the small
// serial ids a fresh backend hands out.
const firstID = 1000

// Store is a mutex-guarded ordered task collection with a monotonic id
// generator. Ids are never reused within a process.
type Store struct {
	mu     sync.Mutex
	tasks  []models.Task
	nextID int64
	now    func() time.Time
}

// New returns a store seeded with a few example tasks so list views have
// something to show immediately after falling back.
func New() *Store {
	s := &Store{
		nextID: firstID,
		now:    time.Now,
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	now := s.now()
	seeds := []struct {
		description string
		age         time.Duration
	}{
		{"Prepare slides for the quarterly project review meeting", 48 * time.Hour},
		{"Buy groceries for the week. Milk, eggs, bread", 24 * time.Hour},
		{"Book a dentist appointment for next week", 2 * time.Hour},
	}

	for _, seed := range seeds {
		created := now.Add(-seed.age)
		fields := extract.Extract(seed.description, created)
		s.tasks = append(s.tasks, models.Task{
			ID:          s.nextID,
			Description: seed.description,
			Title:       fields.Title,
			Label:       fields.Label,
			DueDate:     fields.DueDate,
			CreatedAt:   created,
			UpdatedAt:   created,
		})
		s.nextID++
	}
}

// List returns tasks sorted by creation time descending. An empty label
// or "all" disables filtering; anything else is an exact match.
func (s *Store) List(label string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if label != "" && label != "all" && task.Label != label {
			continue
		}
		tasks = append(tasks, task)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks
}

// Get returns the task with the given id or ErrTaskNotFound.
func (s *Store) Get(id int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, task := range s.tasks {
		if task.ID == id {
			t := task
			return &t, nil
		}
	}
	return nil, ErrTaskNotFound
}

// Create derives fields from description, assigns the next id and
// appends the task.
func (s *Store) Create(description string) *models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	fields := extract.Extract(description, now)
	task := models.Task{
		ID:          s.nextID,
		Description: description,
		Title:       fields.Title,
		Label:       fields.Label,
		DueDate:     fields.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextID++
	s.tasks = append(s.tasks, task)

	t := task
	return &t
}

// Update replaces the description and re-derives the extracted fields,
// preserving the id and creation time.
func (s *Store) Update(id int64, description string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}

		now := s.now()
		fields := extract.Extract(description, now)
		s.tasks[i].Description = description
		s.tasks[i].Title = fields.Title
		s.tasks[i].Label = fields.Label
		s.tasks[i].DueDate = fields.DueDate
		s.tasks[i].UpdatedAt = now

		t := s.tasks[i]
		return &t, nil
	}
	return nil, ErrTaskNotFound
}

// Delete removes the task with the given id and reports whether it was
// present.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Labels returns the distinct labels currently present, sorted.
func (s *Store) Labels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	for _, task := range s.tasks {
		seen[task.Label] = struct{}{}
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Summarize builds a templated report over tasks created within
// [start, end]. The wording is fixed so the output is recognizably not
// an AI summary.
func (s *Store) Summarize(start, end time.Time) *models.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	total := 0
	for _, task := range s.tasks {
		if task.CreatedAt.Before(start) || task.CreatedAt.After(end) {
			continue
		}
		counts[task.Label]++
		total++
	}

	return &models.Summary{
		Summary:   summaryText(counts, total),
		StartDate: start,
		EndDate:   end,
		TaskCount: total,
	}
}

func summaryText(counts map[string]int, total int) string {
	var b strings.Builder
	b.WriteString("[Demo Mode] Task summary for the selected period.\n\n")
	fmt.Fprintf(&b, "You created %d task(s).\n", total)

	if total > 0 {
		labels := make([]string, 0, len(counts))
		for label := range counts {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		b.WriteString("\nBy category:\n")
		for _, label := range labels {
			fmt.Fprintf(&b, "- %s: %d\n", label, counts[label])
		}
	}

	b.WriteString("\nTip: break large tasks into smaller ones and give each a due date. " +
		"Reconnect to the backend for an AI-generated summary.")
	return b.String()
}
