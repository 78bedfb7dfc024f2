// Package view derives the presentation ordering of a task collection.
package view

import (
	"sort"
	"strings"

	"github.com/taskdeck/taskdeck/internal/model"
)

// Status selects which completion states pass the filter.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// IsValid checks if the status is one of the known filters.
func (s Status) IsValid() bool {
	return s == StatusAll || s == StatusActive || s == StatusCompleted
}

// Project returns the filtered, sorted projection of tasks. It is a pure
// function: the input slice is not modified.
//
// A task passes the search filter when its title or description contains
// searchTerm case-insensitively. Status then narrows by completion state.
// The result is ordered incomplete-first, then by priority high<medium<low,
// then newest-first by creation time. The sort is stable, so tasks with
// equal keys keep their stored order run-to-run.
func Project(tasks []model.Task, searchTerm string, status Status) []model.Task {
	term := strings.ToLower(searchTerm)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchesSearch(t, term) {
			continue
		}
		switch status {
		case StatusActive:
			if t.Completed {
				continue
			}
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return out
}

func matchesSearch(t model.Task, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Description), term)
}
