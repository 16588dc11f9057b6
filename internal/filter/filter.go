// Package filter derives the visible task subset from the store's task
// list. All functions are pure projections: order preserving, no duplicates,
// always a subset of the input.
package filter

import (
	"strings"

	"taskflow/internal/model"

	"github.com/google/uuid"
)

// AllTags is the tag filter value that matches every task.
const AllTags = "all"

// VisibleTasks returns the tasks matching both the search query and the tag
// filter. A task matches the query when it is a case-insensitive substring
// of its title or description; an empty query matches everything. A task
// matches the tag filter when it is AllTags or a member of the task's tags.
func VisibleTasks(tasks []model.Task, query, tag string) []model.Task {
	query = strings.ToLower(query)

	visible := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchesQuery(t, query) {
			continue
		}
		if !matchesTag(t, tag) {
			continue
		}
		visible = append(visible, t)
	}
	return visible
}

// ByColumn narrows a task list to a single column.
func ByColumn(tasks []model.Task, columnID uuid.UUID) []model.Task {
	narrowed := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ColumnID == columnID {
			narrowed = append(narrowed, t)
		}
	}
	return narrowed
}

// CountByColumn is the per-column task count shown on column headers. It
// equals len(ByColumn(tasks, columnID)).
func CountByColumn(tasks []model.Task, columnID uuid.UUID) int {
	count := 0
	for _, t := range tasks {
		if t.ColumnID == columnID {
			count++
		}
	}
	return count
}

func matchesQuery(t model.Task, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), query) ||
		strings.Contains(strings.ToLower(t.Description), query)
}

func matchesTag(t model.Task, tag string) bool {
	if tag == AllTags || tag == "" {
		return true
	}
	for _, candidate := range t.Tags {
		if candidate == tag {
			return true
		}
	}
	return false
}
