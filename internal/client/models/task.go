package models

import (
	"sort"
	"time"
)

// Task is a to-do item. Category is a nullable category id; CategoryName is
// denormalized by the server for display. SharedWith carries user ids on
// writes, SharedWithDetails carries full users on reads.
type Task struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Completed     bool       `json:"completed"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	OwnerUsername string     `json:"owner_username"`
	Category      *int       `json:"category,omitempty"`
	CategoryName  string     `json:"category_name,omitempty"`

	SharedWith        []int  `json:"shared_with,omitempty"`
	SharedWithDetails []User `json:"shared_with_details,omitempty"`
}

// ShareSet returns the ids of all users the task is currently shared with,
// merged from both share fields, deduplicated and sorted. The sharing
// endpoint treats this field as an authoritative overwrite, so callers must
// always send the full set.
func (t *Task) ShareSet() []int {
	seen := make(map[int]struct{}, len(t.SharedWith)+len(t.SharedWithDetails))
	for _, id := range t.SharedWith {
		seen[id] = struct{}{}
	}
	for _, u := range t.SharedWithDetails {
		seen[u.ID] = struct{}{}
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// IsSharedWith reports whether the task is already shared with the user.
func (t *Task) IsSharedWith(userID int) bool {
	for _, id := range t.ShareSet() {
		if id == userID {
			return true
		}
	}
	return false
}

// TaskPage is one page of a filtered task listing.
type TaskPage struct {
	Results []Task `json:"results"`
	Count   int    `json:"count"`
}

// TotalPages computes the page count for the given server page size.
// An empty collection has zero pages.
func (p *TaskPage) TotalPages(pageSize int) int {
	if p.Count <= 0 {
		return 0
	}
	return (p.Count + pageSize - 1) / pageSize
}
