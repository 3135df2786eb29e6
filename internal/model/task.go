package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Priority represents task priority level
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority maps free text onto a priority. Anything unrecognised is medium.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow
	case "high", "hi", "h", "urgent":
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// Task represents a todo item
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"` // User ID
	TeamID      string     `json:"team_id,omitempty"`
}

// NewID returns a fresh entity identifier
func NewID() string {
	return uuid.New().String()
}

// IsDone returns true if the task is completed
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// IsOverdue returns true if the task is past its deadline
func (t *Task) IsOverdue() bool {
	if t.Deadline == nil || t.IsDone() {
		return false
	}
	return time.Now().After(*t.Deadline)
}

// PriorityWeight returns a numeric weight for sorting by priority
func (t *Task) PriorityWeight() int {
	switch t.Priority {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// Clone returns a copy that shares no slices or pointers with t
func (t Task) Clone() Task {
	if t.Deadline != nil {
		d := *t.Deadline
		t.Deadline = &d
	}
	if t.Tags != nil {
		t.Tags = append([]string(nil), t.Tags...)
	}
	return t
}

// CloneTasks deep-copies a task slice
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
