package model

import (
	"math"
	"time"
)

// DefaultMilestoneTitle is used when a goal is created without milestones
const DefaultMilestoneTitle = "Start working on it"

// Milestone is one step towards a goal
type Milestone struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"is_completed"`
}

// Goal is a long-running objective broken into milestones
type Goal struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Progress    int         `json:"progress"` // 0-100
	Milestones  []Milestone `json:"milestones"`
	Deadline    *time.Time  `json:"deadline,omitempty"`
}

// CompletedCount returns how many milestones are done
func (g *Goal) CompletedCount() int {
	n := 0
	for _, m := range g.Milestones {
		if m.Completed {
			n++
		}
	}
	return n
}

// ComputeProgress returns round(100 * completed / total). A goal with no
// milestones has no progress.
func (g *Goal) ComputeProgress() int {
	if len(g.Milestones) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(g.CompletedCount()) / float64(len(g.Milestones))))
}

// Clone returns a copy with its own milestone slice
func (g Goal) Clone() Goal {
	g.Milestones = append([]Milestone{}, g.Milestones...)
	if g.Deadline != nil {
		d := *g.Deadline
		g.Deadline = &d
	}
	return g
}
