package model

// IncomeType classifies a money entry
type IncomeType string

const (
	IncomeActive  IncomeType = "active"
	IncomePassive IncomeType = "passive"
	IncomeExpense IncomeType = "expense"
)

// IncomeEntry is one line in the money hub
type IncomeEntry struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Amount   float64    `json:"amount"`
	Type     IncomeType `json:"type"`
	Date     string     `json:"date"`
	Category string     `json:"category"`
}

// Signed returns the amount with expenses negated
func (e *IncomeEntry) Signed() float64 {
	if e.Type == IncomeExpense {
		return -e.Amount
	}
	return e.Amount
}

// ResourceType is the kind of learning material
type ResourceType string

const (
	ResourceBook   ResourceType = "book"
	ResourceVideo  ResourceType = "video"
	ResourceCourse ResourceType = "course"
)

// ResourceStatus tracks progress through a resource
type ResourceStatus string

const (
	ResourceToLearn   ResourceStatus = "to-learn"
	ResourceLearning  ResourceStatus = "learning"
	ResourceCompleted ResourceStatus = "completed"
)

// Flashcard is a study card attached to a resource
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// LearningResource is a book, video or course on the learning list
type LearningResource struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Type       ResourceType   `json:"type"`
	Status     ResourceStatus `json:"status"`
	Notes      string         `json:"notes,omitempty"`
	Flashcards []Flashcard    `json:"flashcards,omitempty"`
}
