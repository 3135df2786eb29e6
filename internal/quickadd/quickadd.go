// Package quickadd parses one-line task descriptions such as
// "Review PR @work !high due:tomorrow".
package quickadd

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/dori/brainy/internal/model"
)

// Parse turns text into a task draft. Tokens that look like markup but do
// not parse stay in the title.
//
//	@tag                                  tag (without the @)
//	!low !medium !high                    priority
//	due:today|tomorrow|<weekday>|nextweek deadline at 23:59:59 local time
//	due:YYYY-MM-DD
func Parse(text string, now time.Time) model.Task {
	task := model.Task{Priority: model.PriorityMedium}

	var titleParts []string
	for _, word := range strings.Fields(text) {
		switch {
		case strings.HasPrefix(word, "@") && len(word) > 1:
			task.Tags = append(task.Tags, strings.ToLower(strings.TrimPrefix(word, "@")))

		case strings.HasPrefix(word, "!"):
			switch strings.ToLower(strings.TrimPrefix(word, "!")) {
			case "low", "l":
				task.Priority = model.PriorityLow
			case "medium", "med", "m":
				task.Priority = model.PriorityMedium
			case "high", "hi", "h":
				task.Priority = model.PriorityHigh
			default:
				titleParts = append(titleParts, word)
			}

		case strings.HasPrefix(strings.ToLower(word), "due:"):
			dateStr := strings.TrimPrefix(strings.ToLower(word), "due:")
			if parsed := ParseDate(dateStr, now); parsed != nil {
				task.Deadline = parsed
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	task.Title = strings.Join(titleParts, " ")
	return task
}

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

// ParseDate understands relative day names and a few absolute formats.
// It returns nil when s is not a date.
func ParseDate(s string, now time.Time) *time.Time {
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "today":
		return &endOfToday
	case "tomorrow", "tom":
		t := endOfToday.AddDate(0, 0, 1)
		return &t
	case "nextweek":
		t := endOfToday.AddDate(0, 0, 7)
		return &t
	}
	if day, ok := weekdays[s]; ok {
		// always in the future, so "friday" on a Friday is a week out
		daysUntil := int(day - now.Weekday())
		if daysUntil <= 0 {
			daysUntil += 7
		}
		t := endOfToday.AddDate(0, 0, daysUntil)
		return &t
	}

	for _, layout := range []string{"2006-01-02", "01/02/2006", "01-02-2006"} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, now.Location())
			return &t
		}
	}
	return nil
}

// FormatDue renders a deadline relative to now
func FormatDue(t, now time.Time) string {
	if sameDay(t, now) {
		return "today"
	}
	if sameDay(t, now.AddDate(0, 0, 1)) {
		return "tomorrow"
	}
	if t.Year() == now.Year() {
		return t.Format("Mon, Jan 2")
	}
	return t.Format("Jan 2, 2006")
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// ParseGoal reads "Run a marathon: buy shoes; 5k; 10k" as a goal title
// followed by semicolon-separated milestones. The milestone list is optional.
func ParseGoal(text string) model.Goal {
	title, rest, _ := strings.Cut(text, ":")
	g := model.Goal{Title: strings.TrimSpace(title)}
	for _, m := range strings.Split(rest, ";") {
		if m = strings.TrimSpace(m); m != "" {
			g.Milestones = append(g.Milestones, model.Milestone{Title: m})
		}
	}
	return g
}

// ErrNoAmount is returned by ParseIncome when no number is present
var ErrNoAmount = errors.New("no amount given")

// ParseIncome reads "Logo design 250 active #freelance". The first number is
// the amount; active, passive or expense sets the type (default active);
// #word sets the category.
func ParseIncome(text string) (model.IncomeEntry, error) {
	e := model.IncomeEntry{Type: model.IncomeActive}
	haveAmount := false
	var title []string
	for _, word := range strings.Fields(text) {
		lw := strings.ToLower(word)
		if !haveAmount {
			if n, err := strconv.ParseFloat(strings.TrimPrefix(lw, "$"), 64); err == nil && n >= 0 {
				e.Amount = n
				haveAmount = true
				continue
			}
		}
		switch t := model.IncomeType(lw); {
		case t == model.IncomeActive || t == model.IncomePassive || t == model.IncomeExpense:
			e.Type = t
		case strings.HasPrefix(lw, "#") && len(lw) > 1:
			e.Category = strings.TrimPrefix(lw, "#")
		default:
			title = append(title, word)
		}
	}
	if !haveAmount {
		return e, ErrNoAmount
	}
	e.Title = strings.Join(title, " ")
	return e, nil
}

// ParseResource reads "Designing Data-Intensive Applications book". A
// trailing or embedded book, video or course sets the type (default book).
func ParseResource(text string) model.LearningResource {
	r := model.LearningResource{Type: model.ResourceBook}
	var title []string
	for _, word := range strings.Fields(text) {
		switch t := model.ResourceType(strings.ToLower(word)); t {
		case model.ResourceBook, model.ResourceVideo, model.ResourceCourse:
			r.Type = t
		default:
			title = append(title, word)
		}
	}
	r.Title = strings.Join(title, " ")
	return r
}

// ParseHabit splits "Read 10 pages #learning weekly" into its parts. Unknown
// categories stay in the title.
func ParseHabit(text string) (string, model.Frequency, model.HabitCategory) {
	freq := model.FrequencyDaily
	category := model.HabitProductivity
	var title []string
	for _, word := range strings.Fields(text) {
		switch lw := strings.ToLower(word); {
		case lw == "daily" || lw == "weekly":
			freq = model.Frequency(lw)
		case strings.HasPrefix(lw, "#"):
			switch c := model.HabitCategory(strings.TrimPrefix(lw, "#")); c {
			case model.HabitHealth, model.HabitLearning, model.HabitProductivity, model.HabitMindfulness:
				category = c
			default:
				title = append(title, word)
			}
		default:
			title = append(title, word)
		}
	}
	return strings.Join(title, " "), freq, category
}
