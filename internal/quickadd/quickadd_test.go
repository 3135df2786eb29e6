package quickadd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/brainy/internal/model"
)

// Friday
var now = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	task := Parse("Review PR @Work @home !high due:tomorrow", now)

	assert.Equal(t, "Review PR", task.Title)
	assert.Equal(t, []string{"work", "home"}, task.Tags)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	require.NotNil(t, task.Deadline)
	assert.Equal(t, time.Date(2026, 10, 17, 23, 59, 59, 0, time.UTC), *task.Deadline)
}

func TestParseKeepsUnknownMarkupInTitle(t *testing.T) {
	task := Parse("Say hi! !loud due:someday @", now)
	assert.Equal(t, "Say hi! !loud due:someday @", task.Title)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Nil(t, task.Deadline)
	assert.Empty(t, task.Tags)
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"today":      time.Date(2026, 10, 16, 23, 59, 59, 0, time.UTC),
		"tom":        time.Date(2026, 10, 17, 23, 59, 59, 0, time.UTC),
		"monday":     time.Date(2026, 10, 19, 23, 59, 59, 0, time.UTC),
		"fri":        time.Date(2026, 10, 23, 23, 59, 59, 0, time.UTC),
		"nextweek":   time.Date(2026, 10, 23, 23, 59, 59, 0, time.UTC),
		"2027-01-15": time.Date(2027, 1, 15, 23, 59, 59, 0, time.UTC),
		"02/03/2027": time.Date(2027, 2, 3, 23, 59, 59, 0, time.UTC),
	}
	for in, want := range cases {
		got := ParseDate(in, now)
		require.NotNil(t, got, in)
		assert.Equal(t, want, *got, in)
	}
	assert.Nil(t, ParseDate("someday", now))
}

func TestFormatDue(t *testing.T) {
	assert.Equal(t, "today", FormatDue(now.Add(time.Hour), now))
	assert.Equal(t, "tomorrow", FormatDue(now.AddDate(0, 0, 1), now))
	assert.Equal(t, "Mon, Oct 19", FormatDue(now.AddDate(0, 0, 3), now))
	assert.Equal(t, "Jan 15, 2027", FormatDue(time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC), now))
}

func TestParseGoal(t *testing.T) {
	g := ParseGoal("Run a marathon: buy shoes; ; run 5k;run 10k ")
	assert.Equal(t, "Run a marathon", g.Title)
	require.Len(t, g.Milestones, 3)
	assert.Equal(t, "run 10k", g.Milestones[2].Title)

	bare := ParseGoal("  Learn piano ")
	assert.Equal(t, "Learn piano", bare.Title)
	assert.Empty(t, bare.Milestones)
}

func TestParseIncome(t *testing.T) {
	e, err := ParseIncome("Logo design $250.50 #freelance")
	require.NoError(t, err)
	assert.Equal(t, "Logo design", e.Title)
	assert.Equal(t, 250.5, e.Amount)
	assert.Equal(t, model.IncomeActive, e.Type)
	assert.Equal(t, "freelance", e.Category)

	e, err = ParseIncome("Rent 900 expense 2 months")
	require.NoError(t, err)
	assert.Equal(t, model.IncomeExpense, e.Type)
	assert.Equal(t, 900.0, e.Amount)
	assert.Equal(t, "Rent 2 months", e.Title, "only the first number is the amount")

	_, err = ParseIncome("Royalties passive")
	assert.ErrorIs(t, err, ErrNoAmount)
}

func TestParseResource(t *testing.T) {
	r := ParseResource("Go concurrency course")
	assert.Equal(t, "Go concurrency", r.Title)
	assert.Equal(t, model.ResourceCourse, r.Type)

	assert.Equal(t, model.ResourceBook, ParseResource("The Pragmatic Programmer").Type)
}

func TestParseHabit(t *testing.T) {
	title, freq, cat := ParseHabit("Read 10 pages #learning weekly #nope")
	assert.Equal(t, "Read 10 pages #nope", title)
	assert.Equal(t, model.FrequencyWeekly, freq)
	assert.Equal(t, model.HabitLearning, cat)

	title, freq, cat = ParseHabit("Meditate")
	assert.Equal(t, "Meditate", title)
	assert.Equal(t, model.FrequencyDaily, freq)
	assert.Equal(t, model.HabitProductivity, cat)
}
