package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/brainy/internal/model"
)

// cli runs commands against one throwaway data dir
type cli struct {
	t      *testing.T
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv("BRAINY_AI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	doc := "data_dir: " + filepath.Join(dir, "data") + "\n" +
		"log:\n  output: discard\n" +
		"notify:\n  enabled: false\n"
	require.NoError(t, os.WriteFile(cfg, []byte(doc), 0o600))
	return &cli{t: t, config: cfg}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", c.config}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

// resetFlags undoes the previous run; cobra keeps flag values between
// Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

var idPattern = regexp.MustCompile(`Added ([0-9a-f]{8})`)

func addedID(t *testing.T, out string) string {
	t.Helper()
	m := idPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	return m[1]
}

func TestTaskLifecycle(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("add", "Pay rent !high @home")
	assert.Contains(t, out, "Pay rent")
	assert.Contains(t, out, "[high]")
	id := addedID(t, out)

	out = c.mustRun("tasks")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "@home")

	out = c.mustRun("done", id)
	assert.Contains(t, out, `Completed "Pay rent" (+10 XP)`)

	out = c.mustRun("tasks")
	assert.NotContains(t, out, id)
	assert.Contains(t, out, "Nothing to do")

	out = c.mustRun("tasks", "--all")
	assert.Contains(t, out, id)

	out = c.mustRun("stats")
	assert.Contains(t, out, "Level 1  10 XP")
	assert.Contains(t, out, "1 done, 0 pending")

	c.mustRun("rm", id)
	out = c.mustRun("tasks", "--all")
	assert.NotContains(t, out, id)
}

func TestCommandErrors(t *testing.T) {
	c := newCLI(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown task", []string{"done", "ffffffff"}, "no task matches"},
		{"bad mood", []string{"mood", "ecstatic"}, "unknown mood"},
		{"energy out of range", []string{"mood", "good", "--energy", "11"}, "between 1 and 10"},
		{"bad automation", []string{"automate", "tweet", "x"}, "unknown automation"},
		{"income without amount", []string{"income", "gift"}, "amount"},
		{"bad persona", []string{"prefs", "--persona", "pirate"}, "unknown persona"},
		{"bad tier", []string{"upgrade", "gold"}, "unknown tier"},
		{"bad email", []string{"login", "dori"}, "email"},
		{"milestone number", []string{"goal", "check", "abc", "zero"}, "milestone must be a number"},
		{"empty task id", []string{"rm", ""}, "empty task id"},
		{"blank habit id", []string{"habit", "check", " "}, "empty habit id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.run(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestHabitsAndGoals(t *testing.T) {
	c := newCLI(t)

	id := addedID(t, c.mustRun("habit", "add", "Stretch #health"))
	out := c.mustRun("habit", "check", id)
	assert.Contains(t, out, "+15 XP, streak 1")
	out = c.mustRun("habit")
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "health")

	gid := addedID(t, c.mustRun("goal", "add", "Run a marathon: pick a race; buy shoes"))
	out = c.mustRun("goal", "check", gid, "1")
	assert.Contains(t, out, "done (+50 XP)")
	assert.Contains(t, out, "Progress 50%")

	_, err := c.run("goal", "check", gid, "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has 2 milestones")
}

func TestOfflineAssistantCommands(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("dump", "taxes", "and", "a", "birthday")
	assert.Contains(t, out, "assistant offline")
	assert.Contains(t, out, "Review notes")

	out = c.mustRun("tasks")
	assert.Contains(t, out, "Review notes", "extracted tasks join the task list")

	out = c.mustRun("breakdown", "--save", "learn piano")
	assert.Contains(t, out, "Plan for learn piano")
	assert.Contains(t, out, "Added 1 task(s)")

	out = c.mustRun("ideas", "drawing")
	assert.Contains(t, out, "- Freelancing")

	out = c.mustRun("report")
	assert.Contains(t, out, "Weekly Status Report: My Team")

	c.mustRun("team", "Platform")
	out = c.mustRun("report")
	assert.Contains(t, out, "Weekly Status Report: Platform")

	out = c.mustRun("automate", "email", "move", "the", "meeting")
	assert.Contains(t, out, "AI Offline")

	out = c.mustRun("coach", "--energy", "3")
	assert.Contains(t, out, "Take a deep breath")
}

func TestAccountAndPreferences(t *testing.T) {
	c := newCLI(t)

	assert.Contains(t, c.mustRun("whoami"), "Not signed in")
	assert.Contains(t, c.mustRun("login", "dori@example.com"), "Signed in as dori <dori@example.com>")
	assert.Contains(t, c.mustRun("whoami"), "dori <dori@example.com>")
	c.mustRun("logout")
	assert.Contains(t, c.mustRun("whoami"), "Not signed in")

	out := c.mustRun("prefs", "--persona", "student", "--focus", "50")
	assert.Contains(t, out, "persona:   student")
	assert.Contains(t, out, "focus:     50 min")

	out = c.mustRun("prefs")
	assert.Contains(t, out, "persona:   student", "unchanged fields survive")
	assert.Contains(t, out, "style:     supportive")
}

func TestFocusRewardsAndReferrals(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("focus", "--log")
	assert.Contains(t, out, "+20 XP")
	assert.Contains(t, out, "streak 1")

	out = c.mustRun("refer")
	assert.Contains(t, out, "+200 XP, level 2")

	out = c.mustRun("mood", "good", "--energy", "7", "--sleep", "6.5")
	assert.Contains(t, out, "Logged "+string(model.MoodGood))

	out = c.mustRun("stats")
	assert.Contains(t, out, "Energy:     7.0/10 average")
	assert.Contains(t, out, "referrals 1")
}

func TestMoneyLearningAndSocial(t *testing.T) {
	c := newCLI(t)

	c.mustRun("income", "Logo design $250 #freelance")
	c.mustRun("income", "Domain 12 expense")
	out := c.mustRun("income")
	assert.Contains(t, out, "-12.00")
	assert.Contains(t, out, "Net: 238.00")

	c.mustRun("learn", "Linear algebra course")
	assert.Contains(t, c.mustRun("learn"), "[to-learn] Linear algebra (course)")

	assert.Contains(t, c.mustRun("challenge", "1"), `Joined "7-Day Focus Streak" with 1240 others`)
	assert.Contains(t, c.mustRun("integration", "2"), "Slack connected")
	assert.Contains(t, c.mustRun("upgrade", "pro"), "Plan is now pro")

	_, err := c.run("challenge", "99")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	assert.Equal(t, "brainy "+version+"\n", c.mustRun("version"))
}

func TestRemindWithNotificationsOff(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "Submit report due:today")
	assert.Contains(t, c.mustRun("remind"), "Sent 1 reminder(s)")
}

func TestMatchID(t *testing.T) {
	tasks := []model.Task{{ID: "abc123"}, {ID: "abd456"}, {ID: "ab"}}

	got, err := findTask(tasks, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.ID)

	got, err = findTask(tasks, "ab")
	require.NoError(t, err, "an exact match wins over prefixes")
	assert.Equal(t, "ab", got.ID)

	_, err = findTask(tasks[:2], "ab")
	assert.ErrorContains(t, err, "matches 2 tasks")

	_, err = findTask(tasks[:1], "")
	assert.ErrorContains(t, err, "empty task id", "an empty id never matches everything")
}

func TestRemoveWithEmptyIDKeepsTasks(t *testing.T) {
	c := newCLI(t)
	id := addedID(t, c.mustRun("add", "Only task"))

	_, err := c.run("rm", "")
	require.Error(t, err)
	assert.Contains(t, c.mustRun("tasks"), id)
}
