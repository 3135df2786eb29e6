package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dori/brainy/internal/app"
	"github.com/dori/brainy/internal/gamify"
	"github.com/dori/brainy/internal/model"
	"github.com/dori/brainy/internal/quickadd"
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "List and track habits",
	Long: `List habits with their streaks, or manage them with a subcommand.

Examples:
  brainy habit
  brainy habit add "Stretch #health daily"
  brainy habit check 1a2b3c4d`,
	Args: cobra.NoArgs,
	RunE: runHabitList,
}

var habitAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a habit (#category, daily or weekly)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHabitAdd,
}

var habitCheckCmd = &cobra.Command{
	Use:   "check <id>",
	Short: "Toggle today's completion for a habit",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitCheck,
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "List and track goals",
	Long: `List goals with their milestones, or manage them with a subcommand.

Examples:
  brainy goal
  brainy goal add "Run a marathon: pick a race; buy shoes; 10k"
  brainy goal check 1a2b3c4d 2`,
	Args: cobra.NoArgs,
	RunE: runGoalList,
}

var goalAddCmd = &cobra.Command{
	Use:   "add <title[: milestone; milestone]>",
	Short: "Add a goal with optional milestones",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGoalAdd,
}

var goalCheckCmd = &cobra.Command{
	Use:   "check <goal-id> <milestone-number>",
	Short: "Toggle a milestone (numbered from 1)",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalCheck,
}

var (
	moodNote   string
	moodEnergy int
	moodSleep  float64
)

var moodCmd = &cobra.Command{
	Use:   "mood <great|good|neutral|stressed|bad>",
	Short: "Log a mood check-in",
	Long: `Log how you feel. Energy (1-10) and hours of sleep are optional.

Examples:
  brainy mood good
  brainy mood stressed --note "deadline" --energy 3 --sleep 5.5`,
	Args: cobra.ExactArgs(1),
	RunE: runMood,
}

func init() {
	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitCheckCmd)
	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalCheckCmd)

	moodCmd.Flags().StringVar(&moodNote, "note", "", "free text note")
	moodCmd.Flags().IntVar(&moodEnergy, "energy", 0, "energy level 1-10")
	moodCmd.Flags().Float64Var(&moodSleep, "sleep", 0, "hours slept")

	rootCmd.AddCommand(habitCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(moodCmd)
}

func runHabitList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		today := a.Store.Today()
		habits := a.Store.Snapshot().Habits
		if len(habits) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No habits yet. Add one with: brainy habit add <text>")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTODAY\tSTREAK\tFREQ\tCATEGORY\tTITLE")
		for _, h := range habits {
			mark := " "
			if h.IsCompletedOn(today) {
				mark = "x"
			}
			fmt.Fprintf(w, "%s\t[%s]\t%d\t%s\t%s\t%s\n", shortID(h.ID), mark, h.Streak, h.Frequency, h.Category, h.Title)
		}
		return w.Flush()
	})
}

func runHabitAdd(cmd *cobra.Command, args []string) error {
	title, freq, category := quickadd.ParseHabit(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("habit title is empty")
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		h := a.Store.AddHabit(title, freq, category)
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s  (%s, %s)\n", shortID(h.ID), h.Title, h.Frequency, h.Category)
		return nil
	})
}

func runHabitCheck(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		h, err := matchID(a.Store.Snapshot().Habits, func(h model.Habit) string { return h.ID }, args[0], "habit")
		if err != nil {
			return err
		}
		today := a.Store.Today()
		updated, ok := a.Store.ToggleHabitCompletion(h.ID, today)
		if !ok {
			return fmt.Errorf("habit %s not found", args[0])
		}
		if updated.IsCompletedOn(today) {
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %q for %s (+%d XP, streak %d)\n", updated.Title, today, gamify.XPHabitMarked, updated.Streak)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Unmarked %q for %s (streak %d)\n", updated.Title, today, updated.Streak)
		}
		return nil
	})
}

func runGoalList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()
		goals := a.Store.Snapshot().Goals
		if len(goals) == 0 {
			fmt.Fprintln(out, "No goals yet. Add one with: brainy goal add <text>")
			return nil
		}
		for _, g := range goals {
			fmt.Fprintf(out, "%s  %s  %d%%\n", shortID(g.ID), g.Title, g.Progress)
			for i, m := range g.Milestones {
				mark := " "
				if m.Completed {
					mark = "x"
				}
				fmt.Fprintf(out, "    %d. [%s] %s\n", i+1, mark, m.Title)
			}
		}
		return nil
	})
}

func runGoalAdd(cmd *cobra.Command, args []string) error {
	goal := quickadd.ParseGoal(strings.Join(args, " "))
	if goal.Title == "" {
		return fmt.Errorf("goal title is empty")
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		g := a.Store.AddGoal(goal)
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s  (%d milestones)\n", shortID(g.ID), g.Title, len(g.Milestones))
		return nil
	})
}

func runGoalCheck(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return fmt.Errorf("milestone must be a number from 1, got %q", args[1])
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		g, err := matchID(a.Store.Snapshot().Goals, func(g model.Goal) string { return g.ID }, args[0], "goal")
		if err != nil {
			return err
		}
		if n > len(g.Milestones) {
			return fmt.Errorf("goal %q has %d milestones", g.Title, len(g.Milestones))
		}
		m := g.Milestones[n-1]
		updated, ok := a.Store.ToggleGoalMilestone(g.ID, m.ID)
		if !ok {
			return fmt.Errorf("goal %s not found", args[0])
		}
		msg := fmt.Sprintf("%s: %q is now ", updated.Title, m.Title)
		if updated.Milestones[n-1].Completed {
			msg += fmt.Sprintf("done (+%d XP)", gamify.XPMilestoneCompleted)
		} else {
			msg += "open"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s. Progress %d%%\n", msg, updated.Progress)
		return nil
	})
}

func runMood(cmd *cobra.Command, args []string) error {
	mood, err := model.ParseMood(args[0])
	if err != nil {
		return err
	}

	var energy *int
	if cmd.Flags().Changed("energy") {
		if moodEnergy < 1 || moodEnergy > 10 {
			return fmt.Errorf("energy must be between 1 and 10")
		}
		e := moodEnergy
		energy = &e
	}
	var sleep *float64
	if cmd.Flags().Changed("sleep") {
		if moodSleep < 0 || moodSleep > 24 {
			return fmt.Errorf("sleep must be between 0 and 24 hours")
		}
		s := moodSleep
		sleep = &s
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		entry := a.Store.LogMood(mood, moodNote, energy, sleep)
		fmt.Fprintf(cmd.OutOrStdout(), "Logged %s at %s\n", entry.Mood, entry.Date.Format("15:04"))
		return nil
	})
}
