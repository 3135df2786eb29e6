package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dori/brainy/internal/app"
	"github.com/dori/brainy/internal/gamify"
	"github.com/dori/brainy/internal/model"
	"github.com/dori/brainy/internal/quickadd"
)

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a task using quick-add markup",
	Long: `Add a task. Markup inside the text sets fields:

  @tag            add a tag
  !high|!medium|!low
  due:<date>      today, tomorrow, a weekday or YYYY-MM-DD

Examples:
  brainy add "Call the bank !high due:tomorrow"
  brainy add "Read chapter 3 @school"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	tasksAll bool
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks",
	Long: `List pending tasks, or every task with --all.

Examples:
  brainy tasks
  brainy tasks --all`,
	Args: cobra.NoArgs,
	RunE: runTasks,
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task between done and todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

var remindWindow time.Duration

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send desktop reminders for tasks due soon",
	Long: `Send a desktop notification for each pending task due within the window.
Overdue tasks are always included. Meant to be run from cron or a timer.

Examples:
  brainy remind
  brainy remind --within 2h`,
	Args: cobra.NoArgs,
	RunE: runRemind,
}

func init() {
	tasksCmd.Flags().BoolVarP(&tasksAll, "all", "a", false, "include completed tasks")
	remindCmd.Flags().DurationVar(&remindWindow, "within", 24*time.Hour, "reminder window")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(remindCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		now := a.Store.Now()
		task := quickadd.Parse(strings.Join(args, " "), now)
		if task.Title == "" {
			return fmt.Errorf("task title is empty")
		}
		task = a.Store.AddTask(task)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Added %s  %s  [%s]", shortID(task.ID), task.Title, task.Priority)
		if task.Deadline != nil {
			fmt.Fprintf(out, "  due %s", quickadd.FormatDue(*task.Deadline, now))
		}
		fmt.Fprintln(out)
		return nil
	})
}

func runTasks(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		now := a.Store.Now()
		tasks := a.Store.Snapshot().Tasks

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
		shown := 0
		for _, t := range tasks {
			if t.IsDone() && !tasksAll {
				continue
			}
			due := "-"
			if t.Deadline != nil {
				due = quickadd.FormatDue(*t.Deadline, now)
			}
			title := t.Title
			if len(t.Tags) > 0 {
				title += "  @" + strings.Join(t.Tags, " @")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", shortID(t.ID), t.Status, t.Priority, due, title)
			shown++
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if shown == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to do. Add one with: brainy add <text>")
		}
		return nil
	})
}

func runDone(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		task, err := findTask(a.Store.Snapshot().Tasks, args[0])
		if err != nil {
			return err
		}
		updated, ok := a.Store.ToggleTaskStatus(task.ID)
		if !ok {
			return fmt.Errorf("task %s not found", args[0])
		}
		if updated.IsDone() {
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %q (+%d XP)\n", updated.Title, gamify.XPTaskCompleted)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened %q\n", updated.Title)
		}
		return nil
	})
}

func runRm(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		task, err := findTask(a.Store.Snapshot().Tasks, args[0])
		if err != nil {
			return err
		}
		a.Store.DeleteTask(task.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", task.Title)
		return nil
	})
}

func runRemind(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		n := a.RemindDue(remindWindow)
		fmt.Fprintf(cmd.OutOrStdout(), "Sent %d reminder(s)\n", n)
		return nil
	})
}

// shortID is the prefix shown in listings and accepted by lookups
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// findTask resolves a unique id prefix
func findTask(tasks []model.Task, prefix string) (model.Task, error) {
	return matchID(tasks, func(t model.Task) string { return t.ID }, prefix, "task")
}

// matchID finds the single item whose id equals or starts with prefix
func matchID[T any](items []T, id func(T) string, prefix, kind string) (T, error) {
	var zero T
	if strings.TrimSpace(prefix) == "" {
		return zero, fmt.Errorf("empty %s id", kind)
	}
	var matches []T
	for _, it := range items {
		if id(it) == prefix {
			return it, nil
		}
		if strings.HasPrefix(id(it), prefix) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("no %s matches %q", kind, prefix)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%q matches %d %ss, use more characters", prefix, len(matches), kind)
	}
}
