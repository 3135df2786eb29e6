package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dori/brainy/internal/ai"
	"github.com/dori/brainy/internal/app"
	"github.com/dori/brainy/internal/model"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <text>",
	Short: "Empty your head and let the assistant pull out tasks",
	Long: `Save a brain dump. The assistant summarises it and extracts up to
three tasks, which are added to your task list.

Examples:
  brainy dump "taxes due, mum's birthday sat, fix bike, so tired"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDump,
}

var breakdownSave bool

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <goal>",
	Short: "Split a big goal into small steps",
	Long: `Ask the assistant for 3-5 actionable steps towards a goal. With --save
the steps are added as tasks.

Examples:
  brainy breakdown "launch a podcast"
  brainy breakdown --save "move flats"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBreakdown,
}

var coachEnergy int

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Get a coaching tip from your recent moods",
	Long: `Ask for a short coaching tip based on your last five check-ins,
your current energy and your persona.

Examples:
  brainy coach
  brainy coach --energy 3`,
	Args: cobra.NoArgs,
	RunE: runCoach,
}

var ideasCmd = &cobra.Command{
	Use:   "ideas <interests>",
	Short: "Suggest side hustles for your interests",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIdeas,
}

var reportCmd = &cobra.Command{
	Use:   "report [team]",
	Short: "Draft a weekly status report for a team",
	Long: `Draft a markdown status report. Without an argument the current team
is used.

Examples:
  brainy report
  brainy report "Platform"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

var automateCmd = &cobra.Command{
	Use:   "automate <email|study|plan> <context>",
	Short: "Generate an email, study plan or project plan",
	Long: `Generate text from a short description.

Examples:
  brainy automate email "ask Sam to move our 1:1 to Thursday"
  brainy automate study "linear algebra exam in two weeks"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAutomate,
}

func init() {
	breakdownCmd.Flags().BoolVar(&breakdownSave, "save", false, "add the steps as tasks")
	coachCmd.Flags().IntVar(&coachEnergy, "energy", 5, "current energy 1-10")

	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(breakdownCmd)
	rootCmd.AddCommand(coachCmd)
	rootCmd.AddCommand(ideasCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(automateCmd)
}

// offlineNotice warns once per command when no model is configured
func offlineNotice(w io.Writer, a *app.App) {
	if !a.Assistant.Online() {
		fmt.Fprintln(w, "(assistant offline: set BRAINY_AI_API_KEY for real answers)")
	}
}

func runDump(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("brain dump is empty")
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()
		offlineNotice(out, a)

		res := a.Assistant.AnalyzeBrainDump(ctx, text, a.Store.Preferences().CoachingStyle)
		entry := a.Store.AddBrainDump(text, res.Summary, res.Tasks)

		fmt.Fprintln(out, entry.AISummary)
		fmt.Fprintln(out)
		for _, t := range res.Tasks {
			fmt.Fprintf(out, "  + %s  %s [%s]\n", shortID(t.ID), t.Title, t.Priority)
		}
		fmt.Fprintf(out, "\nNext step: %s\n", res.NextStep)
		return nil
	})
}

func runBreakdown(cmd *cobra.Command, args []string) error {
	goal := strings.Join(args, " ")
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()
		offlineNotice(out, a)

		steps := a.Assistant.BreakDownGoal(ctx, goal)
		for i, t := range steps {
			if breakdownSave {
				t = a.Store.AddTask(t)
			}
			fmt.Fprintf(out, "%d. %s [%s]\n", i+1, t.Title, t.Priority)
		}
		if breakdownSave {
			fmt.Fprintf(out, "Added %d task(s)\n", len(steps))
		}
		return nil
	})
}

func runCoach(cmd *cobra.Command, args []string) error {
	if coachEnergy < 1 || coachEnergy > 10 {
		return fmt.Errorf("energy must be between 1 and 10")
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()
		offlineNotice(out, a)

		logs := a.Store.Snapshot().MoodLogs
		var moods []model.Mood
		for _, l := range logs[max(len(logs)-5, 0):] {
			moods = append(moods, l.Mood)
		}
		tip := a.Assistant.LifeCoaching(ctx, moods, coachEnergy, a.Store.Preferences().Persona)
		fmt.Fprintln(out, tip)
		return nil
	})
}

func runIdeas(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()
		offlineNotice(out, a)
		for _, idea := range a.Assistant.SideHustleIdeas(ctx, strings.Join(args, " ")) {
			fmt.Fprintf(out, "- %s\n", idea)
		}
		return nil
	})
}

func runReport(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()
		offlineNotice(out, a)

		team := "My Team"
		if len(args) == 1 {
			team = args[0]
		} else if t, ok := a.Store.CurrentTeam(); ok {
			team = t.Name
		}
		fmt.Fprintln(out, a.Assistant.TeamReport(ctx, team))
		return nil
	})
}

func runAutomate(cmd *cobra.Command, args []string) error {
	kind, err := ai.ParseAutomationKind(args[0])
	if err != nil {
		return err
	}
	details := strings.Join(args[1:], " ")
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()
		offlineNotice(out, a)
		fmt.Fprintln(out, a.Assistant.GenerateAutomation(ctx, kind, details))
		return nil
	})
}
