package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dori/brainy/internal/app"
	"github.com/dori/brainy/internal/model"
	"github.com/dori/brainy/internal/quickadd"
)

var incomeCmd = &cobra.Command{
	Use:   "income [text]",
	Short: "List or record money coming in and going out",
	Long: `Without arguments, list the ledger. With text, record an entry. The
first number is the amount. active, passive or expense sets the type
(default active) and #word sets the category.

Examples:
  brainy income
  brainy income "Logo design $250 #freelance"
  brainy income "Domain renewal 12 expense"`,
	RunE: runIncome,
}

var learnCmd = &cobra.Command{
	Use:   "learn [text]",
	Short: "List or add learning resources",
	Long: `Without arguments, list your learning queue. With text, add a
resource. book, video or course sets the type (default book).

Examples:
  brainy learn "Designing Data-Intensive Applications"
  brainy learn "MIT 18.06 course"`,
	RunE: runLearn,
}

var teamCmd = &cobra.Command{
	Use:   "team [name]",
	Short: "Show the current team or create one",
	RunE:  runTeam,
}

var challengeCmd = &cobra.Command{
	Use:   "challenge [id]",
	Short: "List community challenges or join one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runChallenge,
}

var integrationCmd = &cobra.Command{
	Use:   "integration [id]",
	Short: "List integrations or toggle one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIntegration,
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade <free|pro|elite|enterprise>",
	Short: "Change subscription tier",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpgrade,
}

var referCmd = &cobra.Command{
	Use:   "refer",
	Short: "Record a referral",
	Args:  cobra.NoArgs,
	RunE:  runRefer,
}

func init() {
	rootCmd.AddCommand(incomeCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(challengeCmd)
	rootCmd.AddCommand(integrationCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(referCmd)
}

func runIncome(cmd *cobra.Command, args []string) error {
	var entry model.IncomeEntry
	if len(args) > 0 {
		var err error
		entry, err = quickadd.ParseIncome(strings.Join(args, " "))
		if err != nil {
			return err
		}
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()
		if len(args) > 0 {
			e := a.Store.AddIncome(entry)
			fmt.Fprintf(out, "Recorded %s %.2f (%s)\n", e.Title, e.Signed(), e.Type)
			return nil
		}

		entries := a.Store.Snapshot().IncomeEntries
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tTYPE\tAMOUNT\tCATEGORY\tTITLE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n", e.Date, e.Type, e.Signed(), e.Category, e.Title)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Net: %.2f\n", a.Store.Summary().NetIncome)
		return nil
	})
}

func runLearn(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()
		if len(args) > 0 {
			r := quickadd.ParseResource(strings.Join(args, " "))
			if r.Title == "" {
				return fmt.Errorf("resource title is empty")
			}
			r = a.Store.AddLearningResource(r)
			fmt.Fprintf(out, "Added %s %q\n", r.Type, r.Title)
			return nil
		}
		for _, r := range a.Store.Snapshot().LearningResources {
			fmt.Fprintf(out, "[%s] %s (%s)\n", r.Status, r.Title, r.Type)
		}
		return nil
	})
}

func runTeam(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()
		if name != "" {
			t := a.Store.CreateTeam(name)
			fmt.Fprintf(out, "Created team %q\n", t.Name)
			return nil
		}
		t, ok := a.Store.CurrentTeam()
		if !ok {
			fmt.Fprintln(out, "No team yet. Create one with: brainy team <name>")
			return nil
		}
		fmt.Fprintf(out, "%s (%d members, %d projects)\n", t.Name, len(t.Members), len(t.Projects))
		for _, m := range t.Members {
			fmt.Fprintf(out, "  %s  %s\n", m.Name, m.Role)
		}
		return nil
	})
}

func runChallenge(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			c, ok := a.Store.JoinChallenge(args[0])
			if !ok {
				return fmt.Errorf("no challenge with id %q", args[0])
			}
			fmt.Fprintf(out, "Joined %q with %d others\n", c.Title, c.Participants-1)
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tJOINED\tREWARD\tPEOPLE\tTITLE")
		for _, c := range a.Store.Snapshot().Challenges {
			joined := ""
			if c.Joined {
				joined = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%d XP\t%d\t%s\n", c.ID, joined, c.RewardXP, c.Participants, c.Title)
		}
		return w.Flush()
	})
}

func runIntegration(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			in, ok := a.Store.ToggleIntegration(args[0])
			if !ok {
				return fmt.Errorf("no integration with id %q", args[0])
			}
			state := "disconnected"
			if in.Connected {
				state = "connected"
			}
			fmt.Fprintf(out, "%s %s\n", in.Name, state)
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCONNECTED\tTYPE\tNAME")
		for _, in := range a.Store.Snapshot().Integrations {
			fmt.Fprintf(w, "%s\t%t\t%s\t%s\n", in.ID, in.Connected, in.Type, in.Name)
		}
		return w.Flush()
	})
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	tier := model.SubscriptionTier(strings.ToLower(args[0]))
	switch tier {
	case model.TierFree, model.TierPro, model.TierElite, model.TierEnterprise:
	default:
		return fmt.Errorf("unknown tier %q", args[0])
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		a.Store.UpgradeSubscription(tier)
		fmt.Fprintf(cmd.OutOrStdout(), "Plan is now %s\n", tier)
		return nil
	})
}

func runRefer(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		award := a.Store.AddReferral()
		fmt.Fprintf(cmd.OutOrStdout(), "Referral recorded (+%d XP, level %d)\n", award.XP, award.LevelAfter)
		return nil
	})
}
