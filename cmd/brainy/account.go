package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dori/brainy/internal/app"
	"github.com/dori/brainy/internal/gamify"
	"github.com/dori/brainy/internal/model"
)

var loginName string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in locally",
	Long: `Record who is using brainy. Nothing is verified and nothing leaves
this machine. The display name defaults to the part of the email before @.

Examples:
  brainy login dori@example.com --name "Dori"`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var (
	prefsName    string
	prefsPersona string
	prefsStyle   string
	prefsFocus   int
	prefsTheme   string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change preferences",
	Long: `Show preferences, or change them with flags. Only the flags you pass
are changed.

Examples:
  brainy prefs
  brainy prefs --persona student --style zen
  brainy prefs --focus 50`,
	Args: cobra.NoArgs,
	RunE: runPrefs,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show level, XP and a summary of your progress",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var focusLogOnly bool

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run a focus session",
	Long: `Run a focus session of your preferred length. Interrupting with Ctrl+C
abandons the session. With --log a session you timed elsewhere is recorded
immediately.

Examples:
  brainy focus
  brainy focus --log`,
	Args: cobra.NoArgs,
	RunE: runFocus,
}

func init() {
	loginCmd.Flags().StringVar(&loginName, "name", "", "display name")

	prefsCmd.Flags().StringVar(&prefsName, "name", "", "your name")
	prefsCmd.Flags().StringVar(&prefsPersona, "persona", "", "general, student, creator, hustler or calm")
	prefsCmd.Flags().StringVar(&prefsStyle, "style", "", "coaching style: supportive, strict, analytical or zen")
	prefsCmd.Flags().IntVar(&prefsFocus, "focus", 0, "focus session length in minutes")
	prefsCmd.Flags().StringVar(&prefsTheme, "theme", "", "light, dark or system")

	focusCmd.Flags().BoolVar(&focusLogOnly, "log", false, "record a finished session without waiting")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(focusCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := strings.TrimSpace(args[0])
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%q does not look like an email address", email)
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		name := strings.TrimSpace(loginName)
		if name == "" {
			name = email[:strings.Index(email, "@")]
		}
		u := a.Auth.Login(email, name)
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", u.Name, u.Email)
		return nil
	})
}

func runLogout(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		a.Auth.Logout()
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	})
}

func runWhoami(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		u, ok := a.Auth.User()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", u.Name, u.Email)
		return nil
	})
}

func runPrefs(cmd *cobra.Command, args []string) error {
	var patch model.PreferencesPatch
	flags := cmd.Flags()
	if flags.Changed("name") {
		patch.Name = &prefsName
	}
	if flags.Changed("persona") {
		p := model.Persona(strings.ToLower(prefsPersona))
		switch p {
		case model.PersonaGeneral, model.PersonaStudent, model.PersonaCreator, model.PersonaHustler, model.PersonaCalm:
		default:
			return fmt.Errorf("unknown persona %q", prefsPersona)
		}
		patch.Persona = &p
	}
	if flags.Changed("style") {
		s := model.CoachingStyle(strings.ToLower(prefsStyle))
		switch s {
		case model.CoachSupportive, model.CoachStrict, model.CoachAnalytical, model.CoachZen:
		default:
			return fmt.Errorf("unknown coaching style %q", prefsStyle)
		}
		patch.CoachingStyle = &s
	}
	if flags.Changed("focus") {
		if prefsFocus < 1 || prefsFocus > 180 {
			return fmt.Errorf("focus length must be between 1 and 180 minutes")
		}
		patch.FocusDuration = &prefsFocus
	}
	if flags.Changed("theme") {
		t := model.Theme(strings.ToLower(prefsTheme))
		switch t {
		case model.ThemeLight, model.ThemeDark, model.ThemeSystem:
		default:
			return fmt.Errorf("unknown theme %q", prefsTheme)
		}
		patch.Theme = &t
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		prefs := a.Store.Preferences()
		if patch != (model.PreferencesPatch{}) {
			prefs = a.Store.UpdatePreferences(patch)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "name:      %s\n", prefs.Name)
		fmt.Fprintf(out, "persona:   %s\n", prefs.Persona)
		fmt.Fprintf(out, "style:     %s\n", prefs.CoachingStyle)
		fmt.Fprintf(out, "focus:     %d min\n", prefs.FocusDuration)
		fmt.Fprintf(out, "theme:     %s\n", prefs.Theme)
		return nil
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		stats := a.Store.Stats()
		sum := a.Store.Summary()
		progress := gamify.LevelProgress(stats)

		out := cmd.OutOrStdout()
		if progress.Maxed {
			fmt.Fprintf(out, "Level %d  %d XP  (max level)\n", stats.Level, stats.XP)
		} else {
			fmt.Fprintf(out, "Level %d  %d XP  (%d/%d to next)\n", stats.Level, stats.XP, progress.IntoXP, progress.SpanXP)
		}
		fmt.Fprintf(out, "Tasks:      %d done, %d pending (%d high)\n", sum.Done, sum.Pending, sum.HighPending)
		fmt.Fprintf(out, "Habits:     %d/%d today\n", sum.HabitsToday, sum.HabitsTotal)
		fmt.Fprintf(out, "Goals:      %d completed\n", sum.GoalsCompleted)
		fmt.Fprintf(out, "Focus:      %d sessions, %d minutes\n", sum.FocusStreak, stats.FocusMinutes)
		if sum.AverageEnergy > 0 {
			fmt.Fprintf(out, "Energy:     %.1f/10 average\n", sum.AverageEnergy)
		}
		fmt.Fprintf(out, "Net income: %.2f\n", sum.NetIncome)
		fmt.Fprintf(out, "Plan:       %s  referrals %d\n", stats.SubscriptionTier, stats.Referrals)
		return nil
	})
}

func runFocus(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()
		minutes := a.Store.Preferences().FocusDuration
		if minutes <= 0 {
			minutes = 25
		}

		if !focusLogOnly {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()

			fmt.Fprintf(out, "Focusing for %d minutes. Ctrl+C to abandon.\n", minutes)
			timer := time.NewTimer(time.Duration(minutes) * time.Minute)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				fmt.Fprintln(out, "Session abandoned")
				return nil
			case <-timer.C:
			}
		}

		stats := a.Store.IncrementFocusStreak()
		streak := a.Store.Snapshot().FocusStreak
		if err := a.Notifier.SendFocusComplete(minutes, streak); err != nil {
			a.Log.Debug(ctx, "focus notification failed", zap.Error(err))
		}
		fmt.Fprintf(out, "Focus session complete! +%d XP (level %d, streak %d)\n", gamify.XPFocusSession, stats.Level, streak)
		return nil
	})
}
