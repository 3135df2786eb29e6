package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dori/brainy/internal/app"
	"github.com/dori/brainy/internal/config"
	"github.com/dori/brainy/internal/logging"
	"github.com/dori/brainy/internal/ui"
)

var version = "0.1.0"

var (
	configPath string
	dataDir    string
	startView  string
	themeName  string
)

var rootCmd = &cobra.Command{
	Use:   "brainy",
	Short: "Personal life OS for the terminal",
	Long: `brainy keeps your tasks, habits, goals, moods and brain dumps in one
place and turns progress into XP. Run without arguments to open the TUI.

Examples:
  brainy                             # open the dashboard
  brainy --view focus                # open straight into the focus timer
  brainy add "Pay rent @home !high due:friday"
  brainy dump "too many emails, need to call mum, gym?"
  brainy coach --energy 4`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "brainy %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (overrides config)")
	rootCmd.Flags().StringVar(&startView, "view", "", "screen to open first")
	rootCmd.Flags().StringVar(&themeName, "theme", "", "colour theme")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file and applies command line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" && dataDir != cfg.DataDir {
		if cfg.Log.Output == logging.NewDefaultConfig(cfg.DataDir).Output {
			cfg.Log.Output = logging.NewDefaultConfig(dataDir).Output
		}
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// withApp opens the application for the duration of fn
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg, log.Named(cmd.Name()))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if startView != "" {
			a.Config.UI.StartView = startView
		}
		if themeName != "" {
			a.Config.UI.Theme = themeName
		}

		p := tea.NewProgram(ui.NewRootModel(a), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		return nil
	})
}
