// cmd/aibclub/main.go
//
// Entry point for the aibclub CLI. Without a subcommand it opens the terminal
// site: a countdown until launch, the reveal, then the club pages.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/aib-club/internal/clock"
	"github.com/kingrea/aib-club/internal/config"
	"github.com/kingrea/aib-club/internal/contact"
	"github.com/kingrea/aib-club/internal/logbook"
	"github.com/kingrea/aib-club/internal/logging"
	"github.com/kingrea/aib-club/internal/planner"
	"github.com/kingrea/aib-club/internal/tui"
)

var (
	// Global flags
	projectDir string
	launchAt   string
	verbose    bool
	timeout    time.Duration

	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "aibclub",
	Short: "AI in Business Club site, in your terminal",
	Long: `aibclub shows a countdown until the club site launches, plays the reveal,
then opens the site: home, AI tools with a project planner, and contact.

Secrets are read from the environment:
  AIBCLUB_GEMINI_API_KEY       plan generation
  AIBCLUB_EMAILJS_PUBLIC_KEY   contact form delivery
  AIBCLUB_EMAILJS_SERVICE_ID
  AIBCLUB_EMAILJS_TEMPLATE_ID`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		var err error
		if cmd == cmd.Root() {
			// The TUI owns the terminal, so logs go to a file.
			logger, err = logging.New(cfg.LogPath(), verbose)
		} else {
			logger, err = logging.NewConsole(verbose)
		}
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	RunE: runSite,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "d", "", "Directory holding .aibclub state (default: current)")
	rootCmd.PersistentFlags().StringVar(&launchAt, "launch-at", "", "Launch moment as RFC3339, overrides config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Timeout for headless requests")

	rootCmd.AddCommand(countdownCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(contactCmd)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the command tree and flushes the logger whether or not the
// command failed. cobra skips post-run hooks after an error.
func run() error {
	defer closeLogger()
	return rootCmd.Execute()
}

func closeLogger() {
	if logger == nil {
		return
	}
	_ = logger.Close()
	logger = nil
}

func loadConfig() error {
	dir := projectDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("error getting working directory: %w", err)
		}
		dir = cwd
	}
	if err := config.InitStateDir(dir); err != nil {
		return err
	}
	loaded, err := config.NewConfig(dir)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// runSite opens the terminal site.
func runSite(cmd *cobra.Command, args []string) error {
	launch, err := cfg.LaunchTime(launchAt)
	if err != nil {
		return err
	}
	clk := clock.Real()
	book, err := logbook.New(cfg.JournalPath(), logbook.WithClock(clk.Now))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app := tui.NewApp(launch,
		tui.WithClock(clk),
		tui.WithLogger(logger.Logger),
		tui.WithLogbook(book),
		tui.WithGenerator(newGenerator(ctx)),
		tui.WithSubmitter(newSubmitter()),
		tui.WithAccountURL(cfg.AccountURL()),
		tui.WithMarkdownStyle(markdownStyle()),
	)
	defer app.Close()

	logger.Info("starting site", zap.Time("launch_at", launch), zap.String("dir", cfg.ProjectDir))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// markdownStyle picks the plan style before the TUI takes over the terminal,
// since detecting the background afterwards would race the input reader.
func markdownStyle() string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return styles.NoTTYStyle
	}
	if lipgloss.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

// newGenerator returns a generator backed by Gemini, or an unconfigured one
// when no key is set so the page can explain what is missing.
func newGenerator(ctx context.Context) *planner.Generator {
	backend, err := planner.NewGemini(ctx, cfg.Secrets.GeminiAPIKey, cfg.PlannerModel())
	if err != nil {
		logger.Warn("plan generation unavailable", zap.Error(err))
		return planner.New(nil, planner.WithLogger(logger.Named("planner")))
	}
	return planner.New(backend, planner.WithLogger(logger.Named("planner")))
}

func newSubmitter() *contact.Submitter {
	creds := contact.Credentials{
		PublicKey:  cfg.Secrets.EmailJSPublicKey,
		ServiceID:  cfg.Secrets.EmailJSServiceID,
		TemplateID: cfg.Secrets.EmailJSTemplateID,
	}
	return contact.NewSubmitter(creds,
		contact.WithBaseURL(cfg.ContactBaseURL()),
		contact.WithLogger(logger.Named("contact")),
	)
}

// headlessContext bounds a subcommand by --timeout and cancels it on SIGINT
// or SIGTERM.
func headlessContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stop()
		cancel()
	}
}
