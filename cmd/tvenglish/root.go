package main

import (
	"context"
	"os"
	"strconv"

	"tvenglish/internal/app"
	"tvenglish/internal/ui"

	"github.com/spf13/cobra"
)

// session is what every subcommand runs against.
type session struct {
	app *app.App
	ui  *ui.Renderer
}

func (s *session) close() {
	if s.app != nil {
		s.app.Close()
		s.app = nil
	}
}

type rootFlags struct {
	dataDir   string
	logPath   string
	logLevel  string
	catalog   string
	dotenv    string
	ephemeral bool
	ascii     bool
	style     string
}

func newRootCmd() (*cobra.Command, *session) {
	var flags rootFlags
	s := &session{}
	root := &cobra.Command{
		Use:          "tvenglish",
		Short:        "Track English lessons, quizzes and study time",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			s.ui = ui.New(ui.Options{
				ASCIIOnly:    cfg.ASCIIOnly,
				StyleVariant: cfg.UI.StyleVariant,
				Columns:      terminalColumns(),
			})
			s.app, err = app.New(cmd.Context(), cfg, app.Options{
				Notifier: ui.NewToaster(cmd.ErrOrStderr(), s.ui),
			})
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.dataDir, "data-dir", "", "directory holding state.db (default ~/.local/share/tvenglish)")
	pf.StringVar(&flags.logPath, "log", "", "append JSON logs to this file")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&flags.catalog, "catalog", "", "load the catalog from this YAML file or directory")
	pf.StringVar(&flags.dotenv, "env-file", ".env", "optional dotenv file with TVENGLISH_* settings")
	pf.BoolVar(&flags.ephemeral, "ephemeral", false, "keep progress in memory only")
	pf.BoolVar(&flags.ascii, "ascii", false, "plain output without colour or symbols")
	pf.StringVar(&flags.style, "style", "", "classroom, night_study or plain")

	root.AddCommand(
		coursesCmd(s),
		topicsCmd(s),
		lessonCmd(s),
		stepCmd(s, "next", "Show the next lesson in the same topic", true),
		stepCmd(s, "prev", "Show the previous lesson in the same topic", false),
		completeCmd(s),
		quizCmd(s),
		studyCmd(s),
		progressCmd(s),
		accountCmd(s),
		profileCmd(s),
		signInCmd(s, "signup", "Create a local profile and start tracking"),
		signInCmd(s, "login", "Sign in; any credentials are accepted"),
		logoutCmd(s),
		searchCmd(s),
		repairCmd(s),
	)
	root.SetContext(context.Background())
	return root, s
}

// loadConfig layers defaults, the dotenv file, TVENGLISH_* variables and
// finally explicitly set flags.
func loadConfig(cmd *cobra.Command, f rootFlags) (app.Config, error) {
	cfg := app.DefaultConfig()
	if err := app.LoadEnv(&cfg, f.dotenv); err != nil {
		return cfg, err
	}
	changed := cmd.Flags().Changed
	if changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if changed("log") {
		cfg.LogPath = f.logPath
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("catalog") {
		cfg.CatalogPath = f.catalog
	}
	if changed("ephemeral") {
		cfg.Ephemeral = f.ephemeral
	}
	if changed("ascii") {
		cfg.ASCIIOnly = f.ascii
	}
	if changed("style") {
		cfg.UI.StyleVariant = f.style
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func terminalColumns() int {
	n, err := strconv.Atoi(os.Getenv("COLUMNS"))
	if err != nil {
		return 0
	}
	return n
}
