// Package cli is the routinectl command line: the routine engine over local
// catalog files, without the HTTP service.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"routine-maker/backend/config"
	"routine-maker/backend/internal/model"
	"routine-maker/backend/internal/routine"
	applogger "routine-maker/backend/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// ErrViolations is returned by validate when the routine breaks a rule.
var ErrViolations = errors.New("routine has violations")

// App holds the CLI state.
type App struct {
	root    *cobra.Command
	out     io.Writer
	logger  *zap.Logger
	verbose bool
}

// NewApp creates the CLI writing its results to out.
func NewApp(out io.Writer) *App {
	a := &App{out: out, logger: zap.NewNop()}

	a.root = &cobra.Command{
		Use:   "routinectl",
		Short: "Lay out and check a course routine from catalog files",
		Long: `routinectl renders the weekly grid of chosen sections and checks them
against the routine rules: at least two days, every meeting on a chosen day,
and no two exams at the same time.

Sections are read from a JSON array shaped like the USIS connect.json feed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !a.verbose {
				return nil
			}
			logger, err := applogger.NewLogger(&config.LogConfig{Level: "debug", Format: "console"})
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}
	a.root.SetOut(out)
	a.root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log parsing fallbacks to stderr")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.gridCmd())
	a.root.AddCommand(a.validateCmd())

	return a
}

// Execute runs the CLI with args.
func (a *App) Execute(args []string) error {
	a.root.SetArgs(args)
	return a.root.Execute()
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "routinectl %s\n", Version)
		},
	}
}

// ── input files ──

func readSections(path string) ([]model.Section, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sections: %w", err)
	}
	var sections []model.Section
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return sections, nil
}

// parseDays accepts "Sunday,Tue" as well as repeated flags.
func parseDays(values []string) (routine.DaySet, error) {
	var names []string
	for _, v := range values {
		for _, n := range strings.Split(v, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	}
	return routine.ParseDaySet(names)
}
