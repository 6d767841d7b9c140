// Package cli implements the crops command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crops/internal/i18n"
	"github.com/mesh-intelligence/crops/internal/paths"
	"github.com/mesh-intelligence/crops/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	cropDir   string
	lang      string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by the commands of one invocation.
type app struct {
	flags rootFlags

	cfg       types.Config
	configDir string
	cropDir   string
	p         *i18n.Printer

	now         func() time.Time
	interactive func(io.Reader) bool
	styled      func(io.Writer) bool
}

// Option customizes the root command.
type Option func(*app)

// WithClock replaces the clock used to timestamp events and compute ages.
func WithClock(now func() time.Time) Option {
	return func(a *app) { a.now = now }
}

// WithInteractive forces terminal detection of the input stream on or off.
func WithInteractive(interactive bool) Option {
	return func(a *app) { a.interactive = func(io.Reader) bool { return interactive } }
}

// NewRootCmd creates the top-level "crops" command with global flags and all
// subcommands registered.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{
		now:         time.Now,
		interactive: func(r io.Reader) bool { return isTerminal(r) },
		styled:      func(w io.Writer) bool { return isTerminal(w) },
	}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:   "crops",
		Short: "Keep a journal of your crops",
		Long: "Crops records the life of each crop in a plain text file: when it was\n" +
			"planted, its growth stages, waterings and feedings.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.cropDir, "crop-dir", "", "directory relative crop files are resolved against")
	root.PersistentFlags().StringVar(&a.flags.lang, "lang", "", "message language (default: from config or LANG)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "print debug logs")

	root.AddCommand(
		a.newInfoCmd(),
		a.newWaterCmd(),
		a.newFeedCmd(),
		a.newStageCmd(),
		a.newNewCmd(),
		a.newExportCmd(),
		a.newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	var ce *codedError
	if err != nil && !(errors.As(err, &ce) && ce.silent) {
		fmt.Fprintln(os.Stderr, "crops:", err)
	}
	os.Exit(ExitCode(err))
}

// setup loads the configuration and installs the logger and message printer
// before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	a.cfg = cfg

	level, _ := cfg.SlogLevel()
	if a.flags.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	cropDir, err := paths.ResolveCropDir(a.flags.cropDir, cfg.CropDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve crop dir: %w", err))
	}
	a.cropDir = cropDir

	lang := a.flags.lang
	if lang == "" {
		lang = cfg.Language
	}
	a.p = i18n.New(lang)

	slog.Debug("configuration loaded",
		"command", cmd.Name(),
		"config_dir", configDir,
		"crop_dir", cropDir,
		"language", a.p.Tag().String(),
	)
	return nil
}

// codedError carries the process exit code of a failed command. Silent
// errors were already reported to the user.
type codedError struct {
	code   int
	err    error
	silent bool
}

func (e *codedError) Error() string { return e.err.Error() }

func (e *codedError) Unwrap() error { return e.err }

func userError(err error) error {
	return &codedError{code: exitUserError, err: err}
}

func sysError(err error) error {
	return &codedError{code: exitSysError, err: err}
}

// ExitCode returns the exit code Execute uses for err.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitUserError
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
