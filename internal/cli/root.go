// Package cli implements the brain command-line interface: directory and
// config resolution, the HTTP server, and commands over the tracking core.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/secondbrain/internal/config"
	"github.com/mesh-intelligence/secondbrain/internal/paths"
	"github.com/mesh-intelligence/secondbrain/internal/sqlite"
	"github.com/mesh-intelligence/secondbrain/internal/tracking"
	"github.com/mesh-intelligence/secondbrain/pkg/brain"
	"github.com/mesh-intelligence/secondbrain/pkg/types"
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
	dataDir   string
	jsonMode  bool
}

// app is the state shared by one invocation's commands.
type app struct {
	flags     rootFlags
	configDir string
	cfg       *config.Config
	backend   *sqlite.Backend
	svc       *tracking.Service
}

// newRootCmd creates the top-level "brain" command with global flags and
// all subcommands registered.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "brain",
		Short:   "Track time across todos and calendar events",
		Long:    "brain keeps per-context tracked time consistent as todos are completed,\nscheduled on the calendar, re-timed and deleted.",
		Version: brain.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          exactArgs(0),
		RunE:          showHelp,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return userError(err)
	})

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newContextCmd(a))
	root.AddCommand(newTodoCmd(a))
	root.AddCommand(newEventCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newImportCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(&app{}, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code. The
// backend, if a command attached one, is detached before returning.
func run(a *app, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if cerr := a.close(); err == nil && cerr != nil {
		err = fmt.Errorf("detach backend: %w", cerr)
	}
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "error:", err)
	return exitCode(err)
}

// exitError carries the exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }

// exitCode classifies err: bad input and missing records are user errors,
// everything else is a system error.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	switch {
	case errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrConflict):
		return exitUserError
	default:
		return exitSysError
	}
}

// exactArgs is cobra.ExactArgs reporting its failure as a user error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return userError(err)
		}
		return nil
	}
}

func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(lo, hi)(cmd, args); err != nil {
			return userError(err)
		}
		return nil
	}
}

// showHelp is the RunE of commands that only group subcommands. It only
// prints help; an unknown subcommand is rejected earlier by the group's
// exactArgs(0).
func showHelp(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// loadConfig resolves the config directory and reads config.yaml.
func (a *app) loadConfig() (*config.Config, string, error) {
	if a.cfg != nil {
		return a.cfg, a.configDir, nil
	}
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return nil, "", fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, "", err
	}
	a.cfg, a.configDir = cfg, dir
	return cfg, dir, nil
}

// resolveDataDir follows flag > config.yaml > BRAIN_DATA_DIR > platform default.
func (a *app) resolveDataDir() (string, error) {
	cfg, _, err := a.loadConfig()
	if err != nil {
		return "", err
	}
	dir, err := paths.ResolveDataDir(a.flags.dataDir, cfg.DataDir)
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return dir, nil
}

// attach opens the configured backend once per run. run detaches it through
// close after the command returns.
func (a *app) attach() (*sqlite.Backend, error) {
	if a.backend != nil {
		return a.backend, nil
	}
	cfg, _, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return nil, err
	}
	store := cfg.Store(dataDir)
	if err := store.Validate(); err != nil {
		return nil, userError(fmt.Errorf("config backend %q: %w", store.Backend, err))
	}
	b := sqlite.NewBackend()
	if err := b.Attach(store); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}
	a.backend = b
	return b, nil
}

// service returns the tracking service over the attached backend. Warnings
// about ignored input go to stderr.
func (a *app) service(cmd *cobra.Command) (*tracking.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	b, err := a.attach()
	if err != nil {
		return nil, err
	}
	logger := log.New(cmd.ErrOrStderr(), a.cfg.Log.Prefix, 0)
	a.svc = tracking.NewService(b, tracking.WithLogger(logger))
	return a.svc, nil
}

func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Detach()
	a.backend = nil
	a.svc = nil
	return err
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// emit writes v as JSON in --json mode and calls human otherwise.
func (a *app) emit(cmd *cobra.Command, v any, human func(w io.Writer)) error {
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), v)
	}
	human(cmd.OutOrStdout())
	return nil
}
