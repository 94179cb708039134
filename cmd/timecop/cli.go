package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harlangreen/timecop/internal/app"
	"github.com/harlangreen/timecop/internal/config"
	"github.com/harlangreen/timecop/internal/forge"
	"github.com/harlangreen/timecop/internal/gitengine"
	"github.com/harlangreen/timecop/internal/watch"
)

// exitError carries the process exit code a failure should produce,
// per §6: 0 clean quit, 1 fatal startup error, 2 argument error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCodeFor(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "timecop [PATH]",
		Short:         "Terminal code-review workstation for a branch and its pull request",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 1 {
				return &exitError{code: 2, err: fmt.Errorf("accepts at most one PATH argument, got %d", len(args))}
			}
			return nil
		},
		RunE: func(_ *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runTimecop(path)
		},
	}
	return root
}

func runTimecop(path string) error {
	if path != "." {
		if err := os.Chdir(path); err != nil {
			return &exitError{code: 1, err: fmt.Errorf("cannot change to %s: %w", path, err)}
		}
	}

	env := config.Load()
	closeLog := setupLogging(env)
	defer closeLog()

	engine, err := gitengine.Open(".")
	if err != nil {
		return &exitError{code: 1, err: err}
	}

	forgeAdapter := forge.New(engine.Root())

	watcher, err := watch.New(engine.Root())
	if err != nil {
		return &exitError{code: 1, err: err}
	}
	defer watcher.Close()

	a := app.New(engine, forgeAdapter, watcher, env)
	program := tea.NewProgram(a, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return &exitError{code: 1, err: fmt.Errorf("terminal error: %w", err)}
	}
	return nil
}

// setupLogging directs the standard logger at env.LogPath
// ($TMPDIR/timecop.log) unless TIMECOP_LOG is "off", in which case it
// discards it. The returned func
// closes the file handle on shutdown.
func setupLogging(env config.Env) func() {
	if env.LogLevel == config.LogOff {
		log.SetOutput(io.Discard)
		return func() {}
	}
	f, err := os.OpenFile(env.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	log.SetOutput(f)
	log.SetFlags(log.Ldate | log.Ltime)
	log.Printf("timecop starting, log level %s", env.LogLevel)
	return func() { f.Close() }
}
