// Command menuctl drives the menu admin API from the shell: bulk imports from
// a workbook, the blank template and a translation backfill.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mahmoud22020/Pvdmenus/internal/config"
	pkgconfig "github.com/mahmoud22020/Pvdmenus/pkg/config"
	"github.com/mahmoud22020/Pvdmenus/pkg/logger"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// env holds what every subcommand needs once flags are parsed.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	var envFile string

	root := &cobra.Command{
		Use:           "menuctl",
		Short:         "Menu admin command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := pkgconfig.LoadDotEnv(envFile); err != nil {
				return withCode(exitUsage, err)
			}
			cfg, err := config.Load()
			if err != nil {
				return withCode(exitUsage, err)
			}
			e.cfg = cfg
			e.logger = logger.NewWithWriter("menuctl", cfg.LogLevel, cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(newImportCmd(e), newTemplateCmd(), newTranslateAllCmd(e))
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := newRootCmd().ExecuteContext(ctx)
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "menuctl:", err)

	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	os.Exit(exitFailure)
}
