package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/koeppern/gtd-system-sub000/internal/core"
)

type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "gtd-import",
		Short:         "Import Notion GTD exports into PostgreSQL",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(opts.envFile)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Env file to load, overriding the environment (default: .env if present)")

	for _, def := range core.All() {
		cmd.AddCommand(newEntityCmd(def))
	}
	cmd.AddCommand(newAllCmd())
	cmd.AddCommand(newServeCmd())
	return cmd
}

// loadEnv reads .env when present. An explicit file must exist and wins
// over variables already set.
func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Overload(path); err != nil {
			return withCode(exitConfig, fmt.Errorf("load env file: %w", err))
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return withCode(exitConfig, fmt.Errorf("load .env: %w", err))
	}
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		}
		os.Exit(exitCode(err))
	}
}
