package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/koeppern/gtd-system-sub000/internal/core"
	"github.com/koeppern/gtd-system-sub000/internal/web"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server that queues imports and reports their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// runServe serves until ctx is cancelled. On shutdown the running import
// gets until the shutdown timeout to finish before it is cancelled.
func runServe(ctx context.Context) error {
	a, err := bootstrap(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	queue := core.NewQueue(a.service, a.cfg.Import.QueueSize)
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	queue.Start(jobCtx)

	server := web.NewServer(queue, a.service.Cache(), a.cfg)

	slog.Info("import server starting",
		"addr", a.cfg.Server.Addr(),
		"owner", a.cfg.Owner.UserID,
		"data_dir", a.cfg.Import.DataDir,
		"entities", core.Keys(),
		"metrics", a.cfg.Metrics.Enabled,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		cancelJobs()
		queue.Wait()
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	guard := a.service.Guard()
	if active := guard.ActiveCount(); active > 0 {
		slog.Info("waiting for import to complete", "active", active)
		if err := guard.WaitForDrain(shutdownCtx); err != nil {
			slog.Warn("import did not complete in time, cancelling", "error", err)
		}
	}

	cancelJobs()
	queue.Wait()
	return <-errCh
}
