package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koeppern/gtd-system-sub000/internal/core"
)

type importOptions struct {
	file       string
	truncate   bool
	force      bool
	dryRun     bool
	failedRows string
	jsonOutput bool
}

func addImportFlags(cmd *cobra.Command, opts *importOptions) {
	cmd.Flags().BoolVar(&opts.truncate, "truncate", true, "Delete the owner's existing rows before loading")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Truncate without asking for confirmation")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Extract and transform only; write nothing")
	cmd.Flags().StringVar(&opts.failedRows, "failed-rows", "", "Write rows that could not be imported to this CSV file")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print one JSON result per entity instead of a summary")
}

func newEntityCmd(def core.EntityDefinition) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   def.Info.Key,
		Short: fmt.Sprintf("Import %s from a Notion export", def.Info.Key),
		Long: fmt.Sprintf("Import %s from a Notion CSV export.\n\n"+
			"Without --file the newest file matching %q in IMPORT_DATA_DIR is used.",
			def.Info.Key, def.Info.FilePattern),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd, def.Info.Key, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Export file to read (default: discover in IMPORT_DATA_DIR)")
	addImportFlags(cmd, &opts)
	return cmd
}

func newAllCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Import every entity in dependency order (" + strings.Join(core.Keys(), ", ") + ")",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd, "", opts)
		},
	}

	addImportFlags(cmd, &opts)
	return cmd
}

// runImport runs one entity, or all of them when entity is empty.
func runImport(ctx context.Context, cmd *cobra.Command, entity string, opts importOptions) error {
	if opts.force && !opts.truncate {
		return withCode(exitUsage, fmt.Errorf("%w: --force has no effect with --truncate=false", core.ErrInvalidOption))
	}

	a, err := bootstrap(ctx, opts.dryRun)
	if err != nil {
		return err
	}
	defer a.Close()

	runOpts := core.DefaultRunOptions(entity)
	runOpts.FilePath = opts.file
	runOpts.TruncateExisting = opts.truncate
	runOpts.Force = opts.force
	runOpts.DryRun = opts.dryRun
	runOpts.Confirm = promptConfirm(cmd.InOrStdin(), cmd.ErrOrStderr(), isInteractive())

	var results []*core.RunResult
	if entity == "" {
		results, err = a.service.RunAll(ctx, runOpts)
	} else {
		var res *core.RunResult
		res, err = a.service.Run(ctx, runOpts)
		if res != nil {
			results = append(results, res)
		}
	}

	if reportErr := report(cmd.OutOrStdout(), results, opts); reportErr != nil {
		if err == nil {
			err = reportErr
		}
	}
	return classifyRunErr(err)
}

// report prints results and writes the failed-rows file when asked.
func report(w io.Writer, results []*core.RunResult, opts importOptions) error {
	for _, res := range results {
		if opts.jsonOutput {
			if err := writeJSONLine(w, res); err != nil {
				return err
			}
			continue
		}
		printSummary(w, res)
	}

	if opts.failedRows == "" {
		return nil
	}
	n, err := core.WriteFailedRowsFile(opts.failedRows, results...)
	if err != nil {
		return withCode(1, fmt.Errorf("write failed rows: %w", err))
	}
	if n > 0 && !opts.jsonOutput {
		fmt.Fprintf(w, "%d failed rows written to %s\n", n, opts.failedRows)
	}
	return nil
}
