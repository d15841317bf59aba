package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"astdump/internal/ast"
	"astdump/internal/diagfmt"
	"astdump/internal/driver"
	"astdump/internal/observ"
	"astdump/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file>...",
	Short: "Decode files in parallel and report statistics or diagnostics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	addDecodeFlags(checkCmd)
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress UI mode (auto|on|off)")
}

// checkFileJSON is one entry of `check --diag-format json`.
type checkFileJSON struct {
	Path        string                    `json:"path"`
	OK          bool                      `json:"ok"`
	Stats       *ast.Stats                `json:"stats,omitempty"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	s, err := resolveSettings(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return checkPaths(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, s)
}

func checkPaths(ctx context.Context, out, errOut io.Writer, paths []string, s settings) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := driver.CheckOptions{Decode: s.decode, Jobs: s.jobs}

	var (
		fs      *source.FileSet
		results []driver.CheckResult
		err     error
	)
	if shouldUseTUI(s.ui) && !s.quiet && s.diagFormat != "json" {
		fs, results, err = runCheckWithUI(ctx, "checking", paths, opts)
	} else {
		fs, results, err = driver.CheckFiles(ctx, paths, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if s.diagFormat == "json" {
		if err := writeCheckJSON(out, fs, results, s); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if err := printDiagnostics(errOut, r.Result.Bag, fs, s); err != nil {
				return err
			}
			if r.Result.Failed() || s.quiet {
				continue
			}
			st := r.Result.Stats
			if _, err := fmt.Fprintf(out, "%s: ok decls=%d exprs=%d depth=%d\n", r.Path, st.Decls, st.Exprs, st.MaxDepth); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}

	if s.timings {
		var total observ.Report
		for _, r := range results {
			if r.Result.Timer != nil {
				total = total.Merge(r.Result.Timer.Report())
			}
		}
		printTimings(errOut, total, fmt.Sprintf("%d files", len(results)))
	}

	if driver.AnyFailed(results) {
		return errExit
	}
	return nil
}

func writeCheckJSON(out io.Writer, fs *source.FileSet, results []driver.CheckResult, s settings) error {
	entries := make([]checkFileJSON, 0, len(results))
	for _, r := range results {
		entry := checkFileJSON{
			Path: r.Path,
			OK:   !r.Result.Failed(),
			Diagnostics: diagfmt.BuildDiagnosticsOutput(visibleDiagnostics(r.Result.Bag, s.quiet), fs, diagfmt.JSONOpts{
				PathMode:     s.pathMode,
				IncludeNotes: s.withNotes,
			}),
		}
		if entry.OK {
			stats := r.Result.Stats
			entry.Stats = &stats
		}
		entries = append(entries, entry)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
