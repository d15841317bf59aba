package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"astdump/internal/diag"
	"astdump/internal/diagfmt"
	"astdump/internal/driver"
	"astdump/internal/source"
)

const cacheApp = "astdump"

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <file>",
	Short: "Decode a binary AST file and print it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	addDumpFlags(dumpCmd)
}

// addDecodeFlags registers the flags shared by every command that decodes.
func addDecodeFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-depth", 0, "maximum expression nesting depth (0 = default)")
	cmd.Flags().Int64("max-input-bytes", 0, "maximum input size in bytes (0 = default, <0 = unlimited)")
	cmd.Flags().Bool("strict", false, "treat bytes after the program as an error")
	cmd.Flags().String("diag-format", "pretty", "diagnostics format (pretty|json)")
	cmd.Flags().String("path-mode", "auto", "path display in diagnostics (auto|absolute|relative|basename)")
	cmd.Flags().Int("context", 0, "bytes of hex context around each diagnostic (0 = off)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes")
}

func addDumpFlags(cmd *cobra.Command) {
	addDecodeFlags(cmd)
	cmd.Flags().String("format", "tree", "output format (tree|json)")
	cmd.Flags().String("text", "verbatim", "string literal rendering (verbatim|escape|raw|latin1)")
	cmd.Flags().Bool("cache", false, "reuse renderings from the on-disk cache")
	cmd.Flags().String("cache-dir", "", "cache directory (default: user cache dir)")
	cmd.Flags().Bool("clear-cache", false, "drop every cached rendering before the lookup")
}

func runDump(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	s, err := resolveSettings(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return dumpFile(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], s)
}

// dumpFile prints the rendering of path to out and diagnostics to errOut.
// The rendering is written only when the whole file decoded.
func dumpFile(out, errOut io.Writer, path string, s settings) error {
	var cache *driver.DiskCache
	var cacheErr error
	if s.cache {
		cache, cacheErr = driver.OpenDiskCache(cacheApp, s.cacheDir)
		if cacheErr == nil && s.cacheClear {
			if cacheErr = cache.DropAll(); cacheErr != nil {
				cache = nil
			}
		}
	}

	res := driver.Dump(path, driver.DumpOptions{
		Decode: s.decode,
		Format: s.format,
		Tree:   diagfmt.TreeOpts{Text: s.text},
		Cache:  cache,
	})
	if cacheErr != nil {
		res.Bag.Add(diag.NewWarning(diag.CliCacheFailure, source.Span{}, fmt.Sprintf("cache disabled: %v", cacheErr)))
	}

	if err := printDiagnostics(errOut, res.Bag, res.FileSet, s); err != nil {
		return err
	}
	if res.Failed() {
		return errExit
	}
	if _, err := out.Write(res.Rendered); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if s.timings && res.Timer != nil {
		note := ""
		if res.Cached {
			note = "cached"
		}
		printTimings(errOut, res.Timer.Report(), note)
	}
	return nil
}
