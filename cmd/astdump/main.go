package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"astdump/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "astdump [flags] <file>",
	Short: "Decode a binary AST file and print it as a tree",
	Long: `astdump reads a serialized program in the compact binary AST format and
prints it as an indented tree or as JSON. Running astdump with a single file
is the same as "astdump dump <file>".`,
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: startProfiling,
	RunE:              runDump,
	SilenceErrors:     true,
}

// errExit signals a failure whose details were already printed as
// diagnostics; main exits with status 1 without printing it again.
var errExit = errors.New("exit status 1")

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	// global flags
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress warnings and non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", defaultMaxDiagnostics, "maximum number of diagnostics per file")
	rootCmd.PersistentFlags().String("config", "", "path to astdump.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to file")

	addDumpFlags(rootCmd)

	err := rootCmd.Execute()
	if stopErr := stopProfiling(); stopErr != nil && err == nil {
		err = stopErr
	}
	if err != nil {
		if !errors.Is(err, errExit) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
