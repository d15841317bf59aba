package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"astdump/internal/ast"
	"astdump/internal/testkit"
)

// newTestCommand builds a command carrying every flag resolveSettings reads
// and parses args into it.
func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("color", "auto", "")
	cmd.Flags().Bool("quiet", false, "")
	cmd.Flags().Bool("timings", false, "")
	cmd.Flags().Int("max-diagnostics", defaultMaxDiagnostics, "")
	cmd.Flags().String("config", "", "")
	addDumpFlags(cmd)
	cmd.Flags().Int("jobs", 0, "")
	cmd.Flags().String("ui", "auto", "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func sampleProgram() *ast.Program {
	return testkit.Prog(
		testkit.Binding(1, testkit.Int(42)),
		testkit.Fn(2, ast.SingleArg(3), testkit.Call(testkit.Op(ast.BuiltinLen), testkit.Ref(3))),
	)
}

// quietSettings are defaults with the progress view and colors disabled.
func quietSettings() settings {
	s := defaultSettings()
	s.ui = uiModeOff
	s.color = colorOff
	return s
}
