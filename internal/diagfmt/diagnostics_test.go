package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"astdump/internal/diag"
	"astdump/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSetWithBase("/home/user/project")
	fileID := fs.AddVirtual("/home/user/project/data/prog.bin", []byte{0x01, 0x00, 0x01, 0x07, 0x00, 0xff, 0x02})

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.DecInvalidTag, source.At(fileID, 5), "invalid Expression tag 0xff").
		WithNote(source.At(fileID, 2), "declaration starts here"))
	bag.Add(diag.NewWarning(diag.DecTrailingData, source.Span{File: fileID, Start: 6, End: 7}, "1 trailing byte"))
	return bag, fs
}

func TestJSONBasic(t *testing.T) {
	bag, fs := sampleBag(t)

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename, IncludeNotes: true})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 2 || len(output.Diagnostics) != 2 {
		t.Fatalf("Expected 2 diagnostics, got count=%d len=%d", output.Count, len(output.Diagnostics))
	}

	first := output.Diagnostics[0]
	if first.Severity != "ERROR" {
		t.Errorf("Expected severity=ERROR, got %s", first.Severity)
	}
	if first.Code != "DEC5001" {
		t.Errorf("Expected code=DEC5001, got %s", first.Code)
	}
	if first.Location.File != "prog.bin" {
		t.Errorf("Expected basename path, got %s", first.Location.File)
	}
	if first.Location.StartOffset != 5 || first.Location.EndOffset != 5 {
		t.Errorf("Unexpected location %+v", first.Location)
	}
	if len(first.Notes) != 1 || first.Notes[0].Location.StartOffset != 2 {
		t.Errorf("Expected one note at offset 2, got %+v", first.Notes)
	}
	if output.Diagnostics[1].Severity != "WARNING" {
		t.Errorf("Expected WARNING, got %s", output.Diagnostics[1].Severity)
	}
}

func TestJSONMaxAndNotes(t *testing.T) {
	bag, fs := sampleBag(t)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("Expected count=1 with Max=1, got %d", out.Count)
	}
	if len(out.Diagnostics[0].Notes) != 0 {
		t.Errorf("Notes must be omitted unless requested")
	}
}

func TestPrettyPathModes(t *testing.T) {
	bag, fs := sampleBag(t)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/data/prog.bin:@0x0005"},
		{"Relative path", PathModeRelative, "data/prog.bin:@0x0005"},
		{"Basename only", PathModeBasename, "prog.bin:@0x0005"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode}); err != nil {
				t.Fatalf("Pretty: %v", err)
			}
			output := buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR DEC5001: invalid Expression tag 0xff") {
				t.Errorf("Expected error line, got:\n%s", output)
			}
			if strings.Contains(output, "note") {
				t.Errorf("Notes must be hidden unless ShowNotes is set")
			}
		})
	}
}

func TestPrettyPreviewAndNotes(t *testing.T) {
	bag, fs := sampleBag(t)

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 2, ShowNotes: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	want := "prog.bin:@0x0005: ERROR DEC5001: invalid Expression tag 0xff\n" +
		"   | 0x0003: 07 00 [ff] 02\n" +
		"  note: prog.bin:@0x0002: declaration starts here\n" +
		"prog.bin:@0x0006-0x0007: WARNING DEC5004: 1 trailing byte\n" +
		"   | 0x0004: 00 ff [02]\n"
	if got := buf.String(); got != want {
		t.Errorf("mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyPreviewAtEnd(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("short.bin", []byte{0x01, 0x00})
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.DecUnexpectedEOF, source.At(id, 2), "unexpected end of input"))

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Context: 4}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "   | 0x0000: 01 00 [..]\n") {
		t.Errorf("expected end-of-input marker, got:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := sampleBag(t)

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Color: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes with Color enabled, got %q", buf.String())
	}
}
