package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"astdump/internal/testkit"
)

func TestCheckPathsReportsEachFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.bin", testkit.Encode(sampleProgram()))
	data := testkit.Encode(sampleProgram())
	bad := writeFile(t, dir, "bad.bin", data[:len(data)-2])

	var out, errOut bytes.Buffer
	err := checkPaths(context.Background(), &out, &errOut, []string{good, bad}, quietSettings())
	if !errors.Is(err, errExit) {
		t.Fatalf("expected errExit when a file fails, got %v", err)
	}
	wantLine := good + ": ok decls=2 exprs=4 depth=2\n"
	if out.String() != wantLine {
		t.Errorf("stdout = %q, want %q", out.String(), wantLine)
	}
	if !strings.Contains(errOut.String(), "bad.bin") || !strings.Contains(errOut.String(), "DEC5002") {
		t.Errorf("expected diagnostics for bad.bin, got %q", errOut.String())
	}
}

func TestCheckPathsAllGood(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.bin", testkit.Encode(sampleProgram())),
		writeFile(t, dir, "b.bin", testkit.Encode(testkit.Prog(testkit.Binding(1, testkit.Int(7))))),
	}
	s := quietSettings()
	s.jobs = 1
	s.timings = true
	s.decode.EnableTimings = true

	var out, errOut bytes.Buffer
	if err := checkPaths(context.Background(), &out, &errOut, paths, s); err != nil {
		t.Fatalf("checkPaths: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], paths[0]) || !strings.HasPrefix(lines[1], paths[1]) {
		t.Errorf("results must follow argument order: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "[2 files] timings:") || !strings.Contains(errOut.String(), "decode") {
		t.Errorf("expected aggregated timings, got %q", errOut.String())
	}
}

func TestCheckPathsJSON(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.bin", testkit.Encode(sampleProgram()))
	bad := writeFile(t, dir, "bad.bin", []byte{0x02})
	s := quietSettings()
	s.diagFormat = "json"

	var out, errOut bytes.Buffer
	if err := checkPaths(context.Background(), &out, &errOut, []string{good, bad}, s); !errors.Is(err, errExit) {
		t.Fatalf("expected errExit, got %v", err)
	}
	var entries []checkFileJSON
	if err := json.Unmarshal(out.Bytes(), &entries); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[0].OK || entries[0].Stats == nil || entries[0].Stats.Decls != 2 {
		t.Errorf("unexpected good entry: %+v", entries[0])
	}
	if entries[1].OK || entries[1].Stats != nil || entries[1].Diagnostics.Count == 0 {
		t.Errorf("unexpected bad entry: %+v", entries[1])
	}
}

func TestCheckPathsCanceled(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.bin", testkit.Encode(sampleProgram()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := checkPaths(ctx, &bytes.Buffer{}, &bytes.Buffer{}, []string{path}, quietSettings())
	if err == nil || errors.Is(err, errExit) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
}
