package main

import (
	"io"
	"os"

	"astdump/internal/diag"
	"astdump/internal/diagfmt"
	"astdump/internal/source"
)

func useColor(mode colorMode, w io.Writer) bool {
	switch mode {
	case colorOn:
		return true
	case colorOff:
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// visibleDiagnostics drops everything below errors in quiet mode.
func visibleDiagnostics(bag *diag.Bag, quiet bool) *diag.Bag {
	if !quiet {
		return bag
	}
	out := diag.NewBag(bag.Len())
	for _, d := range bag.Items() {
		if d.Severity.AtLeast(diag.SevError) {
			out.Add(d)
		}
	}
	return out
}

func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, s settings) error {
	if bag == nil {
		return nil
	}
	bag = visibleDiagnostics(bag, s.quiet)
	if bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	if s.diagFormat == "json" {
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			PathMode:     s.pathMode,
			IncludeNotes: s.withNotes,
		})
	}
	return diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:     useColor(s.color, w),
		PathMode:  s.pathMode,
		ShowNotes: s.withNotes,
		Context:   s.context,
	})
}
