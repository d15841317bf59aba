package diag

import (
	"fmt"
	"strings"

	"astdump/internal/source"
)

// FormatShort renders each diagnostic on one line:
//
//	path:@0xOFFSET: SEVERITY DEC5001: message
//
// Notes follow as indented "note:" lines when includeNotes is set.
func FormatShort(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range diags {
		sb.WriteString(shortLocation(d.Primary, fs))
		fmt.Fprintf(&sb, ": %s %s: %s\n", d.Severity, d.Code.ID(), d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "  note: %s: %s\n", shortLocation(n.Span, fs), n.Msg)
		}
	}
	return sb.String()
}

func shortLocation(sp source.Span, fs *source.FileSet) string {
	if fs == nil {
		return fmt.Sprintf("@0x%04x", sp.Start)
	}
	return fs.FormatSpan(sp, "auto")
}
