package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"astdump/internal/diag"
	"astdump/internal/source"
)

type palette struct {
	err, warn, info, code, note, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		info:  color.New(color.FgCyan, color.Bold),
		code:  color.New(color.Bold),
		note:  color.New(color.FgBlue),
		caret: color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.note, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes diagnostics in human-readable form, in bag.Items() order
// (callers sort the bag first). Each diagnostic prints as
//
//	<path>:@0x<offset>: <SEV> <CODE>: <Message>
//
// followed by a hex excerpt around the offset with the byte marked, when
// Context is set, and then the notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(d.Primary, fs, opts.PathMode),
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			d.Message,
		); err != nil {
			return err
		}
		if opts.Context > 0 {
			if preview := hexPreview(d.Primary, fs, opts.Context, pal); preview != "" {
				if _, err := io.WriteString(w, preview); err != nil {
					return err
				}
			}
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  %s: %s: %s\n",
				pal.note.Sprint("note"), location(n.Span, fs, opts.PathMode), n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func location(sp source.Span, fs *source.FileSet, mode PathMode) string {
	if fs == nil {
		return fmt.Sprintf("@0x%04x", sp.Start)
	}
	return fs.FormatSpan(sp, mode.String())
}

// hexPreview renders up to radius bytes on each side of sp.Start:
//
//	   | 0x0004: 00 2a [ff] 01
//
// An offset at the end of the input is marked with "[..]".
func hexPreview(sp source.Span, fs *source.FileSet, radius int, pal palette) string {
	if fs == nil {
		return ""
	}
	f := fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return ""
	}
	at := int(sp.Start)
	if at > len(f.Content) {
		return ""
	}
	from := max(at-radius, 0)
	to := min(at+radius+1, len(f.Content))

	var sb strings.Builder
	fmt.Fprintf(&sb, "   | 0x%04x:", from)
	for i := from; i < to; i++ {
		if i == at {
			sb.WriteString(" " + pal.caret.Sprintf("[%02x]", f.Content[i]))
			continue
		}
		fmt.Fprintf(&sb, " %02x", f.Content[i])
	}
	if at == len(f.Content) {
		sb.WriteString(" " + pal.caret.Sprint("[..]"))
	}
	sb.WriteByte('\n')
	return sb.String()
}
