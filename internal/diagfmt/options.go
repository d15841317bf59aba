package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// ParsePathMode maps a flag value to a PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	default:
		return PathModeAuto, false
	}
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
	// Context is the number of bytes shown on each side of the primary
	// offset in the hex preview; 0 disables the preview.
	Context int
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	Max          int // truncates the output, not the Bag
	IncludeNotes bool
}

// TextMode selects how Text payloads are shown in the tree.
type TextMode uint8

const (
	// TextVerbatim writes the bytes as they are. Invalid UTF-8 sequences are
	// replaced with U+FFFD so the output stays valid UTF-8.
	TextVerbatim TextMode = iota
	// TextEscape keeps printable UTF-8 and writes everything else as \xNN;
	// quotes and backslashes get a backslash.
	TextEscape
	// TextRaw writes the bytes verbatim up to the first NUL.
	TextRaw
	// TextLatin1 transcodes the bytes from ISO-8859-1.
	TextLatin1
)

func (m TextMode) String() string {
	switch m {
	case TextRaw:
		return "raw"
	case TextLatin1:
		return "latin1"
	case TextEscape:
		return "escape"
	default:
		return "verbatim"
	}
}

// ParseTextMode maps a flag value to a TextMode.
func ParseTextMode(s string) (TextMode, bool) {
	switch s {
	case "", "verbatim":
		return TextVerbatim, true
	case "escape":
		return TextEscape, true
	case "raw":
		return TextRaw, true
	case "latin1":
		return TextLatin1, true
	default:
		return TextVerbatim, false
	}
}

// TreeOpts configures the AST tree rendering.
type TreeOpts struct {
	Text TextMode
}
