package diagfmt

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// renderText converts a Text payload into the string placed between the
// quotes of Lit("...").
func renderText(b []byte, mode TextMode) (string, error) {
	switch mode {
	case TextRaw:
		if i := bytes.IndexByte(b, 0); i >= 0 {
			b = b[:i]
		}
		return string(b), nil
	case TextLatin1:
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("latin1 decode: %w", err)
		}
		return string(decoded), nil
	case TextEscape:
		return escapeText(b), nil
	default:
		return strings.ToValidUTF8(string(b), string(utf8.RuneError)), nil
	}
}

// escapeText keeps printable UTF-8 as is. Invalid bytes and control
// characters become \xNN; quotes and backslashes are prefixed with a
// backslash, so the text between the quotes of Lit("...") can be read back.
func escapeText(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		switch {
		case r == utf8.RuneError && size <= 1:
			fmt.Fprintf(&sb, `\x%02x`, b[0])
		case r == '\\' || r == '"':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case !unicode.IsPrint(r):
			for _, c := range b[:size] {
				fmt.Fprintf(&sb, `\x%02x`, c)
			}
		default:
			sb.Write(b[:size])
		}
		b = b[size:]
	}
	return sb.String()
}
