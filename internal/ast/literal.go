package ast

// LiteralKind enumerates literal value kinds. Values match the wire tags.
type LiteralKind uint8

const (
	// LiteralNone is the unit literal without payload.
	LiteralNone LiteralKind = iota
	// LiteralInt carries a signed 64-bit value.
	LiteralInt
	// LiteralText carries a byte string.
	LiteralText
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralNone:
		return "None"
	case LiteralInt:
		return "Int"
	case LiteralText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is one of the defined literal kinds.
func (k LiteralKind) Valid() bool {
	return k <= LiteralText
}

// Literal holds a literal value. Only the payload selected by Kind is set.
type Literal struct {
	Kind LiteralKind
	Int  int64
	Text Text
}

// NoneLiteral returns the payload-free literal.
func NoneLiteral() Literal { return Literal{Kind: LiteralNone} }

// IntLiteral returns an integer literal.
func IntLiteral(v int64) Literal { return Literal{Kind: LiteralInt, Int: v} }

// TextLiteral returns a text literal.
func TextLiteral(t Text) Literal { return Literal{Kind: LiteralText, Text: t} }

// AsInt returns the integer payload if the literal is an Int.
func (l Literal) AsInt() (int64, bool) {
	if l.Kind != LiteralInt {
		return 0, false
	}
	return l.Int, true
}

// AsText returns the text payload if the literal is a Text.
func (l Literal) AsText() (Text, bool) {
	if l.Kind != LiteralText {
		return nil, false
	}
	return l.Text, true
}
