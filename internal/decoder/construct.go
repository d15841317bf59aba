package decoder

// Construct names the grammar production being decoded when an error occurs.
type Construct uint8

const (
	ConstructProgram Construct = iota
	ConstructDecl
	ConstructFnArgs
	ConstructExpr
	ConstructLiteral
	ConstructBuiltin
	ConstructIdent
	ConstructText
	ConstructCount
	ConstructInt
)

func (c Construct) String() string {
	switch c {
	case ConstructProgram:
		return "Program"
	case ConstructDecl:
		return "Declaration"
	case ConstructFnArgs:
		return "FunctionArgs"
	case ConstructExpr:
		return "Expression"
	case ConstructLiteral:
		return "Literal"
	case ConstructBuiltin:
		return "Builtin"
	case ConstructIdent:
		return "Identifier"
	case ConstructText:
		return "Text"
	case ConstructCount:
		return "SequenceCount"
	case ConstructInt:
		return "Int"
	default:
		return "Unknown"
	}
}
