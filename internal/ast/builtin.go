package ast

// Builtin enumerates primitive operations. The order is the wire order.
type Builtin uint8

const (
	BuiltinTypeOf Builtin = iota
	BuiltinRepr
	BuiltinNot
	BuiltinEq
	BuiltinNeq
	BuiltinLt
	BuiltinGt
	BuiltinLe
	BuiltinGe
	BuiltinAdd
	BuiltinSub
	BuiltinMul
	BuiltinDiv
	BuiltinLen
	BuiltinPush
	BuiltinPop
	BuiltinGet
	BuiltinSet
	BuiltinInt
	BuiltinSplit
	BuiltinTrim
	BuiltinJoin
	BuiltinOpen
	BuiltinRead
	BuiltinWrite
	BuiltinClose

	// BuiltinCount is the number of defined builtins; every tag at or past it
	// is invalid. The list above has 26 entries, TYPE_OF through CLOSE, so
	// CLOSE is tag 25 and 26 is the first invalid tag. Descriptions of the
	// format that count 25 operations miscount this list. PRINT, which older
	// printers named, has no tag.
	BuiltinCount
)

var builtinNames = [BuiltinCount]string{
	BuiltinTypeOf: "TYPE_OF",
	BuiltinRepr:   "REPR",
	BuiltinNot:    "NOT",
	BuiltinEq:     "EQ",
	BuiltinNeq:    "NEQ",
	BuiltinLt:     "LT",
	BuiltinGt:     "GT",
	BuiltinLe:     "LE",
	BuiltinGe:     "GE",
	BuiltinAdd:    "ADD",
	BuiltinSub:    "SUB",
	BuiltinMul:    "MUL",
	BuiltinDiv:    "DIV",
	BuiltinLen:    "LEN",
	BuiltinPush:   "PUSH",
	BuiltinPop:    "POP",
	BuiltinGet:    "GET",
	BuiltinSet:    "SET",
	BuiltinInt:    "INT",
	BuiltinSplit:  "SPLIT",
	BuiltinTrim:   "TRIM",
	BuiltinJoin:   "JOIN",
	BuiltinOpen:   "OPEN",
	BuiltinRead:   "READ",
	BuiltinWrite:  "WRITE",
	BuiltinClose:  "CLOSE",
}

// Valid reports whether b names a defined operation.
func (b Builtin) Valid() bool {
	return b < BuiltinCount
}

// String returns the bare operation name, e.g. "TYPE_OF".
func (b Builtin) String() string {
	if !b.Valid() {
		return "Unknown"
	}
	return builtinNames[b]
}

// LookupBuiltin maps an operation name back to its Builtin.
func LookupBuiltin(name string) (Builtin, bool) {
	for i, n := range builtinNames {
		if n == name {
			return Builtin(i), true
		}
	}
	return 0, false
}
