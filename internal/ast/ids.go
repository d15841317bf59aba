package ast

// Ident names a variable or function slot. The wire format carries no name
// table, so identifiers stay opaque small integers.
type Ident uint16

// Text is a length-prefixed byte string. Len is a byte count; the content is
// not guaranteed to be valid UTF-8.
type Text []byte

// MaxFnArgs is the largest argument list a function declaration can carry:
// the FunctionArgs tag byte doubles as count+1.
const MaxFnArgs = 254
