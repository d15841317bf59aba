package testkit

import (
	"encoding/binary"
	"fmt"

	"fortio.org/safecast"

	"astdump/internal/ast"
)

// Stream assembles wire encodings for tests. Multi-byte integers are written
// little-endian, matching the decoder. Stream never validates what it writes,
// so tests can build deliberately malformed inputs.
type Stream struct {
	buf []byte
}

// NewStream returns an empty stream.
func NewStream() *Stream { return &Stream{} }

// Bytes returns the encoded bytes.
func (s *Stream) Bytes() []byte { return s.buf }

// Len returns the number of bytes written so far.
func (s *Stream) Len() int { return len(s.buf) }

// U8 appends one raw byte.
func (s *Stream) U8(v uint8) *Stream {
	s.buf = append(s.buf, v)
	return s
}

// U16 appends a little-endian uint16.
func (s *Stream) U16(v uint16) *Stream {
	s.buf = binary.LittleEndian.AppendUint16(s.buf, v)
	return s
}

// I64 appends a little-endian int64.
func (s *Stream) I64(v int64) *Stream {
	s.buf = binary.LittleEndian.AppendUint64(s.buf, uint64(v))
	return s
}

// Raw appends bytes verbatim.
func (s *Stream) Raw(b ...byte) *Stream {
	s.buf = append(s.buf, b...)
	return s
}

// Count appends a sequence length prefix.
func (s *Stream) Count(n int) *Stream {
	return s.U16(mustU16(n))
}

// Text appends a length-prefixed byte string.
func (s *Stream) Text(t []byte) *Stream {
	s.Count(len(t))
	return s.Raw(t...)
}

// Literal appends a literal.
func (s *Stream) Literal(l ast.Literal) *Stream {
	s.U8(uint8(l.Kind))
	switch l.Kind {
	case ast.LiteralInt:
		s.I64(l.Int)
	case ast.LiteralText:
		s.Text(l.Text)
	}
	return s
}

// Expr appends an expression tree.
func (s *Stream) Expr(e *ast.Expr) *Stream {
	s.U8(uint8(e.Kind))
	switch data := e.Data.(type) {
	case ast.ForData:
		s.U16(uint16(data.ID)).Expr(data.Iter).Expr(data.Body)
	case ast.BindData:
		s.U16(uint16(data.ID)).Expr(data.Value).Expr(data.Body)
	case ast.AssignData:
		s.U16(uint16(data.ID)).Expr(data.Value)
	case ast.IfData:
		s.Expr(data.Cond).Expr(data.Then).Expr(data.Else)
	case ast.CallData:
		s.Expr(data.Callee).Exprs(data.Args)
	case ast.AndData:
		s.Exprs(data.Operands)
	case ast.OrData:
		s.Exprs(data.Operands)
	case ast.SequenceData:
		s.Exprs(data.Elems)
	case ast.ListData:
		s.Exprs(data.Elems)
	case ast.LiteralData:
		s.Literal(data.Literal)
	case ast.BuiltinData:
		s.U8(uint8(data.Builtin))
	case ast.IdentData:
		s.U16(uint16(data.ID))
	default:
		panic(fmt.Sprintf("testkit: unsupported expr payload %T", e.Data))
	}
	return s
}

// Exprs appends a counted expression sequence.
func (s *Stream) Exprs(list []*ast.Expr) *Stream {
	s.Count(len(list))
	for _, e := range list {
		s.Expr(e)
	}
	return s
}

// FnArgs appends a parameter list using the tag-as-count form.
func (s *Stream) FnArgs(a ast.FnArgs) *Stream {
	if a.Kind == ast.FnArgsSingle {
		return s.U8(0).U16(uint16(a.ID))
	}
	n := len(a.IDs)
	if n > ast.MaxFnArgs {
		panic(fmt.Sprintf("testkit: %d arguments exceed the wire limit", n))
	}
	s.U8(uint8(n + 1))
	for _, id := range a.IDs {
		s.U16(uint16(id))
	}
	return s
}

// Decl appends a declaration.
func (s *Stream) Decl(d ast.Decl) *Stream {
	s.U8(uint8(d.Kind))
	s.U16(uint16(d.ID))
	if d.Kind == ast.DeclFn {
		s.FnArgs(d.Args)
	}
	return s.Expr(d.Body)
}

// Program appends a complete program.
func (s *Stream) Program(p *ast.Program) *Stream {
	s.Count(len(p.Decls))
	for _, d := range p.Decls {
		s.Decl(d)
	}
	return s
}

// Encode returns the wire encoding of p.
func Encode(p *ast.Program) []byte {
	return NewStream().Program(p).Bytes()
}

func mustU16(n int) uint16 {
	v, err := safecast.Conv[uint16](n)
	if err != nil {
		panic(fmt.Errorf("testkit: count %d: %w", n, err))
	}
	return v
}
