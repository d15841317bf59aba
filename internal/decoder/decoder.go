// Package decoder reconstructs an AST from its binary wire encoding.
//
// The format is tag-driven and self-describing. Every multi-byte integer is
// little-endian:
//
//	Program     = Count Decl*
//	Decl        = 0x00 Ident FnArgs Expr | 0x01 Ident Expr
//	FnArgs      = 0x00 Ident | (N+1) Ident{N}        N in 0..254
//	Expr        = u8 tag (0..11) followed by the variant's fields
//	Literal     = 0x00 | 0x01 i64 | 0x02 Text
//	Builtin     = u8 in 0..ast.BuiltinCount-1
//	Text        = u16 length, raw bytes
//	Count       = u16
//	Ident       = u16
//
// Decoding is single-pass and aborts on the first error; a failed decode
// never yields a partial tree.
package decoder

import (
	"bytes"
	"io"

	"astdump/internal/ast"
)

// DefaultMaxDepth bounds expression nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 4096

// preallocation cap for counted sequences; the count itself is untrusted.
const maxPrealloc = 64

// Options tunes decoding.
type Options struct {
	// MaxDepth limits expression nesting; zero selects DefaultMaxDepth.
	MaxDepth int
	// StrictTrailing turns bytes after the program into a TrailingDataError.
	StrictTrailing bool
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Result is a successfully decoded stream.
type Result struct {
	Program *ast.Program
	// Size is the number of bytes the program occupies.
	Size int64
	// Trailing counts bytes found after the program.
	Trailing int64
}

// Decoder reads one program from a stream.
type Decoder struct {
	r     reader
	opts  Options
	depth int
}

// New returns a Decoder reading from r.
func New(r io.Reader, opts Options) *Decoder {
	return &Decoder{r: newReader(r), opts: opts}
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int64 { return d.r.off }

// Decode reads a whole program from r, then consumes the rest of the stream
// to account for trailing bytes.
func Decode(r io.Reader, opts Options) (*Result, error) {
	d := New(r, opts)
	prog, err := d.Program()
	if err != nil {
		return nil, err
	}
	size := d.r.off
	trailing, err := d.r.drain()
	if err != nil {
		return nil, err
	}
	if trailing > 0 && opts.StrictTrailing {
		return nil, &TrailingDataError{Offset: size, Count: trailing}
	}
	return &Result{Program: prog, Size: size, Trailing: trailing}, nil
}

// DecodeBytes decodes an in-memory encoding.
func DecodeBytes(data []byte, opts Options) (*Result, error) {
	return Decode(bytes.NewReader(data), opts)
}

// Program decodes the top-level declaration sequence.
func (d *Decoder) Program() (*ast.Program, error) {
	n, err := d.r.u16(ConstructCount)
	if err != nil {
		return nil, err
	}
	decls := make([]ast.Decl, 0, min(int(n), maxPrealloc))
	for range n {
		decl, err := d.decl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return &ast.Program{Decls: decls}, nil
}

func (d *Decoder) decl() (ast.Decl, error) {
	off := d.r.off
	tag, err := d.r.u8(ConstructDecl)
	if err != nil {
		return ast.Decl{}, err
	}
	decl := ast.Decl{Kind: ast.DeclKind(tag), Offset: off}
	switch decl.Kind {
	case ast.DeclFn:
		if decl.ID, err = d.ident(); err != nil {
			return ast.Decl{}, err
		}
		if decl.Args, err = d.fnArgs(); err != nil {
			return ast.Decl{}, err
		}
		if decl.Body, err = d.expr(); err != nil {
			return ast.Decl{}, err
		}
	case ast.DeclBind:
		if decl.ID, err = d.ident(); err != nil {
			return ast.Decl{}, err
		}
		if decl.Body, err = d.expr(); err != nil {
			return ast.Decl{}, err
		}
	default:
		return ast.Decl{}, &InvalidTagError{Construct: ConstructDecl, Value: tag, Offset: off}
	}
	return decl, nil
}

// fnArgs decodes the tag-as-count parameter list: tag 0 is a single
// identifier, tag T>0 is followed by T-1 identifiers without a count field.
func (d *Decoder) fnArgs() (ast.FnArgs, error) {
	tag, err := d.r.u8(ConstructFnArgs)
	if err != nil {
		return ast.FnArgs{}, err
	}
	if tag == 0 {
		id, err := d.ident()
		if err != nil {
			return ast.FnArgs{}, err
		}
		return ast.SingleArg(id), nil
	}
	ids := make([]ast.Ident, int(tag)-1)
	for i := range ids {
		if ids[i], err = d.ident(); err != nil {
			return ast.FnArgs{}, err
		}
	}
	return ast.ManyArgs(ids...), nil
}

func (d *Decoder) ident() (ast.Ident, error) {
	v, err := d.r.u16(ConstructIdent)
	return ast.Ident(v), err
}

func (d *Decoder) exprs() ([]*ast.Expr, error) {
	n, err := d.r.u16(ConstructCount)
	if err != nil {
		return nil, err
	}
	out := make([]*ast.Expr, 0, min(int(n), maxPrealloc))
	for range n {
		e, err := d.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *Decoder) expr() (*ast.Expr, error) {
	off := d.r.off
	if d.depth >= d.opts.maxDepth() {
		return nil, &DepthLimitError{Construct: ConstructExpr, Offset: off, Limit: d.opts.maxDepth()}
	}
	d.depth++
	defer func() { d.depth-- }()

	tag, err := d.r.u8(ConstructExpr)
	if err != nil {
		return nil, err
	}
	var data ast.ExprData
	switch ast.ExprKind(tag) {
	case ast.ExprFor:
		data, err = d.forExpr()
	case ast.ExprBind:
		data, err = d.bindExpr()
	case ast.ExprAssign:
		data, err = d.assignExpr()
	case ast.ExprIf:
		data, err = d.ifExpr()
	case ast.ExprCall:
		data, err = d.callExpr()
	case ast.ExprAnd:
		var ops []*ast.Expr
		ops, err = d.exprs()
		data = ast.AndData{Operands: ops}
	case ast.ExprOr:
		var ops []*ast.Expr
		ops, err = d.exprs()
		data = ast.OrData{Operands: ops}
	case ast.ExprSequence:
		var elems []*ast.Expr
		elems, err = d.exprs()
		data = ast.SequenceData{Elems: elems}
	case ast.ExprList:
		var elems []*ast.Expr
		elems, err = d.exprs()
		data = ast.ListData{Elems: elems}
	case ast.ExprLiteral:
		var lit ast.Literal
		lit, err = d.literal()
		data = ast.LiteralData{Literal: lit}
	case ast.ExprBuiltin:
		var b ast.Builtin
		b, err = d.builtin()
		data = ast.BuiltinData{Builtin: b}
	case ast.ExprIdent:
		var id ast.Ident
		id, err = d.ident()
		data = ast.IdentData{ID: id}
	default:
		return nil, &InvalidTagError{Construct: ConstructExpr, Value: tag, Offset: off}
	}
	if err != nil {
		return nil, err
	}
	return ast.NewExpr(off, data), nil
}

func (d *Decoder) forExpr() (ast.ExprData, error) {
	var data ast.ForData
	var err error
	if data.ID, err = d.ident(); err != nil {
		return nil, err
	}
	if data.Iter, err = d.expr(); err != nil {
		return nil, err
	}
	if data.Body, err = d.expr(); err != nil {
		return nil, err
	}
	return data, nil
}

func (d *Decoder) bindExpr() (ast.ExprData, error) {
	var data ast.BindData
	var err error
	if data.ID, err = d.ident(); err != nil {
		return nil, err
	}
	if data.Value, err = d.expr(); err != nil {
		return nil, err
	}
	if data.Body, err = d.expr(); err != nil {
		return nil, err
	}
	return data, nil
}

func (d *Decoder) assignExpr() (ast.ExprData, error) {
	var data ast.AssignData
	var err error
	if data.ID, err = d.ident(); err != nil {
		return nil, err
	}
	if data.Value, err = d.expr(); err != nil {
		return nil, err
	}
	return data, nil
}

func (d *Decoder) ifExpr() (ast.ExprData, error) {
	var data ast.IfData
	var err error
	if data.Cond, err = d.expr(); err != nil {
		return nil, err
	}
	if data.Then, err = d.expr(); err != nil {
		return nil, err
	}
	if data.Else, err = d.expr(); err != nil {
		return nil, err
	}
	return data, nil
}

func (d *Decoder) callExpr() (ast.ExprData, error) {
	var data ast.CallData
	var err error
	if data.Callee, err = d.expr(); err != nil {
		return nil, err
	}
	if data.Args, err = d.exprs(); err != nil {
		return nil, err
	}
	return data, nil
}

func (d *Decoder) literal() (ast.Literal, error) {
	off := d.r.off
	tag, err := d.r.u8(ConstructLiteral)
	if err != nil {
		return ast.Literal{}, err
	}
	switch ast.LiteralKind(tag) {
	case ast.LiteralNone:
		return ast.NoneLiteral(), nil
	case ast.LiteralInt:
		v, err := d.r.i64(ConstructInt)
		if err != nil {
			return ast.Literal{}, err
		}
		return ast.IntLiteral(v), nil
	case ast.LiteralText:
		b, err := d.r.bytes(ConstructText)
		if err != nil {
			return ast.Literal{}, err
		}
		return ast.TextLiteral(b), nil
	default:
		return ast.Literal{}, &InvalidTagError{Construct: ConstructLiteral, Value: tag, Offset: off}
	}
}

func (d *Decoder) builtin() (ast.Builtin, error) {
	off := d.r.off
	tag, err := d.r.u8(ConstructBuiltin)
	if err != nil {
		return 0, err
	}
	b := ast.Builtin(tag)
	if !b.Valid() {
		return 0, &InvalidTagError{Construct: ConstructBuiltin, Value: tag, Offset: off}
	}
	return b, nil
}
