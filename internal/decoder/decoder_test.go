package decoder

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"astdump/internal/ast"
	"astdump/internal/testkit"
)

// richProgram touches every expression kind, both declaration kinds and both
// argument forms.
func richProgram() *ast.Program {
	body := testkit.Seq(
		testkit.Let(10, testkit.List(testkit.Int(1), testkit.Int(-2), testkit.None()),
			testkit.For(11, testkit.Ref(10),
				testkit.Assign(12, testkit.Call(testkit.Op(ast.BuiltinAdd), testkit.Ref(12), testkit.Ref(11))))),
		testkit.If(
			testkit.And(testkit.Ref(1), testkit.Or(testkit.Ref(2), testkit.Ref(3))),
			testkit.Str("yes"),
			testkit.Str(""),
		),
	)
	return testkit.Prog(
		testkit.Fn(1, ast.ManyArgs(2, 3), body),
		testkit.Fn(4, ast.SingleArg(5), testkit.Call(testkit.Op(ast.BuiltinLen), testkit.Ref(5))),
		testkit.Binding(6, testkit.Int(42)),
	)
}

func mustDecode(t *testing.T, data []byte) *Result {
	t.Helper()
	res, err := DecodeBytes(data, Options{})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return res
}

func TestDecodeRoundTripsEveryVariant(t *testing.T) {
	want := richProgram()
	data := testkit.Encode(want)
	res := mustDecode(t, data)
	if err := testkit.SameTree(res.Program, want); err != nil {
		t.Fatal(err)
	}
	if res.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", res.Size, len(data))
	}
	if res.Trailing != 0 {
		t.Errorf("Trailing = %d, want 0", res.Trailing)
	}
}

func TestDecodeScenarios(t *testing.T) {
	tests := []struct {
		name string
		prog *ast.Program
	}{
		{"binding of int literal", testkit.Prog(testkit.Binding(1, testkit.Int(42)))},
		{"function with single argument", testkit.Prog(testkit.Fn(2, ast.SingleArg(3), testkit.Ref(3)))},
		{"call without arguments", testkit.Prog(testkit.Binding(7, testkit.Call(testkit.Ref(8))))},
		{"empty program", testkit.Prog()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustDecode(t, testkit.Encode(tt.prog))
			if err := testkit.SameTree(res.Program, tt.prog); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestDecodeBindingBytes(t *testing.T) {
	// Written out by hand to pin the byte order.
	data := []byte{
		0x01, 0x00, // one declaration
		0x01,       // Binding
		0x01, 0x00, // id 1
		0x09,       // LiteralValue
		0x01,       // Int
		0x2a, 0, 0, 0, 0, 0, 0, 0,
	}
	res := mustDecode(t, data)
	decl := res.Program.Decls[0]
	if decl.Kind != ast.DeclBind || decl.ID != 1 {
		t.Fatalf("decl = %+v", decl)
	}
	lit, ok := decl.Body.Literal()
	if !ok {
		t.Fatalf("body kind = %s, want LITERAL", decl.Body.Kind)
	}
	if v, ok := lit.Literal.AsInt(); !ok || v != 42 {
		t.Fatalf("literal = %+v, want Int(42)", lit.Literal)
	}
	if decl.Body.Offset != 5 {
		t.Errorf("body offset = %d, want 5", decl.Body.Offset)
	}
}

func TestDecodeLiterals(t *testing.T) {
	tests := []struct {
		name string
		lit  ast.Literal
	}{
		{"none", ast.NoneLiteral()},
		{"zero", ast.IntLiteral(0)},
		{"negative", ast.IntLiteral(-9223372036854775808)},
		{"max", ast.IntLiteral(9223372036854775807)},
		{"empty text", ast.TextLiteral(ast.Text{})},
		{"text", ast.TextLiteral(ast.Text("hello world"))},
		{"binary text", ast.TextLiteral(ast.Text{0x00, 0xff, 0x80})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := testkit.Prog(testkit.Binding(1, testkit.Lit(tt.lit)))
			res := mustDecode(t, testkit.Encode(prog))
			got, _ := res.Program.Decls[0].Body.Literal()
			if got.Literal.Kind != tt.lit.Kind || got.Literal.Int != tt.lit.Int || !bytes.Equal(got.Literal.Text, tt.lit.Text) {
				t.Fatalf("literal = %+v, want %+v", got.Literal, tt.lit)
			}
		})
	}
}

func TestDecodeBuiltinTags(t *testing.T) {
	for tag := 0; tag <= 255; tag++ {
		data := testkit.NewStream().
			Count(1).U8(uint8(ast.DeclBind)).U16(1).
			U8(uint8(ast.ExprBuiltin)).U8(uint8(tag)).
			Bytes()
		res, err := DecodeBytes(data, Options{})
		if tag < int(ast.BuiltinCount) {
			if err != nil {
				t.Fatalf("tag %d: %v", tag, err)
			}
			b, ok := res.Program.Decls[0].Body.Builtin()
			if !ok || int(b.Builtin) != tag {
				t.Fatalf("tag %d decoded as %+v", tag, b)
			}
			continue
		}
		var tagErr *InvalidTagError
		if !errors.As(err, &tagErr) {
			t.Fatalf("tag %d: err = %v, want InvalidTagError", tag, err)
		}
		if tagErr.Construct != ConstructBuiltin || int(tagErr.Value) != tag || tagErr.Offset != 6 {
			t.Fatalf("tag %d: %+v", tag, tagErr)
		}
	}
}

func TestDecodeBuiltinBoundary(t *testing.T) {
	builtin := func(tag uint8) []byte {
		return testkit.NewStream().
			Count(1).U8(uint8(ast.DeclBind)).U16(1).
			U8(uint8(ast.ExprBuiltin)).U8(tag).
			Bytes()
	}

	res, err := DecodeBytes(builtin(25), Options{})
	if err != nil {
		t.Fatalf("tag 25: %v", err)
	}
	if b, ok := res.Program.Decls[0].Body.Builtin(); !ok || b.Builtin != ast.BuiltinClose || b.Builtin.String() != "CLOSE" {
		t.Fatalf("tag 25 decoded as %+v, want CLOSE", b)
	}

	if _, err := DecodeBytes(builtin(26), Options{}); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("tag 26: err = %v, want ErrInvalidTag", err)
	}
}

func TestDecodeSequencePreservesOrder(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 300} {
		elems := make([]*ast.Expr, n)
		for i := range elems {
			elems[i] = testkit.Int(int64(i))
		}
		prog := testkit.Prog(testkit.Binding(1, testkit.List(elems...)))
		res := mustDecode(t, testkit.Encode(prog))
		list, ok := res.Program.Decls[0].Body.List()
		if !ok {
			t.Fatalf("n=%d: body is %s", n, res.Program.Decls[0].Body.Kind)
		}
		if len(list.Elems) != n {
			t.Fatalf("n=%d: got %d elements", n, len(list.Elems))
		}
		for i, e := range list.Elems {
			lit, _ := e.Literal()
			if lit.Literal.Int != int64(i) {
				t.Fatalf("n=%d: element %d = %d", n, i, lit.Literal.Int)
			}
		}
	}
}

func TestDecodeFnArgsTagAsCount(t *testing.T) {
	for tag := 0; tag <= 255; tag++ {
		s := testkit.NewStream().Count(1).U8(uint8(ast.DeclFn)).U16(9).U8(uint8(tag))
		if tag == 0 {
			s.U16(77)
		}
		for i := 1; i < tag; i++ {
			s.U16(uint16(i))
		}
		s.U8(uint8(ast.ExprIdent)).U16(9)

		res, err := DecodeBytes(s.Bytes(), Options{})
		if err != nil {
			t.Fatalf("tag %d: %v", tag, err)
		}
		args := res.Program.Decls[0].Args
		if tag == 0 {
			if args.Kind != ast.FnArgsSingle || args.ID != 77 {
				t.Fatalf("tag 0: args = %+v", args)
			}
			continue
		}
		if args.Kind != ast.FnArgsMany || len(args.IDs) != tag-1 {
			t.Fatalf("tag %d: kind %s len %d", tag, args.Kind, len(args.IDs))
		}
		for i, id := range args.IDs {
			if int(id) != i+1 {
				t.Fatalf("tag %d: id[%d] = %d", tag, i, id)
			}
		}
	}
}

func TestDecodeFnArgsMaximum(t *testing.T) {
	ids := make([]ast.Ident, ast.MaxFnArgs)
	for i := range ids {
		ids[i] = ast.Ident(1000 + i)
	}
	prog := testkit.Prog(testkit.Fn(1, ast.ManyArgs(ids...), testkit.None()))
	data := testkit.Encode(prog)
	if data[5] != 255 {
		t.Fatalf("args tag = %d, want 255", data[5])
	}
	res := mustDecode(t, data)
	if got := len(res.Program.Decls[0].Args.IDs); got != ast.MaxFnArgs {
		t.Fatalf("len = %d, want %d", got, ast.MaxFnArgs)
	}
}

func TestDecodeTruncatedInputFails(t *testing.T) {
	data := testkit.Encode(richProgram())
	for cut := 0; cut < len(data); cut++ {
		res, err := DecodeBytes(data[:cut], Options{})
		if res != nil {
			t.Fatalf("cut %d: got a tree from truncated input", cut)
		}
		if !errors.Is(err, ErrUnexpectedEOF) {
			t.Fatalf("cut %d: err = %v, want ErrUnexpectedEOF", cut, err)
		}
		var eofErr *UnexpectedEOFError
		if !errors.As(err, &eofErr) {
			t.Fatalf("cut %d: %T", cut, err)
		}
		if eofErr.Available >= eofErr.Needed {
			t.Fatalf("cut %d: available %d >= needed %d", cut, eofErr.Available, eofErr.Needed)
		}
		if end := eofErr.Offset + int64(eofErr.Available); end != int64(cut) {
			t.Fatalf("cut %d: error ends at %d", cut, end)
		}
	}
}

func TestDecodeTruncatedText(t *testing.T) {
	data := testkit.NewStream().
		Count(1).U8(uint8(ast.DeclBind)).U16(1).
		U8(uint8(ast.ExprLiteral)).U8(uint8(ast.LiteralText)).U16(10).Raw('a', 'b', 'c').
		Bytes()
	_, err := DecodeBytes(data, Options{})
	var eofErr *UnexpectedEOFError
	if !errors.As(err, &eofErr) {
		t.Fatalf("err = %v", err)
	}
	want := UnexpectedEOFError{Construct: ConstructText, Offset: 9, Needed: 10, Available: 3}
	if *eofErr != want {
		t.Fatalf("got %+v, want %+v", *eofErr, want)
	}
}

func TestDecodeInvalidTags(t *testing.T) {
	head := func() *testkit.Stream { return testkit.NewStream().Count(1).U8(uint8(ast.DeclBind)).U16(1) }
	tests := []struct {
		name      string
		data      []byte
		construct Construct
		offset    int64
	}{
		{"declaration", testkit.NewStream().Count(1).U8(255).Bytes(), ConstructDecl, 2},
		{"declaration 2", testkit.NewStream().Count(1).U8(2).Bytes(), ConstructDecl, 2},
		{"expression", head().U8(255).Bytes(), ConstructExpr, 5},
		{"expression 12", head().U8(12).Bytes(), ConstructExpr, 5},
		{"literal", head().U8(uint8(ast.ExprLiteral)).U8(255).Bytes(), ConstructLiteral, 6},
		{"literal 3", head().U8(uint8(ast.ExprLiteral)).U8(3).Bytes(), ConstructLiteral, 6},
		{"builtin", head().U8(uint8(ast.ExprBuiltin)).U8(255).Bytes(), ConstructBuiltin, 6},
		{"builtin print", head().U8(uint8(ast.ExprBuiltin)).U8(uint8(ast.BuiltinCount)).Bytes(), ConstructBuiltin, 6},
		{"nested expression", head().U8(uint8(ast.ExprList)).Count(2).U8(uint8(ast.ExprIdent)).U16(3).U8(200).Bytes(), ConstructExpr, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DecodeBytes(tt.data, Options{})
			if res != nil {
				t.Fatal("expected no result")
			}
			if !errors.Is(err, ErrInvalidTag) {
				t.Fatalf("err = %v, want ErrInvalidTag", err)
			}
			var tagErr *InvalidTagError
			errors.As(err, &tagErr)
			if tagErr.Construct != tt.construct || tagErr.Offset != tt.offset {
				t.Fatalf("got %+v, want construct %s at %d", tagErr, tt.construct, tt.offset)
			}
			if off, ok := ErrorOffset(err); !ok || off != tt.offset {
				t.Fatalf("ErrorOffset = %d, %v", off, ok)
			}
		})
	}
}

func TestDecodeTrailingData(t *testing.T) {
	data := append(testkit.Encode(testkit.Prog(testkit.Binding(1, testkit.None()))), 0xde, 0xad)

	res := mustDecode(t, data)
	if res.Trailing != 2 {
		t.Fatalf("Trailing = %d, want 2", res.Trailing)
	}
	if res.Size != int64(len(data)-2) {
		t.Fatalf("Size = %d", res.Size)
	}

	_, err := DecodeBytes(data, Options{StrictTrailing: true})
	var trailingErr *TrailingDataError
	if !errors.As(err, &trailingErr) {
		t.Fatalf("err = %v, want TrailingDataError", err)
	}
	if trailingErr.Count != 2 || trailingErr.Offset != res.Size {
		t.Fatalf("got %+v", trailingErr)
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	const depth = 50
	s := testkit.NewStream().Count(1).U8(uint8(ast.DeclBind)).U16(1)
	for range depth {
		s.U8(uint8(ast.ExprAssign)).U16(2)
	}
	s.U8(uint8(ast.ExprIdent)).U16(3)

	if _, err := DecodeBytes(s.Bytes(), Options{MaxDepth: depth + 1}); err != nil {
		t.Fatalf("depth %d within limit: %v", depth+1, err)
	}
	_, err := DecodeBytes(s.Bytes(), Options{MaxDepth: depth})
	if !errors.Is(err, ErrDepthLimit) {
		t.Fatalf("err = %v, want ErrDepthLimit", err)
	}
}

type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestDecodeReaderFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	r := &failingReader{data: []byte{0x01, 0x00, 0x01}, err: boom}
	_, err := Decode(r, Options{})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	var ioErr *IOError
	if !errors.As(err, &ioErr) || ioErr.Construct != ConstructIdent || ioErr.Offset != 3 {
		t.Fatalf("got %+v", ioErr)
	}
}

func TestDecoderOffsetTracksConsumption(t *testing.T) {
	data := testkit.Encode(richProgram())
	d := New(io.MultiReader(bytes.NewReader(data[:7]), bytes.NewReader(data[7:])), Options{})
	if _, err := d.Program(); err != nil {
		t.Fatal(err)
	}
	if d.Offset() != int64(len(data)) {
		t.Fatalf("Offset = %d, want %d", d.Offset(), len(data))
	}
}
