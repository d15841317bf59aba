package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"astdump/internal/ast"
)

const indentWidth = 4

// FormatASTTree writes the indented tree rendering of prog to w.
//
// Every expression renders as "NAME (" followed by its fields one per line
// at depth+1, separated by ",\n", and a closing ")" at its own depth.
// Sequences render as "[" with each item followed by ",\n" and a closing
// "]". Top-level declarations are each followed by ",\n".
func FormatASTTree(w io.Writer, prog *ast.Program, opts TreeOpts) error {
	if prog == nil {
		return fmt.Errorf("nil program")
	}
	p := &treePrinter{w: w, opts: opts}
	for i := range prog.Decls {
		p.decl(&prog.Decls[i], 0)
		p.printf(",\n")
		if p.err != nil {
			return p.err
		}
	}
	return p.err
}

type treePrinter struct {
	w    io.Writer
	opts TreeOpts
	err  error
}

func (p *treePrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *treePrinter) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func indent(depth int) string {
	return strings.Repeat(" ", depth*indentWidth)
}

func (p *treePrinter) open(name string, depth int) {
	p.printf("%s%s (\n", indent(depth), name)
}

func (p *treePrinter) close(depth int) {
	p.printf("\n%s)", indent(depth))
}

func (p *treePrinter) sep() {
	p.printf(",\n")
}

func (p *treePrinter) ident(id ast.Ident, depth int) {
	p.printf("%s%d", indent(depth), id)
}

func (p *treePrinter) identList(ids []ast.Ident, depth int) {
	p.printf("%s[\n", indent(depth))
	for _, id := range ids {
		p.ident(id, depth+1)
		p.sep()
	}
	p.printf("%s]", indent(depth))
}

func (p *treePrinter) exprList(list []*ast.Expr, depth int) {
	p.printf("%s[\n", indent(depth))
	for _, e := range list {
		p.expr(e, depth+1)
		p.sep()
	}
	p.printf("%s]", indent(depth))
}

func (p *treePrinter) literal(l ast.Literal, depth int) {
	switch l.Kind {
	case ast.LiteralNone:
		p.printf("%sNone", indent(depth))
	case ast.LiteralInt:
		p.printf("%sLit(%d)", indent(depth), l.Int)
	case ast.LiteralText:
		s, err := renderText(l.Text, p.opts.Text)
		if err != nil {
			p.fail(err)
			return
		}
		p.printf("%sLit(\"%s\")", indent(depth), s)
	default:
		p.fail(fmt.Errorf("literal kind %d out of range", l.Kind))
	}
}

func (p *treePrinter) builtin(b ast.Builtin, depth int) {
	if !b.Valid() {
		p.fail(fmt.Errorf("builtin %d out of range", b))
		return
	}
	p.printf("%s%s", indent(depth), b)
}

func (p *treePrinter) expr(e *ast.Expr, depth int) {
	if e == nil {
		p.fail(fmt.Errorf("nil expression at depth %d", depth))
		return
	}
	p.open(e.Kind.String(), depth)
	in := depth + 1
	switch data := e.Data.(type) {
	case ast.ForData:
		p.ident(data.ID, in)
		p.sep()
		p.expr(data.Iter, in)
		p.sep()
		p.expr(data.Body, in)
	case ast.BindData:
		p.ident(data.ID, in)
		p.sep()
		p.expr(data.Value, in)
		p.sep()
		p.expr(data.Body, in)
	case ast.AssignData:
		p.ident(data.ID, in)
		p.sep()
		p.expr(data.Value, in)
	case ast.IfData:
		p.expr(data.Cond, in)
		p.sep()
		p.expr(data.Then, in)
		p.sep()
		p.expr(data.Else, in)
	case ast.CallData:
		p.expr(data.Callee, in)
		p.sep()
		p.exprList(data.Args, in)
	case ast.AndData:
		p.exprList(data.Operands, in)
	case ast.OrData:
		p.exprList(data.Operands, in)
	case ast.SequenceData:
		p.exprList(data.Elems, in)
	case ast.ListData:
		p.exprList(data.Elems, in)
	case ast.LiteralData:
		p.literal(data.Literal, in)
	case ast.BuiltinData:
		p.builtin(data.Builtin, in)
	case ast.IdentData:
		p.ident(data.ID, in)
	default:
		p.fail(fmt.Errorf("expression at offset %d has no payload", e.Offset))
		return
	}
	p.close(depth)
}

func (p *treePrinter) fnArgs(a ast.FnArgs, depth int) {
	switch a.Kind {
	case ast.FnArgsSingle:
		p.open("Arg", depth)
		p.ident(a.ID, depth+1)
	case ast.FnArgsMany:
		p.open("List", depth)
		p.identList(a.IDs, depth+1)
	default:
		p.fail(fmt.Errorf("function args kind %d out of range", a.Kind))
		return
	}
	p.close(depth)
}

func (p *treePrinter) decl(d *ast.Decl, depth int) {
	in := depth + 1
	switch d.Kind {
	case ast.DeclFn:
		p.open("Fn", depth)
		p.ident(d.ID, in)
		p.sep()
		p.fnArgs(d.Args, in)
		p.sep()
		p.expr(d.Body, in)
	case ast.DeclBind:
		p.open("Bind", depth)
		p.ident(d.ID, in)
		p.sep()
		p.expr(d.Body, in)
	default:
		p.fail(fmt.Errorf("declaration kind %d out of range", d.Kind))
		return
	}
	p.close(depth)
}
