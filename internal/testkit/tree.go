package testkit

import "astdump/internal/ast"

// Small constructors for building expected trees in tests. Offsets are left
// zero; compare decoded trees with SameTree, which ignores them.

func Lit(l ast.Literal) *ast.Expr       { return ast.NewExpr(0, ast.LiteralData{Literal: l}) }
func Int(v int64) *ast.Expr             { return Lit(ast.IntLiteral(v)) }
func Str(s string) *ast.Expr            { return Lit(ast.TextLiteral(ast.Text(s))) }
func None() *ast.Expr                   { return Lit(ast.NoneLiteral()) }
func Ref(id ast.Ident) *ast.Expr        { return ast.NewExpr(0, ast.IdentData{ID: id}) }
func Op(b ast.Builtin) *ast.Expr        { return ast.NewExpr(0, ast.BuiltinData{Builtin: b}) }
func List(elems ...*ast.Expr) *ast.Expr { return ast.NewExpr(0, ast.ListData{Elems: nonNil(elems)}) }
func Seq(elems ...*ast.Expr) *ast.Expr  { return ast.NewExpr(0, ast.SequenceData{Elems: nonNil(elems)}) }
func And(ops ...*ast.Expr) *ast.Expr    { return ast.NewExpr(0, ast.AndData{Operands: nonNil(ops)}) }
func Or(ops ...*ast.Expr) *ast.Expr     { return ast.NewExpr(0, ast.OrData{Operands: nonNil(ops)}) }

func Call(callee *ast.Expr, args ...*ast.Expr) *ast.Expr {
	return ast.NewExpr(0, ast.CallData{Callee: callee, Args: nonNil(args)})
}

func If(cond, then, els *ast.Expr) *ast.Expr {
	return ast.NewExpr(0, ast.IfData{Cond: cond, Then: then, Else: els})
}

func For(id ast.Ident, iter, body *ast.Expr) *ast.Expr {
	return ast.NewExpr(0, ast.ForData{ID: id, Iter: iter, Body: body})
}

func Let(id ast.Ident, value, body *ast.Expr) *ast.Expr {
	return ast.NewExpr(0, ast.BindData{ID: id, Value: value, Body: body})
}

func Assign(id ast.Ident, value *ast.Expr) *ast.Expr {
	return ast.NewExpr(0, ast.AssignData{ID: id, Value: value})
}

func Fn(id ast.Ident, args ast.FnArgs, body *ast.Expr) ast.Decl {
	return ast.Decl{Kind: ast.DeclFn, ID: id, Args: args, Body: body}
}

func Binding(id ast.Ident, value *ast.Expr) ast.Decl {
	return ast.Decl{Kind: ast.DeclBind, ID: id, Body: value}
}

func Prog(decls ...ast.Decl) *ast.Program {
	if decls == nil {
		decls = []ast.Decl{}
	}
	return &ast.Program{Decls: decls}
}

func nonNil(list []*ast.Expr) []*ast.Expr {
	if list == nil {
		return []*ast.Expr{}
	}
	return list
}
