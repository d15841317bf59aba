package ast

// Visitor is called for each expression during Walk. Returning false skips the
// node's children.
type Visitor interface {
	VisitDecl(d *Decl) bool
	VisitExpr(e *Expr, depth int) bool
}

// Walk traverses the program depth-first, pre-order. Top-level bodies are at
// depth 1.
func Walk(p *Program, v Visitor) {
	if p == nil || v == nil {
		return
	}
	for i := range p.Decls {
		d := &p.Decls[i]
		if !v.VisitDecl(d) {
			continue
		}
		walkExpr(d.Body, 1, v)
	}
}

func walkExpr(e *Expr, depth int, v Visitor) {
	if e == nil || !v.VisitExpr(e, depth) {
		return
	}
	for _, child := range e.Children() {
		walkExpr(child, depth+1, v)
	}
}

type inspector func(*Expr) bool

func (f inspector) VisitDecl(*Decl) bool          { return true }
func (f inspector) VisitExpr(e *Expr, _ int) bool { return f(e) }

// Inspect calls fn for e and each of its descendants in pre-order.
func Inspect(e *Expr, fn func(*Expr) bool) {
	if fn == nil {
		return
	}
	walkExpr(e, 0, inspector(fn))
}
