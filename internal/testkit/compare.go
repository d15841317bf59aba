package testkit

import (
	"bytes"
	"fmt"
	"slices"

	"astdump/internal/ast"
)

// SameTree reports the first structural difference between two programs,
// ignoring stream offsets. It returns nil when the trees match.
func SameTree(got, want *ast.Program) error {
	if len(got.Decls) != len(want.Decls) {
		return fmt.Errorf("decl count: got %d, want %d", len(got.Decls), len(want.Decls))
	}
	for i := range want.Decls {
		g, w := got.Decls[i], want.Decls[i]
		path := fmt.Sprintf("decl[%d]", i)
		if g.Kind != w.Kind || g.ID != w.ID {
			return fmt.Errorf("%s: got %s %d, want %s %d", path, g.Kind, g.ID, w.Kind, w.ID)
		}
		if g.Kind == ast.DeclFn {
			if g.Args.Kind != w.Args.Kind || g.Args.ID != w.Args.ID || !slices.Equal(g.Args.IDs, w.Args.IDs) {
				return fmt.Errorf("%s: args: got %+v, want %+v", path, g.Args, w.Args)
			}
		}
		if err := sameExpr(path, g.Body, w.Body); err != nil {
			return err
		}
	}
	return nil
}

func sameExpr(path string, got, want *ast.Expr) error {
	if got == nil || want == nil {
		if got != want {
			return fmt.Errorf("%s: nil mismatch", path)
		}
		return nil
	}
	if got.Kind != want.Kind {
		return fmt.Errorf("%s: kind: got %s, want %s", path, got.Kind, want.Kind)
	}
	switch w := want.Data.(type) {
	case ast.ForData:
		g, _ := got.For()
		if g.ID != w.ID {
			return fmt.Errorf("%s: id: got %d, want %d", path, g.ID, w.ID)
		}
	case ast.BindData:
		g, _ := got.Bind()
		if g.ID != w.ID {
			return fmt.Errorf("%s: id: got %d, want %d", path, g.ID, w.ID)
		}
	case ast.AssignData:
		g, _ := got.Assign()
		if g.ID != w.ID {
			return fmt.Errorf("%s: id: got %d, want %d", path, g.ID, w.ID)
		}
	case ast.IdentData:
		g, _ := got.Ident()
		if g.ID != w.ID {
			return fmt.Errorf("%s: id: got %d, want %d", path, g.ID, w.ID)
		}
	case ast.BuiltinData:
		g, _ := got.Builtin()
		if g.Builtin != w.Builtin {
			return fmt.Errorf("%s: builtin: got %s, want %s", path, g.Builtin, w.Builtin)
		}
	case ast.LiteralData:
		g, _ := got.Literal()
		if g.Literal.Kind != w.Literal.Kind || g.Literal.Int != w.Literal.Int || !bytes.Equal(g.Literal.Text, w.Literal.Text) {
			return fmt.Errorf("%s: literal: got %+v, want %+v", path, g.Literal, w.Literal)
		}
	}
	gc, wc := got.Children(), want.Children()
	if len(gc) != len(wc) {
		return fmt.Errorf("%s: children: got %d, want %d", path, len(gc), len(wc))
	}
	for i := range wc {
		if err := sameExpr(fmt.Sprintf("%s/%s[%d]", path, want.Kind, i), gc[i], wc[i]); err != nil {
			return err
		}
	}
	return nil
}
